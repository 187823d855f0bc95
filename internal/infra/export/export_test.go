package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/talent-pipeline/internal/entity"
	"github.com/xavierca1/talent-pipeline/internal/usecase"
)

var rows = []usecase.ExportRow{
	{Name: "Sarah Johnson", InstagramHandle: "@sarah_j_model", Earnings: 150000, Status: entity.StatusPending},
	{Name: "Doe, Jane", InstagramHandle: "@jane", Earnings: 0, Status: entity.StatusSigned},
}

func TestExporters(t *testing.T) {
	ex := Exporters()

	assert.Len(t, ex, 3)
	for format, e := range ex {
		assert.Equal(t, format, e.Extension())
		assert.NotEmpty(t, e.ContentType())
	}
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV{}.Write(&buf, rows))

	want := "name,instagram_handle,earnings,status\n" +
		"Sarah Johnson,@sarah_j_model,150000,pending\n" +
		"\"Doe, Jane\",@jane,0,signed\n"
	assert.Equal(t, want, buf.String())
}

func TestCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV{}.Write(&buf, nil))
	assert.Equal(t, "name,instagram_handle,earnings,status\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Write(&buf, rows))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "@sarah_j_model", got[0]["instagram_handle"])
	assert.Equal(t, 150000.0, got[0]["earnings"])

	buf.Reset()
	require.NoError(t, JSON{}.Write(&buf, nil))
	assert.JSONEq(t, "[]", buf.String())
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX{}.Write(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, header, got[0])
	assert.Equal(t, []string{"Sarah Johnson", "@sarah_j_model", "150000", "pending"}, got[1])
	assert.Equal(t, []string{"Doe, Jane", "@jane", "0", "signed"}, got[2])
}
