package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

var repoNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

var leadRowColumns = []string{
	"id", "full_name", "instagram_handle", "profile_picture", "phone_number", "only_fans_earnings",
	"currently_signed_to", "referred_by", "whos_talking_to", "notes", "last_time_spoken_to", "status",
	"version", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*LeadRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewLeadRepository(db), mock
}

func leadRows() *sqlmock.Rows {
	return sqlmock.NewRows(leadRowColumns)
}

func addLeadRow(rows *sqlmock.Rows, id, name string, status entity.Status, version int) *sqlmock.Rows {
	return rows.AddRow(id, name, "@"+id, "https://example.com/p.png", nil, int64(150000),
		nil, nil, "Mike Thompson", "note", repoNow, string(status), version, repoNow, repoNow)
}

func entryRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "lead_id", "date", "deal_status", "notes"})
}

func sqlText(s string) string {
	return regexp.QuoteMeta(s)
}

func TestLeadRepository_UpdateStatus_VersionConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(sqlText("UPDATE leads")).
		WithArgs("1", "signed", sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(sqlText("SELECT EXISTS")).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), "1", entity.StatusSigned, 3, nil)

	assert.ErrorIs(t, err, entity.ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(sqlText("UPDATE leads")).
		WithArgs("missing", "dead", sqlmock.AnyArg(), 0).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(sqlText("SELECT EXISTS")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.UpdateStatus(context.Background(), "missing", entity.StatusDead, 0, nil)

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_UpdateStatus_ReadsBackInSameTx(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(sqlText("UPDATE leads")).
		WithArgs("1", "signed", sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(sqlText("FROM leads WHERE id = $1")).
		WithArgs("1").
		WillReturnRows(addLeadRow(leadRows(), "1", "Sarah Johnson", entity.StatusSigned, 2))
	mock.ExpectQuery(sqlText("FROM conversation_entries")).
		WillReturnRows(entryRows().AddRow("1-1", "1", repoNow, "Initial Contact", nil))
	mock.ExpectCommit()

	lead, err := repo.UpdateStatus(context.Background(), "1", entity.StatusSigned, 1, nil)

	require.NoError(t, err)
	assert.Equal(t, entity.StatusSigned, lead.Status)
	assert.Equal(t, 2, lead.Version)
	assert.Len(t, lead.ConversationTimeline, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_Create_ReplaysIdempotencyKey(t *testing.T) {
	repo, mock := newMockRepo(t)
	lead, err := entity.NewLead(entity.LeadDetails{
		FullName:        "Sarah Johnson",
		InstagramHandle: "sarah",
		WhosTalkingTo:   "Mike Thompson",
	}, repoNow)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(sqlText("INSERT INTO leads")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(sqlText("SELECT id FROM leads WHERE idempotency_key = $1")).
		WithArgs("key-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("1"))
	mock.ExpectQuery(sqlText("FROM leads WHERE id = $1")).
		WithArgs("1").
		WillReturnRows(addLeadRow(leadRows(), "1", "Sarah Johnson", entity.StatusPending, 1))
	mock.ExpectQuery(sqlText("FROM conversation_entries")).
		WillReturnRows(entryRows().AddRow("1-1", "1", repoNow, entity.DealStatusLeadAdded, "Added"))
	mock.ExpectCommit()

	stored, replayed, err := repo.Create(context.Background(), lead, "key-1")

	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, "1", stored.ID)
	require.Len(t, stored.ConversationTimeline, 1)
	assert.Equal(t, "Added", stored.ConversationTimeline[0].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_Create_InsertsTimeline(t *testing.T) {
	repo, mock := newMockRepo(t)
	lead, err := entity.NewLead(entity.LeadDetails{
		FullName:        "Zoe Martinez",
		InstagramHandle: "zoe",
		WhosTalkingTo:   "Lisa Chen",
	}, repoNow)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(sqlText("INSERT INTO leads")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlText("INSERT INTO conversation_entries")).
		WithArgs(lead.ConversationTimeline[0].ID, lead.ID, repoNow, entity.DealStatusLeadAdded, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stored, replayed, err := repo.Create(context.Background(), lead, "")

	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, lead.ID, stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_List_ReadsOneSnapshot(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := leadRows()
	addLeadRow(rows, "5", "Zoe Martinez", entity.StatusPending, 1)
	addLeadRow(rows, "1", "Sarah Johnson", entity.StatusPending, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlText("FROM leads ORDER BY seq DESC")).WillReturnRows(rows)
	mock.ExpectQuery(sqlText("FROM conversation_entries")).
		WillReturnRows(entryRows().
			AddRow("1-1", "1", repoNow, "Initial Contact", "DM").
			AddRow("5-1", "5", repoNow, "Discovery Call", nil).
			AddRow("5-2", "5", repoNow, "Proposal Review", nil))
	mock.ExpectCommit()

	leads, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "5", leads[0].ID)
	assert.Equal(t, "1", leads[1].ID)
	assert.Len(t, leads[0].ConversationTimeline, 2)
	assert.Len(t, leads[1].ConversationTimeline, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_List_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlText("FROM leads ORDER BY seq DESC")).WillReturnRows(leadRows())
	mock.ExpectCommit()

	leads, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, leads)
	assert.Empty(t, leads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlText("FROM leads WHERE id = $1")).WithArgs("nope").WillReturnRows(leadRows())
	mock.ExpectRollback()

	_, err := repo.FindByID(context.Background(), "nope")

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepository_Delete_ReturnsRemovedNewestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(sqlText("DELETE FROM leads WHERE id = ANY($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("4").AddRow("2"))

	removed, err := repo.Delete(context.Background(), []string{"2", "4", "missing"})

	require.NoError(t, err)
	assert.Equal(t, []string{"4", "2"}, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
