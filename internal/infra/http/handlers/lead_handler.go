package handlers

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/talent-pipeline/internal/usecase"
)

type LeadHandler struct {
	UseCases    LeadUseCases
	rateLimiter *RateLimiter
}

type LeadUseCases struct {
	List         *usecase.ListLeadsUseCase
	Get          *usecase.GetLeadUseCase
	Add          *usecase.AddLeadUseCase
	ChangeStatus *usecase.ChangeStatusUseCase
	BulkStatus   *usecase.BulkChangeStatusUseCase
	BulkDelete   *usecase.BulkDeleteUseCase
	LogContact   *usecase.LogContactUseCase
	Export       *usecase.ExportLeadsUseCase
}

// NewLeadHandler limits lead creation to addsPerMinute per client IP.
func NewLeadHandler(uc LeadUseCases, addsPerMinute int) *LeadHandler {
	if addsPerMinute <= 0 {
		addsPerMinute = 10
	}
	return &LeadHandler{
		UseCases:    uc,
		rateLimiter: NewRateLimiter(addsPerMinute, time.Minute),
	}
}

// Close stops the rate limiter's background sweep.
func (h *LeadHandler) Close() {
	h.rateLimiter.Stop()
}

func listInput(r *http.Request) usecase.ListLeadsInput {
	q := r.URL.Query()
	return usecase.ListLeadsInput{
		Status:   q.Get("status"),
		Query:    q.Get("q"),
		Earnings: q.Get("earnings"),
		Recency:  q.Get("recency"),
	}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.UseCases.List.Execute(r.Context(), listInput(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.UseCases.Get.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("ETag", etag(lead.Version))
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.AddLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.IdempotencyKey = r.Header.Get("Idempotency-Key")

	out, err := h.UseCases.Add.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if out.Replayed {
		status = http.StatusOK
	}
	w.Header().Set("Location", "/leads/"+out.Lead.ID)
	writeJSON(w, status, out)
}

func (h *LeadHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var input usecase.ChangeStatusInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	if raw := r.Header.Get("If-Match"); raw != "" {
		v, err := parseETag(raw)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "If-Match must carry a lead version")
			return
		}
		input.ExpectedVersion = v
	}

	lead, err := h.UseCases.ChangeStatus.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("ETag", etag(lead.Version))
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) LogContact(w http.ResponseWriter, r *http.Request) {
	var input usecase.LogContactInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.LeadID = chi.URLParam(r, "id")

	lead, err := h.UseCases.LogContact.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("ETag", etag(lead.Version))
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	var input usecase.BulkChangeStatusInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.UseCases.BulkStatus.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var input usecase.BulkDeleteInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.UseCases.BulkDelete.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Export accepts either a JSON body (POST) or query parameters (GET):
// format, selection_id, ids (comma separated) and all.
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	var input usecase.ExportInput
	if r.Method == http.MethodPost && r.ContentLength != 0 {
		if !decodeJSON(w, r, &input) {
			return
		}
	}

	q := r.URL.Query()
	if f := q.Get("format"); f != "" {
		input.Format = f
	}
	if s := q.Get("selection_id"); s != "" {
		input.SelectionID = s
	}
	if ids := q.Get("ids"); ids != "" {
		input.LeadIDs = strings.Split(ids, ",")
	}
	if all, err := strconv.ParseBool(q.Get("all")); err == nil {
		input.All = all
	}

	out, err := h.UseCases.Export.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	w.Header().Set("X-Export-Count", strconv.Itoa(out.Count))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Body)
}

func etag(version int) string {
	return `"` + strconv.Itoa(version) + `"`
}

func parseETag(raw string) (int, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "W/")
	return strconv.Atoi(strings.Trim(raw, `"`))
}

// getClientIP keys rate limiting on the peer host. Forwarding headers only count
// when the router trusts a proxy and chi's RealIP has already rewritten RemoteAddr.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
