package handlers

import (
	"net/http"

	"github.com/xavierca1/talent-pipeline/internal/usecase"
)

type StatsHandler struct {
	StatsUC *usecase.LeadStatsUseCase
}

func NewStatsHandler(uc *usecase.LeadStatsUseCase) *StatsHandler {
	return &StatsHandler{StatsUC: uc}
}

func (h *StatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	stats, err := h.StatsUC.Execute(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
