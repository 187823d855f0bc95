package usecase

import (
	"context"

	"github.com/xavierca1/talent-pipeline/internal/entity"
)

type LeadStatsUseCase struct {
	Repo     LeadRepositoryInterface
	Recorder StatsRecorder
	Now      Clock
}

func NewLeadStatsUseCase(repo LeadRepositoryInterface, recorder StatsRecorder, now Clock) *LeadStatsUseCase {
	return &LeadStatsUseCase{Repo: repo, Recorder: recorder, Now: now}
}

func (uc *LeadStatsUseCase) Execute(ctx context.Context) (entity.LeadStats, error) {
	leads, err := uc.Repo.List(ctx)
	if err != nil {
		return entity.LeadStats{}, storeError("failed to load leads", err)
	}

	stats := entity.ComputeStats(leads, uc.Now.now())
	if uc.Recorder != nil {
		uc.Recorder.RecordLeadStats(stats)
	}
	return stats, nil
}
