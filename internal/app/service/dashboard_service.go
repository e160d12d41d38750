package service

import (
	"context"
	"fmt"

	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository"

	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	statsRepo repository.StatsRepository
}

func NewDashboardService(statsRepo repository.StatsRepository) *DashboardService {
	return &DashboardService{statsRepo: statsRepo}
}

// Stats runs the four counts concurrently; the first failure cancels the
// rest.
func (s *DashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	counts := []struct {
		dst *int
		fn  func(context.Context) (int, error)
	}{
		{&stats.TotalEvents, s.statsRepo.CountEvents},
		{&stats.TotalTeams, s.statsRepo.CountTeams},
		{&stats.TotalUsers, s.statsRepo.CountUsers},
		{&stats.ActiveEvents, s.statsRepo.CountActiveEvents},
	}
	for _, c := range counts {
		g.Go(func() error {
			n, err := c.fn(ctx)
			if err != nil {
				return err
			}
			*c.dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return &stats, nil
}
