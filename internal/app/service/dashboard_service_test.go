package service

import (
	"context"
	"errors"
	"testing"

	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Stats(t *testing.T) {
	repo := &repotest.FakeStatsRepository{
		CountEventsFunc:       func(ctx context.Context) (int, error) { return 4, nil },
		CountActiveEventsFunc: func(ctx context.Context) (int, error) { return 1, nil },
		CountTeamsFunc:        func(ctx context.Context) (int, error) { return 12, nil },
		CountUsersFunc:        func(ctx context.Context) (int, error) { return 57, nil },
	}
	svc := NewDashboardService(repo)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &model.DashboardStats{TotalEvents: 4, TotalTeams: 12, TotalUsers: 57, ActiveEvents: 1}, stats)
	assert.ElementsMatch(t, []string{"CountEvents", "CountActiveEvents", "CountTeams", "CountUsers"}, repo.Trace())
}

func TestDashboardService_StatsFailure(t *testing.T) {
	repo := &repotest.FakeStatsRepository{
		CountTeamsFunc: func(ctx context.Context) (int, error) { return 0, errors.New("timeout") },
	}
	svc := NewDashboardService(repo)

	_, err := svc.Stats(context.Background())
	assert.ErrorContains(t, err, "timeout")
}
