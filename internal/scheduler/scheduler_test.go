package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-performance-engine/internal/config"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

type stubResyncer struct {
	started chan struct{}
	release chan struct{}
	report  *domain.BatchReport
	err     error
}

func newStubResyncer(report *domain.BatchReport, err error) *stubResyncer {
	return &stubResyncer{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		report:  report,
		err:     err,
	}
}

func (s *stubResyncer) FullResync(ctx context.Context) (*domain.BatchReport, error) {
	s.started <- struct{}{}
	<-s.release
	return s.report, s.err
}

type stubSweeper struct {
	policies []domain.FixPolicy
	report   *domain.SweepReport
}

func (s *stubSweeper) Sweep(_ context.Context, policy domain.FixPolicy) (*domain.SweepReport, error) {
	s.policies = append(s.policies, policy)
	return s.report, nil
}

func appConfig() *config.Config {
	return &config.Config{
		PerformanceSync: config.PerformanceSync{
			CronSchedule:      "0 2 * * *",
			MaxConcurrentJobs: 4,
			JobTimeoutSeconds: 30,
			DeadlineSeconds:   1800,
			Enabled:           true,
		},
		ConsistencySweep: config.ConsistencySweep{
			CronSchedule: "30 3 * * *",
			Enabled:      true,
			AutoFix:      true,
		},
	}
}

func TestPerformanceSyncService_Start(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *config.Config)
		wantJobs int
		wantErr  bool
	}{
		{
			name:     "Agenda o job quando habilitado",
			mutate:   func(*config.Config) {},
			wantJobs: 1,
		},
		{
			name:     "Não agenda quando desabilitado",
			mutate:   func(cfg *config.Config) { cfg.PerformanceSync.Enabled = false },
			wantJobs: 0,
		},
		{
			name:    "Expressão cron inválida",
			mutate:  func(cfg *config.Config) { cfg.PerformanceSync.CronSchedule = "todo dia" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := appConfig()
			tt.mutate(cfg)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			service := NewPerformanceSyncService(newStubResyncer(nil, nil), cfg)
			err := service.Start(ctx)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantJobs, service.scheduler.Len())
		})
	}
}

func TestPerformanceSyncService_SkipsWhileRunning(t *testing.T) {
	report := &domain.BatchReport{RunID: "run-1", Total: 3, Succeeded: 2, Skipped: 1}
	resyncer := newStubResyncer(report, nil)
	service := NewPerformanceSyncService(resyncer, appConfig())

	done := make(chan bool)
	go func() { done <- service.syncPerformance(context.Background()) }()
	<-resyncer.started

	assert.False(t, service.syncPerformance(context.Background()), "segunda execução é ignorada")
	assert.Equal(t, true, service.GetStatus()["sync_running"])

	close(resyncer.release)
	assert.True(t, <-done)

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, "run-1", status["last_run_id"])
	assert.Equal(t, 2, status["last_succeeded"])
	assert.Equal(t, 1, status["last_skipped"])
}

func TestPerformanceSyncService_TriggerManualSync(t *testing.T) {
	resyncer := newStubResyncer(nil, errors.New("database is down"))
	service := NewPerformanceSyncService(resyncer, appConfig())

	service.TriggerManualSync(context.Background())

	select {
	case <-resyncer.started:
	case <-time.After(time.Second):
		t.Fatal("ressincronização manual não iniciou")
	}
	close(resyncer.release)

	assert.Eventually(t, func() bool {
		return service.GetStatus()["sync_running"] == false
	}, time.Second, 10*time.Millisecond)
	assert.NotContains(t, service.GetStatus(), "last_run_id", "falha sem relatório mantém o status anterior")
}

func TestConsistencySweepService_UsesConfiguredPolicy(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.ConsistencySweep)
		want   domain.FixPolicy
	}{
		{
			name:   "Correção automática desligada só valida",
			mutate: func(cfg *config.ConsistencySweep) { cfg.AutoFix = false },
			want:   domain.FixPolicy{},
		},
		{
			name: "Correção automática completa",
			mutate: func(cfg *config.ConsistencySweep) {
				cfg.ClampNegativeAchieved = true
				cfg.ExcludeInvalidConversions = true
				cfg.FillRoleNames = true
			},
			want: domain.FixAll(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := appConfig()
			tt.mutate(&cfg.ConsistencySweep)

			sweeper := &stubSweeper{report: &domain.SweepReport{
				RunID:  "sweep-1",
				Issues: []domain.Issue{{Kind: domain.IssueNegativeAchieved}},
				Fixed:  map[domain.IssueKind]int{domain.IssueNegativeAchieved: 1},
			}}
			service := NewConsistencySweepService(sweeper, cfg)

			assert.True(t, service.sweep(context.Background()))
			require.Len(t, sweeper.policies, 1)
			assert.Equal(t, tt.want, sweeper.policies[0])

			status := service.GetStatus()
			assert.Equal(t, "sweep-1", status["last_run_id"])
			assert.Equal(t, 1, status["last_issues"])
			assert.Equal(t, 1, status["last_fixed"])
		})
	}
}

func TestConsistencySweepService_Start(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service := NewConsistencySweepService(&stubSweeper{}, appConfig())
	require.NoError(t, service.Start(ctx))
	assert.Equal(t, 1, service.scheduler.Len())
}
