package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/internal/config"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/usecases/consistency"
)

// Sweeper valida os dados e aplica as correções permitidas
type Sweeper interface {
	Sweep(ctx context.Context, policy domain.FixPolicy) (*domain.SweepReport, error)
}

type ConsistencySweepConfig struct {
	CronSchedule string
	Policy       domain.FixPolicy
	SyncEnabled  bool
}

// ConsistencySweepService agenda a varredura de consistência
type ConsistencySweepService struct {
	scheduler            *gocron.Scheduler
	config               ConsistencySweepConfig
	sweeper              Sweeper
	sweepRunning         bool
	sweepMutex           sync.Mutex
	lastSweepStartedAt   time.Time
	lastSweepCompletedAt time.Time
	lastReport           *domain.SweepReport
}

func NewConsistencySweepService(sweeper Sweeper, appConfig *config.Config) *ConsistencySweepService {
	sweepConfig := ConsistencySweepConfig{
		CronSchedule: appConfig.ConsistencySweep.CronSchedule,
		Policy:       consistency.PolicyFromConfig(appConfig.ConsistencySweep),
		SyncEnabled:  appConfig.ConsistencySweep.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": sweepConfig.CronSchedule,
		"auto_fix":      appConfig.ConsistencySweep.AutoFix,
		"sync_enabled":  sweepConfig.SyncEnabled,
	}).Info("Configuração do agendador da varredura de consistência carregada")

	return &ConsistencySweepService{
		scheduler: scheduler,
		config:    sweepConfig,
		sweeper:   sweeper,
	}
}

func (s *ConsistencySweepService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Varredura de consistência desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador da varredura de consistência")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar varredura de consistência: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador da varredura de consistência")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ConsistencySweepService) sweep(ctx context.Context) bool {
	s.sweepMutex.Lock()
	if s.sweepRunning {
		s.sweepMutex.Unlock()
		logrus.Info("Varredura de consistência já em andamento, ignorando")
		return false
	}
	s.sweepRunning = true
	s.lastSweepStartedAt = time.Now()
	s.sweepMutex.Unlock()

	report, err := s.sweeper.Sweep(ctx, s.config.Policy)

	s.sweepMutex.Lock()
	s.sweepRunning = false
	s.lastSweepCompletedAt = time.Now()
	if report != nil {
		s.lastReport = report
	}
	s.sweepMutex.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Erro na varredura de consistência")
	}

	return true
}

// TriggerManualSweep inicia manualmente uma varredura em segundo plano
func (s *ConsistencySweepService) TriggerManualSweep(ctx context.Context) {
	s.sweepMutex.Lock()
	if s.sweepRunning {
		s.sweepMutex.Unlock()
		logrus.Info("Varredura de consistência já em andamento, ignorando solicitação manual")
		return
	}
	s.sweepMutex.Unlock()

	go s.sweep(ctx)
}

func (s *ConsistencySweepService) GetStatus() map[string]any {
	s.sweepMutex.Lock()
	defer s.sweepMutex.Unlock()

	status := map[string]any{
		"sweep_enabled":           s.config.SyncEnabled,
		"sweep_cron":              s.config.CronSchedule,
		"sweep_policy":            s.config.Policy,
		"sweep_running":           s.sweepRunning,
		"last_sweep_started_at":   s.lastSweepStartedAt,
		"last_sweep_completed_at": s.lastSweepCompletedAt,
	}

	if s.lastReport != nil {
		status["last_run_id"] = s.lastReport.RunID
		status["last_issues"] = len(s.lastReport.Issues)
		status["last_fixed"] = s.lastReport.TotalFixed()
	}

	return status
}
