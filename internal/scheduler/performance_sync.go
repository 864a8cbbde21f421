// Package scheduler contém os serviços de agendamento da ressincronização e da varredura de consistência
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
)

// Resyncer recalcula todas as metas ativas
type Resyncer interface {
	FullResync(ctx context.Context) (*domain.BatchReport, error)
}

// PerformanceSyncConfig representa a configuração do agendador de ressincronização
type PerformanceSyncConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	JobTimeoutSeconds int
	DeadlineSeconds   int
	SyncEnabled       bool
}

// PerformanceSyncService agenda a ressincronização completa de performance
type PerformanceSyncService struct {
	scheduler           *gocron.Scheduler
	config              PerformanceSyncConfig
	resyncer            Resyncer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastReport          *domain.BatchReport
}

func NewPerformanceSyncService(resyncer Resyncer, appConfig *config.Config) *PerformanceSyncService {
	syncConfig := PerformanceSyncConfig{
		CronSchedule:      appConfig.PerformanceSync.CronSchedule,
		MaxConcurrentJobs: appConfig.PerformanceSync.MaxConcurrentJobs,
		JobTimeoutSeconds: appConfig.PerformanceSync.JobTimeoutSeconds,
		DeadlineSeconds:   appConfig.PerformanceSync.DeadlineSeconds,
		SyncEnabled:       appConfig.PerformanceSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       syncConfig.CronSchedule,
		"max_concurrent_jobs": syncConfig.MaxConcurrentJobs,
		"job_timeout_seconds": syncConfig.JobTimeoutSeconds,
		"deadline_seconds":    syncConfig.DeadlineSeconds,
		"sync_enabled":        syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de ressincronização de performance carregada")

	return &PerformanceSyncService{
		scheduler: scheduler,
		config:    syncConfig,
		resyncer:  resyncer,
	}
}

// Start inicia o agendador
func (s *PerformanceSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Ressincronização de performance desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de ressincronização de performance")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncPerformance(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar ressincronização de performance: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de ressincronização de performance")
		s.scheduler.Stop()
	}()

	return nil
}

// syncPerformance executa uma ressincronização; retorna false quando outra já está em andamento
func (s *PerformanceSyncService) syncPerformance(ctx context.Context) bool {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Ressincronização de performance já em andamento, ignorando")
		return false
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	report, err := s.resyncer.FullResync(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	s.lastSyncCompletedAt = time.Now()
	if report != nil {
		s.lastReport = report
	}
	s.syncMutex.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Erro na ressincronização de performance")
	}

	return true
}

// TriggerManualSync inicia manualmente uma ressincronização em segundo plano
func (s *PerformanceSyncService) TriggerManualSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Ressincronização de performance já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando ressincronização manual de performance")
	go s.syncPerformance(ctx)
}

// GetStatus retorna o status atual do agendador
func (s *PerformanceSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_job_timeout_s":     s.config.JobTimeoutSeconds,
		"sync_deadline_s":        s.config.DeadlineSeconds,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}

	if s.lastReport != nil {
		status["last_run_id"] = s.lastReport.RunID
		status["last_succeeded"] = s.lastReport.Succeeded
		status["last_failed"] = s.lastReport.Failed
		status["last_skipped"] = s.lastReport.Skipped
	}

	return status
}
