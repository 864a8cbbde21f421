package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-performance-engine/pkg/apiErrors"
	"github.com/vfg2006/sales-performance-engine/pkg/log"
)

// Tipos de job que podem ser disparados manualmente
const (
	JobTypeResync = "resync"
	JobTypeSweep  = "sweep"
	JobTypeAll    = "all"
)

type PerformanceSyncer interface {
	TriggerManualSync(ctx context.Context)
	GetStatus() map[string]any
}

type ConsistencySweeper interface {
	TriggerManualSweep(ctx context.Context)
	GetStatus() map[string]any
}

// JobServices contém os agendadores expostos pela superfície operacional
type JobServices struct {
	PerformanceSync  PerformanceSyncer
	ConsistencySweep ConsistencySweeper
}

// RunJob dispara um job em segundo plano. O contexto do job não depende da requisição.
func RunJob(ctx context.Context, services JobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if jobType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de job não especificado", nil)
			return
		}

		jobCtx := ctx
		if correlationID := log.GetCorrelationID(r.Context()); correlationID != "" {
			jobCtx = context.WithValue(ctx, log.CorrelationIDKey, correlationID)
		}

		switch jobType {
		case JobTypeResync:
			if services.PerformanceSync == nil {
				apiErrors.WriteError(w, apiErrors.ErrServiceUnavailable, "Ressincronização de performance não disponível", nil)
				return
			}
			services.PerformanceSync.TriggerManualSync(jobCtx)

		case JobTypeSweep:
			if services.ConsistencySweep == nil {
				apiErrors.WriteError(w, apiErrors.ErrServiceUnavailable, "Varredura de consistência não disponível", nil)
				return
			}
			services.ConsistencySweep.TriggerManualSweep(jobCtx)

		case JobTypeAll:
			if services.PerformanceSync != nil {
				services.PerformanceSync.TriggerManualSync(jobCtx)
			}
			if services.ConsistencySweep != nil {
				services.ConsistencySweep.TriggerManualSweep(jobCtx)
			}

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de job inválido. Valores aceitos: resync, sweep, all", nil)
			return
		}

		apiErrors.WriteJSON(w, http.StatusAccepted, map[string]any{
			"message": "Job iniciado com sucesso",
			"type":    jobType,
		})
	}
}

// GetJobStatus retorna o status dos agendadores
func GetJobStatus(services JobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.PerformanceSync != nil {
			status[JobTypeResync] = services.PerformanceSync.GetStatus()
		}
		if services.ConsistencySweep != nil {
			status[JobTypeSweep] = services.ConsistencySweep.GetStatus()
		}

		apiErrors.WriteJSON(w, http.StatusOK, status)
	}
}
