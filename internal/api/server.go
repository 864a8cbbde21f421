// Package api expõe a superfície operacional do worker: healthcheck, métricas e controle dos jobs
package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/internal/api/handler"
	"github.com/vfg2006/sales-performance-engine/internal/config"
	"github.com/vfg2006/sales-performance-engine/internal/metrics"
	"github.com/vfg2006/sales-performance-engine/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
}

// NewRouter registra as rotas no httprouter
func NewRouter(routes ...[]handler.Route) *httprouter.Router {
	router := httprouter.New()
	for _, group := range routes {
		for _, route := range group {
			router.Handler(route.Method, route.Path, route.Handler)
		}
	}
	return router
}

func New(ctx context.Context, cfg *config.Config, recorder *metrics.Recorder, jobs handler.JobServices) *Server {
	rt := NewRouter(
		handler.Healthcheck(),
		handler.Metrics(recorder),
		handler.Jobs(ctx, jobs),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}
}

// Run serve até receber um sinal de término ou o contexto ser cancelado
func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithField("address", s.httpServer.Addr).Info("Servidor operacional iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor operacional")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor operacional")

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor operacional")
		return err
	}

	logrus.Info("Servidor operacional desligado com sucesso")
	return nil
}
