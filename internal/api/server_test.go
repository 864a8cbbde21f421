package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-performance-engine/internal/api/handler"
	"github.com/vfg2006/sales-performance-engine/internal/config"
	"github.com/vfg2006/sales-performance-engine/internal/metrics"
	"github.com/vfg2006/sales-performance-engine/pkg/log"
)

func TestServer_Routes(t *testing.T) {
	log.SetupTestLogger()

	recorder := metrics.New(prometheus.NewRegistry())
	recorder.ObserveBatch("resync", 3, 0, 1, 0)

	cfg := &config.Config{Metrics: config.Metrics{Addr: ":0", Enabled: true}}
	server := New(context.Background(), cfg, recorder, handler.JobServices{})

	tests := []struct {
		name         string
		method       string
		path         string
		wantStatus   int
		wantContains string
	}{
		{
			name:         "healthcheck",
			method:       http.MethodGet,
			path:         "/healthcheck",
			wantStatus:   http.StatusOK,
			wantContains: "ok",
		},
		{
			name:         "métricas",
			method:       http.MethodGet,
			path:         "/metrics",
			wantStatus:   http.StatusOK,
			wantContains: "sales_performance_batch_items_total",
		},
		{
			name:       "status sem agendadores",
			method:     http.MethodGet,
			path:       "/v1/jobs/status",
			wantStatus: http.StatusOK,
		},
		{
			name:       "rota inexistente",
			method:     http.MethodGet,
			path:       "/v1/targets",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			server.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantContains != "" {
				assert.Contains(t, rec.Body.String(), tt.wantContains)
			}
		})
	}
}
