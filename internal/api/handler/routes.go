package handler

import (
	"context"
	"net/http"

	"github.com/vfg2006/sales-performance-engine/internal/metrics"
)

type Route struct {
	Path    string
	Method  string
	Handler http.Handler
}

func Healthcheck() []Route {
	return []Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics(recorder *metrics.Recorder) []Route {
	return []Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: recorder.Handler(),
		},
	}
}

func Jobs(ctx context.Context, services JobServices) []Route {
	return []Route{
		{
			Path:    "/v1/jobs/status",
			Method:  http.MethodGet,
			Handler: GetJobStatus(services),
		},
		{
			Path:    "/v1/jobs/run/:type",
			Method:  http.MethodPost,
			Handler: RunJob(ctx, services),
		},
	}
}
