// Package metrics expõe contadores e histogramas Prometheus do motor de performance
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sales_performance"

// Resultados de um cálculo individual
const (
	OutcomeSuccess = "success"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Recorder agrupa os coletores. Um *Recorder nil é válido e ignora as medições.
type Recorder struct {
	calculations        *prometheus.CounterVec
	calculationDuration *prometheus.HistogramVec
	aggregationFixes    prometheus.Counter
	batchItems          *prometheus.CounterVec
	batchDuration       *prometheus.HistogramVec
	repairs             *prometheus.CounterVec
	issues              *prometheus.CounterVec
	rankedRecords       *prometheus.CounterVec
	gatherer            prometheus.Gatherer
}

func New(registry *prometheus.Registry) *Recorder {
	r := &Recorder{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Cálculos de performance por tipo de entidade e resultado.",
		}, []string{"entity_type", "outcome"}),
		calculationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Duração de um cálculo de performance.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"entity_type"}),
		aggregationFixes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "team_aggregation_fixes_total",
			Help:      "Agregações de time cujo valor atingido mudou além da tolerância.",
		}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Itens processados em lotes por job e status.",
		}, []string{"job", "status"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duração de execuções em lote.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
		}, []string{"job"}),
		repairs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repairs_total",
			Help:      "Correções aplicadas pelos jobs de consistência.",
		}, []string{"kind"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consistency_issues_total",
			Help:      "Problemas de integridade encontrados pela varredura.",
		}, []string{"kind"}),
		rankedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ranked_records_total",
			Help:      "Registros que receberam posição no ranking.",
		}, []string{"entity_type", "period_type"}),
		gatherer: registry,
	}

	registry.MustRegister(
		r.calculations,
		r.calculationDuration,
		r.aggregationFixes,
		r.batchItems,
		r.batchDuration,
		r.repairs,
		r.issues,
		r.rankedRecords,
	)

	return r
}

func (r *Recorder) ObserveCalculation(entityType, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.calculations.WithLabelValues(entityType, outcome).Inc()
	r.calculationDuration.WithLabelValues(entityType).Observe(duration.Seconds())
}

func (r *Recorder) IncAggregationFix() {
	if r == nil {
		return
	}
	r.aggregationFixes.Inc()
}

func (r *Recorder) ObserveBatch(job string, succeeded, failed, skipped int, duration time.Duration) {
	if r == nil {
		return
	}
	r.batchItems.WithLabelValues(job, "succeeded").Add(float64(succeeded))
	r.batchItems.WithLabelValues(job, "failed").Add(float64(failed))
	r.batchItems.WithLabelValues(job, "skipped").Add(float64(skipped))
	r.batchDuration.WithLabelValues(job).Observe(duration.Seconds())
}

func (r *Recorder) AddRepairs(kind string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.repairs.WithLabelValues(kind).Add(float64(n))
}

func (r *Recorder) IncIssue(kind string) {
	if r == nil {
		return
	}
	r.issues.WithLabelValues(kind).Inc()
}

func (r *Recorder) AddRanked(entityType, periodType string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.rankedRecords.WithLabelValues(entityType, periodType).Add(float64(n))
}

// Handler expõe o registry para coleta do Prometheus
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
