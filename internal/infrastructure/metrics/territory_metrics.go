// Package metrics expone contadores Prometheus de las asignaciones masivas.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/crm-farma/internal/application/dto"
	"github.com/jhoicas/crm-farma/internal/application/territory"
)

var _ territory.Metrics = (*TerritoryMetrics)(nil)

// TerritoryMetrics implementa territory.Metrics sobre un registro Prometheus.
type TerritoryMetrics struct {
	bulkTotal         *prometheus.CounterVec
	pairsTotal        *prometheus.CounterVec
	clientsReassigned *prometheus.CounterVec
	bulkDuration      *prometheus.HistogramVec
}

// NewTerritoryMetrics registra las métricas en reg (nil = registro por defecto).
func NewTerritoryMetrics(reg prometheus.Registerer) *TerritoryMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &TerritoryMetrics{
		bulkTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "territory",
			Name:      "bulk_assignments_total",
			Help:      "Asignaciones masivas por alcance y resultado.",
		}, []string{"scope", "outcome"}),
		pairsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "territory",
			Name:      "assignment_pairs_total",
			Help:      "Pares CP × marca procesados por resultado (created, already_assigned, failed).",
		}, []string{"scope", "result"}),
		clientsReassigned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "territory",
			Name:      "clients_reassigned_total",
			Help:      "Clientes que cambiaron de comercial por la cascada.",
		}, []string{"scope"}),
		bulkDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "territory",
			Name:      "bulk_assignment_duration_seconds",
			Help:      "Duración de la asignación masiva, transacción incluida.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"scope", "outcome"}),
	}
}

// ObserveBulk registra una llamada. res solo viene informado en territory.OutcomeOK.
func (m *TerritoryMetrics) ObserveBulk(scope, outcome string, res *dto.BulkAssignmentResult, elapsed time.Duration) {
	m.bulkTotal.WithLabelValues(scope, outcome).Inc()
	m.bulkDuration.WithLabelValues(scope, outcome).Observe(elapsed.Seconds())
	if res == nil {
		return
	}
	m.pairsTotal.WithLabelValues(scope, "created").Add(float64(res.Created))
	m.pairsTotal.WithLabelValues(scope, "already_assigned").Add(float64(res.AlreadyAssigned))
	m.pairsTotal.WithLabelValues(scope, "failed").Add(float64(res.Failed))
	m.clientsReassigned.WithLabelValues(scope).Add(float64(res.ClientsReassigned))
}
