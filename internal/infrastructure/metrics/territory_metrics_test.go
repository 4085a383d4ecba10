package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farma/internal/application/dto"
	"github.com/jhoicas/crm-farma/internal/application/territory"
)

func TestTerritoryMetrics_ObserveBulk(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTerritoryMetrics(reg)

	m.ObserveBulk("postal_codes", territory.OutcomeOK, &dto.BulkAssignmentResult{
		Created: 4, AlreadyAssigned: 2, Failed: 1, ClientsReassigned: 3,
	}, 120*time.Millisecond)
	m.ObserveBulk("postal_codes", territory.OutcomeOK, &dto.BulkAssignmentResult{AlreadyAssigned: 4}, 10*time.Millisecond)
	m.ObserveBulk("province", territory.OutcomeRejected, nil, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bulkTotal.WithLabelValues("postal_codes", territory.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bulkTotal.WithLabelValues("province", territory.OutcomeRejected)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.pairsTotal.WithLabelValues("postal_codes", "created")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.pairsTotal.WithLabelValues("postal_codes", "already_assigned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pairsTotal.WithLabelValues("postal_codes", "failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.clientsReassigned.WithLabelValues("postal_codes")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["territory_bulk_assignment_duration_seconds"])
	assert.True(t, names["territory_assignment_pairs_total"])
	assert.Equal(t, 1, testutil.CollectAndCount(m.clientsReassigned), "una llamada rechazada no crea series de clientes")
}
