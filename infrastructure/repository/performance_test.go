package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

func TestPerformanceUpdate(t *testing.T) {
	parentID := int64(10)
	rank := 2

	record := domain.NewPerformanceRecord(domain.PerformanceKey{
		EntityType: domain.EntityIndividual,
		EntityID:   7,
		Period: domain.Period{
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			Type:  domain.PeriodMonthly,
		},
	})
	record.ID = 5
	record.ParentPerformanceID = &parentID
	record.Rank = &rank

	values, err := performanceValues(record)
	require.NoError(t, err)

	query, args, err := performanceUpdate(record.ID, values).ToSql()
	require.NoError(t, err)

	tests := []struct {
		name    string
		column  string
		present bool
	}{
		{name: "Atualiza o atingido", column: "achieved_amount = ", present: true},
		{name: "Atualiza as contribuições", column: "member_contributions = ", present: true},
		{name: "Não sobrescreve o vínculo com o time", column: "parent_performance_id = ", present: false},
		{name: "Não sobrescreve o ranking", column: "rank = ", present: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.present {
				assert.Contains(t, query, tt.column)
			} else {
				assert.NotContains(t, query, tt.column)
			}
		})
	}

	assert.Len(t, args, len(performanceColumns)-len(linkColumns)+1)
	assert.Equal(t, record.ID, args[len(args)-1])
}
