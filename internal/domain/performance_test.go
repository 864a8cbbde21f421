package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAchievementPercentage(t *testing.T) {
	tests := []struct {
		name     string
		achieved float64
		target   float64
		want     float64
	}{
		{name: "metade da meta", achieved: 5000, target: 10000, want: 50},
		{name: "acima da meta limita em 100", achieved: 25000, target: 10000, want: 100},
		{name: "meta zero", achieved: 5000, target: 0, want: 0},
		{name: "sem atingimento", achieved: 0, target: 10000, want: 0},
		{name: "arredonda duas casas", achieved: 1, target: 3, want: 33.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AchievementPercentage(tt.achieved, tt.target))
		})
	}
}

func TestConversionRateAndAverageDealSize(t *testing.T) {
	assert.Equal(t, 25.0, ConversionRate(5, 20))
	assert.Equal(t, 0.0, ConversionRate(5, 0))
	assert.Equal(t, 2500.0, AverageDealSize(10000, 4))
	assert.Equal(t, 0.0, AverageDealSize(10000, 0))
}

func TestScore(t *testing.T) {
	tests := []struct {
		name           string
		achievementPct float64
		conversionRate float64
		leads          int
		want           int
	}{
		{name: "tudo zerado", want: 0},
		{name: "somente atingimento", achievementPct: 100, want: 50},
		{name: "conversão limitada a 100", conversionRate: 80, want: 30},
		{name: "atividade limitada a 100", leads: 500, want: 20},
		{name: "combinação", achievementPct: 50, conversionRate: 25, leads: 20, want: 44},
		{name: "pontuação máxima", achievementPct: 100, conversionRate: 50, leads: 100, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.achievementPct, tt.conversionRate, tt.leads))
		})
	}
}

func TestPerformanceRecord_Recalculate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	record := &PerformanceRecord{
		TargetAmount:   10000,
		AchievedAmount: 5000,
		LeadsCount:     10,
		WonLeadsCount:  2,
		LostLeadsCount: 3,
	}

	record.Recalculate(now)

	assert.Equal(t, 50.0, record.AchievementPct)
	assert.Equal(t, 20.0, record.ConversionRate)
	assert.Equal(t, 2500.0, record.AvgDealSize)
	// 50*0.5 + 40*0.3 + 10*0.2
	assert.Equal(t, 39, record.Score)
	assert.Equal(t, now, *record.CalculatedAt)
	assert.Equal(t, now, *record.LastSyncedAt)
}

func TestNewPerformanceRecord(t *testing.T) {
	period := Period{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Type:  PeriodMonthly,
	}

	team := NewPerformanceRecord(PerformanceKey{EntityType: EntityTeam, EntityID: 3, Period: period})
	individual := NewPerformanceRecord(PerformanceKey{EntityType: EntityIndividual, EntityID: 7, Period: period})

	assert.True(t, team.IsTeamAggregate)
	assert.False(t, individual.IsTeamAggregate)
	assert.Equal(t, period, individual.Period())
	assert.Equal(t, "individual:7:monthly:2024-01-01..2024-01-31", individual.Key().String())
}
