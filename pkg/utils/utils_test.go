package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "zero", in: 0, want: 0},
		{name: "arredonda para cima", in: 33.336, want: 33.34},
		{name: "arredonda para baixo", in: 66.664, want: 66.66},
		{name: "inteiro", in: 50, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundWithTwoDecimalPlace(tt.in))
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 50.0, Percentage(5000, 10000))
	assert.Equal(t, 100.0, Percentage(15000, 10000))
	assert.Equal(t, 0.0, Percentage(100, 0))
	assert.Equal(t, 0.0, Percentage(100, -5))
}

func TestAlmostEqual(t *testing.T) {
	assert.True(t, AlmostEqual(10000, 10000.009))
	assert.False(t, AlmostEqual(10000, 10000.02))
}

func TestTruncateDay(t *testing.T) {
	in := time.Date(2024, 3, 15, 18, 45, 10, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), TruncateDay(in))
	assert.Equal(t, TruncateDay(in), TruncateDay(EndOfDay(in)))
	assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC), EndOfDay(in))
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID()
	assert.NoError(t, err)
	assert.Len(t, id, 10)
}
