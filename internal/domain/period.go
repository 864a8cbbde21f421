package domain

import (
	"fmt"
	"time"
)

type PeriodType string

const (
	PeriodDaily      PeriodType = "daily"
	PeriodWeekly     PeriodType = "weekly"
	PeriodMonthly    PeriodType = "monthly"
	PeriodQuarterly  PeriodType = "quarterly"
	PeriodHalfYearly PeriodType = "half_yearly"
	PeriodAnnual     PeriodType = "annual"
	PeriodCustom     PeriodType = "custom"
)

func (p PeriodType) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodHalfYearly, PeriodAnnual, PeriodCustom:
		return true
	}
	return false
}

// DateRange é um intervalo fechado de datas
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Period identifica a janela de um registro de performance
type Period struct {
	Start time.Time  `json:"period_start"`
	End   time.Time  `json:"period_end"`
	Type  PeriodType `json:"period_type"`
}

func (p Period) Range() DateRange {
	return DateRange{Start: p.Start, End: p.End}
}

func (p Period) String() string {
	return fmt.Sprintf("%s:%s..%s", p.Type, p.Start.Format(time.DateOnly), p.End.Format(time.DateOnly))
}
