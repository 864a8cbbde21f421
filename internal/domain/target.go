package domain

import (
	"errors"
	"time"

	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

type TargetStatus string

const (
	TargetActive    TargetStatus = "active"
	TargetCompleted TargetStatus = "completed"
	TargetPaused    TargetStatus = "paused"
	TargetCancelled TargetStatus = "cancelled"
)

// Campos cuja alteração exige recálculo de performance
const (
	FieldAmount       = "amount"
	FieldAssigneeType = "assignee_type"
	FieldAssigneeID   = "assignee_id"
	FieldStartDate    = "start_date"
	FieldEndDate      = "end_date"
	FieldStatus       = "status"
)

var RecalculationFields = []string{
	FieldAmount,
	FieldAssigneeType,
	FieldAssigneeID,
	FieldStartDate,
	FieldEndDate,
	FieldStatus,
}

var (
	ErrTargetAmount     = errors.New("target amount must be positive")
	ErrTargetDateRange  = errors.New("target start date must not be after end date")
	ErrTargetAssignee   = errors.New("target assignee is invalid")
	ErrTargetPeriodType = errors.New("target period type is invalid")
	ErrTargetStatus     = errors.New("target status is invalid")
)

type Target struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Amount           float64      `json:"amount"`
	AssigneeType     EntityType   `json:"assignee_type"`
	AssigneeID       int64        `json:"assignee_id"`
	StartDate        time.Time    `json:"start_date"`
	EndDate          time.Time    `json:"end_date"`
	PeriodType       PeriodType   `json:"period_type"`
	Status           TargetStatus `json:"status"`
	AchievedAmount   float64      `json:"achieved_amount"`
	ProgressPct      float64      `json:"progress_pct"`
	LastCalculatedAt *time.Time   `json:"last_calculated_at"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// TargetAssignment é uma divisão da meta entre responsáveis, com valor atingido próprio
type TargetAssignment struct {
	ID              int64      `json:"id"`
	TargetID        int64      `json:"target_id"`
	AssigneeType    EntityType `json:"assignee_type"`
	AssigneeID      int64      `json:"assignee_id"`
	AllocatedAmount float64    `json:"allocated_amount"`
	AchievedAmount  float64    `json:"achieved_amount"`
	AllocationPct   float64    `json:"allocation_pct"`
	IsPrimary       bool       `json:"is_primary"`
}

func (t *Target) Assignee() (Entity, error) {
	return NewEntity(t.AssigneeType, t.AssigneeID)
}

func (t *Target) Period() Period {
	return Period{Start: t.StartDate, End: t.EndDate, Type: t.PeriodType}
}

// UpdateProgress recalcula progressPct a partir de achievedAmount e registra o horário do cálculo
func (t *Target) UpdateProgress(now time.Time) {
	t.ProgressPct = utils.RoundWithTwoDecimalPlace(utils.Percentage(t.AchievedAmount, t.Amount))
	t.LastCalculatedAt = &now
}

// IsActive indica se a meta está ativa e a data de referência está dentro do período
func (t *Target) IsActive(now time.Time) bool {
	if t.Status != TargetActive {
		return false
	}
	today := utils.TruncateDay(now)
	return !today.Before(utils.TruncateDay(t.StartDate)) && !today.After(utils.TruncateDay(t.EndDate))
}

func (t *Target) Validate() error {
	var errs []error
	if t.Amount <= 0 {
		errs = append(errs, ErrTargetAmount)
	}
	if t.StartDate.After(t.EndDate) {
		errs = append(errs, ErrTargetDateRange)
	}
	if !t.AssigneeType.Valid() || t.AssigneeID <= 0 {
		errs = append(errs, ErrTargetAssignee)
	}
	if !t.PeriodType.Valid() {
		errs = append(errs, ErrTargetPeriodType)
	}
	switch t.Status {
	case TargetActive, TargetCompleted, TargetPaused, TargetCancelled:
	default:
		errs = append(errs, ErrTargetStatus)
	}
	return errors.Join(errs...)
}

// ChangedFields lista os campos relevantes para recálculo que diferem entre t e previous
func (t *Target) ChangedFields(previous *Target) []string {
	if previous == nil {
		return append([]string(nil), RecalculationFields...)
	}

	changed := make([]string, 0, len(RecalculationFields))
	if t.Amount != previous.Amount {
		changed = append(changed, FieldAmount)
	}
	if t.AssigneeType != previous.AssigneeType {
		changed = append(changed, FieldAssigneeType)
	}
	if t.AssigneeID != previous.AssigneeID {
		changed = append(changed, FieldAssigneeID)
	}
	if !t.StartDate.Equal(previous.StartDate) {
		changed = append(changed, FieldStartDate)
	}
	if !t.EndDate.Equal(previous.EndDate) {
		changed = append(changed, FieldEndDate)
	}
	if t.Status != previous.Status {
		changed = append(changed, FieldStatus)
	}
	return changed
}

// AchievedBreakdown expõe as duas fontes do valor atingido de uma meta
type AchievedBreakdown struct {
	LedgerSum     float64 `json:"ledger_sum"`
	AssignmentSum float64 `json:"assignment_sum"`
	Achieved      float64 `json:"achieved"`
}

// ResolveAchieved aplica a política de reconciliação: vale a soma do ledger,
// a menos que as divisões da meta reportem um valor maior.
func ResolveAchieved(ledgerSum, assignmentSum float64) AchievedBreakdown {
	achieved := ledgerSum
	if assignmentSum > achieved {
		achieved = assignmentSum
	}
	return AchievedBreakdown{
		LedgerSum:     ledgerSum,
		AssignmentSum: assignmentSum,
		Achieved:      utils.RoundWithTwoDecimalPlace(achieved),
	}
}
