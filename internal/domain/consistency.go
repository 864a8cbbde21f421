package domain

import "time"

type IssueKind string

const (
	IssueNegativeAchieved    IssueKind = "negative_achieved"
	IssueInvalidDateRange    IssueKind = "invalid_date_range"
	IssueOverAchievement     IssueKind = "over_achievement"
	IssueDuplicateGroup      IssueKind = "duplicate_group"
	IssueUncalculated        IssueKind = "uncalculated"
	IssueTeamWithoutMembers  IssueKind = "team_without_members"
	IssueMemberMissingRole   IssueKind = "member_missing_role"
	IssueOrphanParent        IssueKind = "orphan_parent"
	IssueOrphanTarget        IssueKind = "orphan_target"
	IssueInvalidConversion   IssueKind = "invalid_conversion"
	IssueOrphanConversionRef IssueKind = "orphan_conversion_target"
)

// Issue é um problema de integridade encontrado pela varredura de consistência
type Issue struct {
	Kind          IssueKind `json:"kind"`
	PerformanceID int64     `json:"performance_id,omitempty"`
	TargetID      int64     `json:"target_id,omitempty"`
	ConversionID  int64     `json:"conversion_id,omitempty"`
	RelatedIDs    []int64   `json:"related_ids,omitempty"`
	Details       string    `json:"details"`
	Fixable       bool      `json:"fixable"`
}

// FixPolicy declara quais correções a varredura pode aplicar automaticamente
type FixPolicy struct {
	ClampNegativeAchieved     bool `json:"clamp_negative_achieved"`
	Deduplicate               bool `json:"deduplicate"`
	RepairOrphans             bool `json:"repair_orphans"`
	RepairTeams               bool `json:"repair_teams"`
	FillRoleNames             bool `json:"fill_role_names"`
	ExcludeInvalidConversions bool `json:"exclude_invalid_conversions"`
	RecalculateStale          bool `json:"recalculate_stale"`
}

func FixAll() FixPolicy {
	return FixPolicy{
		ClampNegativeAchieved:     true,
		Deduplicate:               true,
		RepairOrphans:             true,
		RepairTeams:               true,
		FillRoleNames:             true,
		ExcludeInvalidConversions: true,
		RecalculateStale:          true,
	}
}

// Allows indica se a política permite corrigir o tipo de problema
func (p FixPolicy) Allows(kind IssueKind) bool {
	switch kind {
	case IssueNegativeAchieved:
		return p.ClampNegativeAchieved
	case IssueDuplicateGroup:
		return p.Deduplicate
	case IssueOrphanParent, IssueOrphanTarget, IssueOrphanConversionRef:
		return p.RepairOrphans
	case IssueTeamWithoutMembers:
		return p.RepairTeams
	case IssueMemberMissingRole:
		return p.FillRoleNames
	case IssueInvalidConversion:
		return p.ExcludeInvalidConversions
	case IssueUncalculated:
		return p.RecalculateStale
	}
	return false
}

type RepairResult struct {
	Examined int `json:"examined"`
	Fixed    int `json:"fixed"`
}

type SweepReport struct {
	RunID  string            `json:"run_id"`
	Issues []Issue           `json:"issues"`
	Fixed  map[IssueKind]int `json:"fixed"`
	Policy FixPolicy         `json:"policy"`
	// RefreshedTargets conta as metas recalculadas após desconsiderar conversões
	RefreshedTargets int       `json:"refreshed_targets"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

func (r *SweepReport) TotalFixed() int {
	var total int
	for _, n := range r.Fixed {
		total += n
	}
	return total
}

type BatchItemStatus string

const (
	BatchItemSucceeded BatchItemStatus = "succeeded"
	BatchItemFailed    BatchItemStatus = "failed"
	BatchItemSkipped   BatchItemStatus = "skipped"
)

type BatchItemResult struct {
	TargetID int64           `json:"target_id"`
	Status   BatchItemStatus `json:"status"`
	Error    string          `json:"error,omitempty"`
}

// BatchReport resume uma ressincronização completa
type BatchReport struct {
	RunID      string            `json:"run_id"`
	Total      int               `json:"total"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	Skipped    int               `json:"skipped"`
	Items      []BatchItemResult `json:"items"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

func (r *BatchReport) Add(item BatchItemResult) {
	r.Items = append(r.Items, item)
	r.Total++
	switch item.Status {
	case BatchItemSucceeded:
		r.Succeeded++
	case BatchItemFailed:
		r.Failed++
	case BatchItemSkipped:
		r.Skipped++
	}
}
