package domain

import "time"

type PerformanceSummary struct {
	TotalRecords       int     `json:"total_records"`
	TotalTarget        float64 `json:"total_target_amount"`
	TotalAchieved      float64 `json:"total_achieved_amount"`
	OverallAchievement float64 `json:"overall_achievement"`
	AverageAchievement float64 `json:"average_achievement"`
	AverageConversion  float64 `json:"average_conversion"`
}

type LeaderboardEntry struct {
	Position       int        `json:"position"`
	PerformanceID  int64      `json:"performance_id"`
	EntityType     EntityType `json:"entity_type"`
	EntityID       int64      `json:"entity_id"`
	EntityName     string     `json:"entity_name"`
	Score          int        `json:"score"`
	AchievementPct float64    `json:"achievement_percentage"`
	AchievedAmount float64    `json:"achieved_amount"`
	TargetAmount   float64    `json:"target_amount"`
	PeriodStart    time.Time  `json:"period_start"`
	PeriodEnd      time.Time  `json:"period_end"`
}

type TrendPoint struct {
	PeriodStart time.Time `json:"period_start"`
	Average     float64   `json:"avg_value"`
	Min         float64   `json:"min_value"`
	Max         float64   `json:"max_value"`
	Count       int       `json:"count"`
}

// TargetVsActual é uma linha do comparativo meta x realizado. A visão total tem uma única linha sem entidade.
type TargetVsActual struct {
	EntityType     EntityType `json:"entity_type,omitempty"`
	EntityID       int64      `json:"entity_id,omitempty"`
	EntityName     string     `json:"entity_name"`
	TargetAmount   float64    `json:"target_amount"`
	AchievedAmount float64    `json:"achieved_amount"`
	AchievementPct float64    `json:"achievement_percentage"`
	PeriodStart    time.Time  `json:"period_start,omitempty"`
	PeriodEnd      time.Time  `json:"period_end,omitempty"`
	Rank           *int       `json:"rank,omitempty"`
	Score          int        `json:"score"`
}

type TeamBreakdown struct {
	Team          *PerformanceRecord   `json:"team_performance"`
	Members       []*PerformanceRecord `json:"member_performances"`
	Contributions []MemberContribution `json:"member_contributions"`
}

type IndividualContext struct {
	Individual *PerformanceRecord `json:"individual_performance"`
	Team       *PerformanceRecord `json:"team_performance"`
	// Share é a fração do atingido do time que veio deste indivíduo, em percentual
	Share float64 `json:"share"`
}

type GroupStats struct {
	Records            int                  `json:"records"`
	TotalTarget        float64              `json:"total_target"`
	TotalAchieved      float64              `json:"total_achieved"`
	AverageAchievement float64              `json:"avg_achievement"`
	TopPerformers      []*PerformanceRecord `json:"top_performers"`
}

// Comparison confronta os registros individuais com os agregados de time
type Comparison struct {
	Individual       GroupStats `json:"individual_stats"`
	Team             GroupStats `json:"team_stats"`
	AchievementDelta float64    `json:"individual_vs_team_achievement"`
	PerformanceGap   float64    `json:"total_performance_gap"`
}
