package domain

import "time"

type ConversionType string

const (
	ConversionNewLogo   ConversionType = "new_logo"
	ConversionRenewal   ConversionType = "renewal"
	ConversionUpsell    ConversionType = "upsell"
	ConversionCrossSell ConversionType = "cross_sell"
)

type LeadStatus string

const (
	LeadOpen LeadStatus = "open"
	LeadWon  LeadStatus = "won"
	LeadLost LeadStatus = "lost"
)

// Lead é a visão mínima do lead fornecida pela origem de leads
type Lead struct {
	ID        int64      `json:"id"`
	UserID    *int64     `json:"user_id"`
	Value     float64    `json:"value"`
	Status    LeadStatus `json:"status"`
	CloseDate *time.Time `json:"close_date"`
	CreatedAt time.Time  `json:"created_at"`
}

// Convertible indica se o lead gera um registro de conversão
func (l *Lead) Convertible() bool {
	return l != nil && l.Status == LeadWon && l.UserID != nil && *l.UserID > 0 && l.Value > 0
}

type LeadCounts struct {
	Total int `json:"leads_count"`
	Won   int `json:"won_leads_count"`
	Lost  int `json:"lost_leads_count"`
}

// ConversionRecord é imutável após criado, exceto pela flag Counted
type ConversionRecord struct {
	ID        int64          `json:"id"`
	LeadID    int64          `json:"lead_id"`
	UserID    int64          `json:"user_id"`
	TargetID  *int64         `json:"target_id"`
	Amount    float64        `json:"amount"`
	Date      time.Time      `json:"date"`
	Type      ConversionType `json:"type"`
	Counted   bool           `json:"counted"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
