package domain

import "time"

type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	RoleName string `json:"role_name"`
	Active   bool   `json:"active"`
}

type Team struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	RegionID *int64 `json:"region_id"`
}

// TeamMembership liga um usuário a um time com o percentual de contribuição creditado ao time
type TeamMembership struct {
	TeamID          int64      `json:"team_id"`
	UserID          int64      `json:"user_id"`
	UserName        string     `json:"user_name"`
	RoleName        string     `json:"role_name"`
	ContributionPct float64    `json:"contribution_pct"`
	Active          bool       `json:"active"`
	JoinedAt        time.Time  `json:"joined_at"`
	LeftAt          *time.Time `json:"left_at"`
}

// Weight retorna o percentual de contribuição como fração, limitado a [0, 1]
func (m *TeamMembership) Weight() float64 {
	switch {
	case m.ContributionPct <= 0:
		return 0
	case m.ContributionPct >= 100:
		return 1
	}
	return m.ContributionPct / 100
}
