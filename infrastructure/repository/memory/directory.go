package memory

import (
	"context"

	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

type leadRepository struct {
	s *Store
}

func (r *leadRepository) GetByID(_ context.Context, id int64) (*domain.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.leads[id]
	if !ok {
		return nil, nil
	}
	return cloneLead(l), nil
}

func (r *leadRepository) CountsForUser(_ context.Context, userID int64, period domain.DateRange) (domain.LeadCounts, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	created := domain.DateRange{Start: period.Start, End: utils.EndOfDay(period.End)}

	var counts domain.LeadCounts
	for _, l := range r.s.leads {
		if l.UserID == nil || *l.UserID != userID || !created.Contains(l.CreatedAt) {
			continue
		}
		counts.Total++
		switch l.Status {
		case domain.LeadWon:
			counts.Won++
		case domain.LeadLost:
			counts.Lost++
		}
	}
	return counts, nil
}

type directoryRepository struct {
	s *Store
}

func (r *directoryRepository) GetUser(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *directoryRepository) GetTeam(_ context.Context, id int64) (*domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.teams[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

// ListActiveMembers preserva a ordem de cadastro das participações
func (r *directoryRepository) ListActiveMembers(_ context.Context, teamID int64) ([]*domain.TeamMembership, error) {
	return r.filter(func(m *domain.TeamMembership) bool { return m.TeamID == teamID }), nil
}

func (r *directoryRepository) ListActiveMemberships(_ context.Context, userID int64) ([]*domain.TeamMembership, error) {
	return r.filter(func(m *domain.TeamMembership) bool { return m.UserID == userID }), nil
}

func (r *directoryRepository) filter(match func(*domain.TeamMembership) bool) []*domain.TeamMembership {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.TeamMembership, 0)
	for _, m := range r.s.memberships {
		if !m.Active || !match(m) {
			continue
		}
		c := cloneMembership(m)
		if u, ok := r.s.users[m.UserID]; ok {
			c.UserName = u.Name
		}
		out = append(out, c)
	}
	return out
}

func (r *directoryRepository) SaveMembership(_ context.Context, m *domain.TeamMembership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, existing := range r.s.memberships {
		if existing.TeamID == m.TeamID && existing.UserID == m.UserID {
			c := cloneMembership(m)
			c.JoinedAt = existing.JoinedAt
			r.s.memberships[i] = c
			return nil
		}
	}

	r.s.memberships = append(r.s.memberships, cloneMembership(m))
	return nil
}
