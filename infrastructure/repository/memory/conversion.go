package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/pkg/utils"
)

type conversionRepository struct {
	s *Store
}

func (r *conversionRepository) GetByID(_ context.Context, id int64) (*domain.ConversionRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.conversions[id]
	if !ok {
		return nil, nil
	}
	return cloneConversion(c), nil
}

func (r *conversionRepository) List(_ context.Context, f repository.ConversionFilter) ([]*domain.ConversionRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.ConversionRecord, 0)
	for _, c := range r.s.conversions {
		if matchesConversion(c, f) {
			out = append(out, cloneConversion(c))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matchesConversion(c *domain.ConversionRecord, f repository.ConversionFilter) bool {
	switch {
	case f.LeadID != 0 && c.LeadID != f.LeadID:
		return false
	case f.UserID != 0 && c.UserID != f.UserID:
		return false
	case f.TargetID != nil && (c.TargetID == nil || *c.TargetID != *f.TargetID):
		return false
	case f.Counted != nil && c.Counted != *f.Counted:
		return false
	case f.Range != nil && !f.Range.Contains(c.Date):
		return false
	}
	return true
}

func (r *conversionRepository) Upsert(_ context.Context, c *domain.ConversionRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for _, existing := range r.s.conversions {
		if existing.LeadID == c.LeadID && existing.UserID == c.UserID {
			existing.TargetID = cloneInt64(c.TargetID)
			existing.Amount = c.Amount
			existing.Date = c.Date
			existing.Counted = c.Counted
			existing.UpdatedAt = now

			c.ID = existing.ID
			c.Type = existing.Type
			c.CreatedAt = existing.CreatedAt
			c.UpdatedAt = now
			return nil
		}
	}

	c.ID = r.s.nextID("conversions")
	c.CreatedAt = now
	c.UpdatedAt = now
	r.s.conversions[c.ID] = cloneConversion(c)
	return nil
}

func (r *conversionRepository) SetCounted(_ context.Context, id int64, counted bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.conversions[id]
	if !ok {
		return fmt.Errorf("conversão %d não encontrada", id)
	}
	c.Counted = counted
	c.UpdatedAt = time.Now()
	return nil
}

func (r *conversionRepository) ClearTarget(_ context.Context, targetID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var affected int64
	for _, c := range r.s.conversions {
		if c.TargetID != nil && *c.TargetID == targetID {
			c.TargetID = nil
			affected++
		}
	}
	return affected, nil
}

func (r *conversionRepository) SumForUser(_ context.Context, userID int64, period domain.DateRange) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total float64
	for _, c := range r.s.conversions {
		if c.Counted && c.UserID == userID && period.Contains(c.Date) {
			total += c.Amount
		}
	}
	return utils.RoundWithTwoDecimalPlace(total), nil
}

func (r *conversionRepository) SumForTarget(_ context.Context, targetID int64) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total float64
	for _, c := range r.s.conversions {
		if c.Counted && c.TargetID != nil && *c.TargetID == targetID {
			total += c.Amount
		}
	}
	return utils.RoundWithTwoDecimalPlace(total), nil
}

func (r *conversionRepository) CountByType(_ context.Context, userID int64, period domain.DateRange) (map[domain.ConversionType]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[domain.ConversionType]int)
	for _, c := range r.s.conversions {
		if c.Counted && c.UserID == userID && period.Contains(c.Date) {
			counts[c.Type]++
		}
	}
	return counts, nil
}
