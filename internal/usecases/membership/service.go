// Package membership grava participações em times e dispara a reagregação do time
package membership

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
	"github.com/vfg2006/sales-performance-engine/internal/events"
)

var (
	ErrInvalidMembership = errors.New("invalid team membership")
	ErrTeamNotFound      = errors.New("team not found")
	ErrUserNotFound      = errors.New("user not found")
)

type Service struct {
	directory repository.DirectoryRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewService(directory repository.DirectoryRepository, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{directory: directory, publisher: publisher, now: time.Now}
}

// Save cria ou atualiza a participação e publica MembershipChanged
func (s *Service) Save(ctx context.Context, membership *domain.TeamMembership) error {
	if membership.TeamID <= 0 || membership.UserID <= 0 {
		return ErrInvalidMembership
	}
	if membership.ContributionPct < 0 || membership.ContributionPct > 100 {
		return ErrInvalidMembership
	}

	team, err := s.directory.GetTeam(ctx, membership.TeamID)
	if err != nil {
		return pkgerrors.Wrapf(err, "erro ao buscar time %d", membership.TeamID)
	}
	if team == nil {
		return ErrTeamNotFound
	}

	user, err := s.directory.GetUser(ctx, membership.UserID)
	if err != nil {
		return pkgerrors.Wrapf(err, "erro ao buscar usuário %d", membership.UserID)
	}
	if user == nil {
		return ErrUserNotFound
	}

	now := s.now()
	if membership.JoinedAt.IsZero() {
		membership.JoinedAt = now
	}
	if membership.Active {
		membership.LeftAt = nil
	} else if membership.LeftAt == nil {
		membership.LeftAt = &now
	}
	if membership.RoleName == "" {
		membership.RoleName = user.RoleName
	}

	if err := s.directory.SaveMembership(ctx, membership); err != nil {
		return pkgerrors.Wrap(err, "erro ao gravar participação no time")
	}

	logrus.WithFields(logrus.Fields{
		"team_id":          membership.TeamID,
		"user_id":          membership.UserID,
		"active":           membership.Active,
		"contribution_pct": membership.ContributionPct,
	}).Info("Participação no time atualizada")

	return s.publisher.Publish(ctx, events.MembershipChanged{
		TeamID: membership.TeamID,
		UserID: membership.UserID,
	})
}

// Deactivate encerra a participação do usuário no time
func (s *Service) Deactivate(ctx context.Context, teamID, userID int64) error {
	members, err := s.directory.ListActiveMembers(ctx, teamID)
	if err != nil {
		return pkgerrors.Wrapf(err, "erro ao listar membros do time %d", teamID)
	}

	for _, member := range members {
		if member.UserID == userID {
			member.Active = false
			return s.Save(ctx, member)
		}
	}

	return nil
}
