package performance

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-performance-engine/infrastructure/repository"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

// Resolver resolve nome e membros de cada variante de entidade
type Resolver struct {
	directory repository.DirectoryRepository
}

func NewResolver(directory repository.DirectoryRepository) *Resolver {
	return &Resolver{directory: directory}
}

func (r *Resolver) ResolveName(ctx context.Context, entity domain.Entity) (string, error) {
	switch e := entity.(type) {
	case domain.IndividualEntity:
		user, err := r.directory.GetUser(ctx, e.UserID)
		if err != nil {
			return "", errors.Wrapf(err, "erro ao buscar usuário %d", e.UserID)
		}
		if user == nil {
			return "", fmt.Errorf("%w: %d", ErrUserNotFound, e.UserID)
		}
		return user.Name, nil

	case domain.TeamEntity:
		team, err := r.directory.GetTeam(ctx, e.TeamID)
		if err != nil {
			return "", errors.Wrapf(err, "erro ao buscar time %d", e.TeamID)
		}
		if team == nil {
			return "", fmt.Errorf("%w: %d", ErrTeamNotFound, e.TeamID)
		}
		return team.Name, nil

	case domain.RegionEntity:
		return "", ErrRegionNotImplemented
	}

	return "", domain.ErrUnknownEntityType
}

// ResolveMembers lista os membros ativos que compõem a entidade.
// Um indivíduo não tem membros.
func (r *Resolver) ResolveMembers(ctx context.Context, entity domain.Entity) ([]*domain.TeamMembership, error) {
	switch e := entity.(type) {
	case domain.IndividualEntity:
		return nil, nil

	case domain.TeamEntity:
		members, err := r.directory.ListActiveMembers(ctx, e.TeamID)
		if err != nil {
			return nil, errors.Wrapf(err, "erro ao listar membros do time %d", e.TeamID)
		}
		return members, nil

	case domain.RegionEntity:
		return nil, ErrRegionNotImplemented
	}

	return nil, domain.ErrUnknownEntityType
}
