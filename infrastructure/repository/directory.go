package repository

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-performance-engine/infrastructure/database/postgres"
	"github.com/vfg2006/sales-performance-engine/internal/domain"
)

const (
	usersTable       = "users u"
	teamsTable       = "teams t"
	teamMembersTable = "team_members tm"
)

// DirectoryRepository dá acesso a usuários, times e participações
type DirectoryRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetTeam(ctx context.Context, id int64) (*domain.Team, error)
	ListActiveMembers(ctx context.Context, teamID int64) ([]*domain.TeamMembership, error)
	ListActiveMemberships(ctx context.Context, userID int64) ([]*domain.TeamMembership, error)
	SaveMembership(ctx context.Context, membership *domain.TeamMembership) error
}

type directoryRepository struct {
	conn *postgres.Connection
}

func NewDirectoryRepository(conn *postgres.Connection) DirectoryRepository {
	return &directoryRepository{
		conn: conn,
	}
}

func (r *directoryRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	query, args, err := squirrel.
		Select("u.id, u.name, u.email, COALESCE(u.role_name, ''), u.active").
		From(usersTable).
		Where(squirrel.Eq{"u.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	user := &domain.User{}
	err = r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Name, &user.Email, &user.RoleName, &user.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao buscar usuário %d", id)
	}

	return user, nil
}

func (r *directoryRepository) GetTeam(ctx context.Context, id int64) (*domain.Team, error) {
	query, args, err := squirrel.
		Select("t.id, t.name, t.region_id").
		From(teamsTable).
		Where(squirrel.Eq{"t.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	team := &domain.Team{}
	err = r.conn.Queryer(ctx).QueryRowContext(ctx, query, args...).Scan(&team.ID, &team.Name, &team.RegionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "erro ao buscar time %d", id)
	}

	return team, nil
}

func (r *directoryRepository) membersSelect() squirrel.SelectBuilder {
	return squirrel.
		Select(
			"tm.team_id",
			"tm.user_id",
			"u.name",
			"COALESCE(tm.role_name, '')",
			"tm.contribution_percentage",
			"tm.active",
			"tm.joined_at",
			"tm.left_at",
		).
		From(teamMembersTable).
		Join("users u ON u.id = tm.user_id").
		Where(squirrel.Eq{"tm.active": true}).
		OrderBy("tm.joined_at ASC", "tm.user_id ASC").
		PlaceholderFormat(squirrel.Dollar)
}

// ListActiveMembers retorna os membros ativos na ordem de entrada no time
func (r *directoryRepository) ListActiveMembers(ctx context.Context, teamID int64) ([]*domain.TeamMembership, error) {
	return r.listMemberships(ctx, r.membersSelect().Where(squirrel.Eq{"tm.team_id": teamID}))
}

func (r *directoryRepository) ListActiveMemberships(ctx context.Context, userID int64) ([]*domain.TeamMembership, error) {
	return r.listMemberships(ctx, r.membersSelect().Where(squirrel.Eq{"tm.user_id": userID}))
}

func (r *directoryRepository) listMemberships(ctx context.Context, builder squirrel.SelectBuilder) ([]*domain.TeamMembership, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query")
	}

	rows, err := r.conn.Queryer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar membros")
	}
	defer rows.Close()

	memberships := make([]*domain.TeamMembership, 0)
	for rows.Next() {
		m := &domain.TeamMembership{}
		if err := rows.Scan(
			&m.TeamID,
			&m.UserID,
			&m.UserName,
			&m.RoleName,
			&m.ContributionPct,
			&m.Active,
			&m.JoinedAt,
			&m.LeftAt,
		); err != nil {
			return nil, errors.Wrap(err, "erro ao escanear membro")
		}
		memberships = append(memberships, m)
	}

	return memberships, errors.Wrap(rows.Err(), "erro durante a iteração de linhas")
}

func (r *directoryRepository) SaveMembership(ctx context.Context, m *domain.TeamMembership) error {
	query, args, err := squirrel.
		Insert("team_members").
		Columns("team_id", "user_id", "role_name", "contribution_percentage", "active", "joined_at", "left_at").
		Values(m.TeamID, m.UserID, m.RoleName, m.ContributionPct, m.Active, m.JoinedAt, m.LeftAt).
		Suffix(`ON CONFLICT (team_id, user_id) DO UPDATE SET
			role_name = EXCLUDED.role_name,
			contribution_percentage = EXCLUDED.contribution_percentage,
			active = EXCLUDED.active,
			left_at = EXCLUDED.left_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "erro ao construir query de inserção")
	}

	if _, err := r.conn.Queryer(ctx).ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "erro ao salvar membro %d do time %d", m.UserID, m.TeamID)
	}

	return nil
}
