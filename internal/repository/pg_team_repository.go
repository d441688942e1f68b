package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thefavrs/backend/internal/model"
)

// TeamRepository lists the team section.
type TeamRepository interface {
	ListActive(ctx context.Context) ([]*model.TeamMember, error)
}

// PgTeamRepository is the PostgreSQL implementation of TeamRepository.
type PgTeamRepository struct {
	pool *pgxpool.Pool
}

// NewPgTeamRepository creates a PgTeamRepository backed by the given pool.
func NewPgTeamRepository(pool *pgxpool.Pool) *PgTeamRepository {
	return &PgTeamRepository{pool: pool}
}

var _ TeamRepository = (*PgTeamRepository)(nil)

// ListActive returns active members ordered by display_order ascending.
// image_url may be NULL.
func (r *PgTeamRepository) ListActive(ctx context.Context) ([]*model.TeamMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, role, COALESCE(bio, ''), image_url, display_order, is_active
		 FROM team_members
		 WHERE is_active = true
		 ORDER BY display_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var out []*model.TeamMember
	for rows.Next() {
		var m model.TeamMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Bio, &m.ImageURL, &m.DisplayOrder, &m.IsActive); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
