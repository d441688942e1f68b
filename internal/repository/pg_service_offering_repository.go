package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thefavrs/backend/internal/model"
)

// ServiceOfferingRepository lists the services section.
type ServiceOfferingRepository interface {
	ListActive(ctx context.Context) ([]*model.ServiceOffering, error)
}

// PgServiceOfferingRepository is the PostgreSQL implementation of ServiceOfferingRepository.
type PgServiceOfferingRepository struct {
	pool *pgxpool.Pool
}

// NewPgServiceOfferingRepository creates a PgServiceOfferingRepository backed by the given pool.
func NewPgServiceOfferingRepository(pool *pgxpool.Pool) *PgServiceOfferingRepository {
	return &PgServiceOfferingRepository{pool: pool}
}

var _ ServiceOfferingRepository = (*PgServiceOfferingRepository)(nil)

// ListActive returns active offerings ordered by display_order ascending.
func (r *PgServiceOfferingRepository) ListActive(ctx context.Context) ([]*model.ServiceOffering, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, icon, display_order, is_active
		 FROM service_offerings
		 WHERE is_active = true
		 ORDER BY display_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list service offerings: %w", err)
	}
	defer rows.Close()

	var out []*model.ServiceOffering
	for rows.Next() {
		var s model.ServiceOffering
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Icon, &s.DisplayOrder, &s.IsActive); err != nil {
			return nil, fmt.Errorf("scan service offering: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
