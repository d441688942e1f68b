package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thefavrs/backend/internal/model"
)

// PageRepository reads CMS page content. Pages are written out of band.
type PageRepository interface {
	FindBySlug(ctx context.Context, slug string) (*model.PageContent, error)
}

// PgPageRepository is the PostgreSQL implementation of PageRepository.
type PgPageRepository struct {
	pool *pgxpool.Pool
}

// NewPgPageRepository creates a PgPageRepository backed by the given pool.
func NewPgPageRepository(pool *pgxpool.Pool) *PgPageRepository {
	return &PgPageRepository{pool: pool}
}

var _ PageRepository = (*PgPageRepository)(nil)

// FindBySlug returns ErrNotFound when no page has the slug.
func (r *PgPageRepository) FindBySlug(ctx context.Context, slug string) (*model.PageContent, error) {
	var p model.PageContent
	err := r.pool.QueryRow(ctx,
		`SELECT slug, title, content, updated_at FROM page_content WHERE slug = $1`, slug,
	).Scan(&p.Slug, &p.Title, &p.Content, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find page %q: %w", slug, err)
	}
	return &p, nil
}
