package service

import (
	"context"

	"github.com/thefavrs/backend/internal/model"
	"github.com/thefavrs/backend/internal/repository"
)

// ContentService serves the read-only site content.
type ContentService interface {
	// GetPage returns repository.ErrNotFound for an unknown slug.
	GetPage(ctx context.Context, slug string) (*model.PageContent, error)
	ListServices(ctx context.Context) ([]*model.ServiceOffering, error)
	ListTeam(ctx context.Context) ([]*model.TeamMember, error)
}

type contentServiceImpl struct {
	pages    repository.PageRepository
	services repository.ServiceOfferingRepository
	team     repository.TeamRepository
}

// NewContentService creates a ContentService.
func NewContentService(pages repository.PageRepository, services repository.ServiceOfferingRepository, team repository.TeamRepository) ContentService {
	return &contentServiceImpl{pages: pages, services: services, team: team}
}

func (s *contentServiceImpl) GetPage(ctx context.Context, slug string) (*model.PageContent, error) {
	return s.pages.FindBySlug(ctx, slug)
}

// ListServices never returns a nil slice on success.
func (s *contentServiceImpl) ListServices(ctx context.Context) ([]*model.ServiceOffering, error) {
	list, err := s.services.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.ServiceOffering{}
	}
	return list, nil
}

// ListTeam never returns a nil slice on success.
func (s *contentServiceImpl) ListTeam(ctx context.Context) ([]*model.TeamMember, error) {
	list, err := s.team.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.TeamMember{}
	}
	return list, nil
}
