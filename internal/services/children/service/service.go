// Package service provides the children service implementation
package service

import (
	"context"

	"github.com/em3s/mungchi-sub001/internal/modkit/repokit"
	dom "github.com/em3s/mungchi-sub001/internal/services/children/domain"
	"github.com/em3s/mungchi-sub001/internal/services/children/repo"
)

// Service implements domain.QueryPort against the Postgres repo
type Service struct {
	repo repo.Repo
}

// New constructs the children service
func New(db repokit.TxRunner) *Service {
	return &Service{repo: repokit.MustBind(repo.NewPG(), db)}
}

// Get implements domain.QueryPort
func (s *Service) Get(ctx context.Context, childID string) (dom.Child, error) {
	return s.repo.Get(ctx, childID)
}

// List implements domain.QueryPort
func (s *Service) List(ctx context.Context) ([]dom.Child, error) {
	return s.repo.List(ctx)
}

// SiblingOf implements domain.QueryPort
func (s *Service) SiblingOf(ctx context.Context, childID string) (string, error) {
	return s.repo.SiblingOf(ctx, childID)
}
