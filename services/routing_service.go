package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/techagentng/ain/db"
	"github.com/techagentng/ain/models"
)

// AuthorityNameFor returns the authority that handles category.
func AuthorityNameFor(category models.ReportCategory) string {
	switch category {
	case models.CategorySecurity:
		return "Police"
	case models.CategoryPublicSafety:
		return "Ambulance"
	case models.CategoryTraffic:
		return "Traffic Department"
	case models.CategoryEnvironment:
		return "Municipality"
	default:
		return "General Authority"
	}
}

type RoutingService interface {
	Route(ctx context.Context, category models.ReportCategory) (*uuid.UUID, error)
}

type routingService struct {
	authorityRepo db.AuthorityRepository
}

func NewRoutingService(authorityRepo db.AuthorityRepository) RoutingService {
	return &routingService{authorityRepo: authorityRepo}
}

// Route returns nil without an error when the authority row is missing.
func (r *routingService) Route(ctx context.Context, category models.ReportCategory) (*uuid.UUID, error) {
	authority, err := r.authorityRepo.FindAuthorityByName(ctx, AuthorityNameFor(category))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &authority.ID, nil
}
