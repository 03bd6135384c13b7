package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/techagentng/ain/db"
)

type TrustPointsService interface {
	AddPoints(ctx context.Context, userID uuid.UUID, delta int) (int, error)
}

type trustPointsService struct {
	userRepo db.UserRepository
}

func NewTrustPointsService(userRepo db.UserRepository) TrustPointsService {
	return &trustPointsService{userRepo: userRepo}
}

// AddPoints returns 0 when the user does not exist.
func (t *trustPointsService) AddPoints(ctx context.Context, userID uuid.UUID, delta int) (int, error) {
	user, err := t.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	total := user.ApplyPoints(delta)
	if err := t.userRepo.UpdateUser(ctx, user); err != nil {
		return 0, err
	}
	return total, nil
}
