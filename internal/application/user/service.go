package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/vape-shop-api/internal/domain"
	"github.com/vape-shop-api/internal/pkg/phone"
)

// Attribute names used in partial update maps.
const (
	fieldPhone     = "phone"
	fieldFirstName = "first_name"
	fieldLastName  = "last_name"
)

type Service interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	// UpdateProfile applies the non-nil fields of req. A phone is stored in
	// normalized form and must not belong to another user.
	UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type service struct {
	repo userStore
}

type ServiceDeps struct {
	UserRepo userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{repo: deps.UserRepo}
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	updates := make(map[string]interface{})
	if req.Phone != nil {
		p := phone.Normalize(*req.Phone)
		owner, err := s.repo.GetByPhone(ctx, p)
		switch {
		case err == nil && owner.UserID != userID:
			return nil, fmt.Errorf("phone already linked to another account: %w", domain.ErrConflict)
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		updates[fieldPhone] = p
	}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, userID)
}
