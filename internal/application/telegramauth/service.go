package telegramauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vape-shop-api/internal/domain"
	"github.com/vape-shop-api/internal/infrastructure/telegram"
	"github.com/vape-shop-api/internal/pkg/id"
)

// DynamoDB / SQL attribute names used in partial update maps.
const (
	fieldUsername    = "username"
	fieldFirstName   = "first_name"
	fieldLastName    = "last_name"
	fieldPhotoURL    = "photo_url"
	fieldRole        = "role"
	fieldLastLoginAt = "last_login_at"
)

type Service interface {
	// Login verifies a Login Widget payload and returns the matching user,
	// registering one on first login.
	Login(ctx context.Context, fields map[string]string) (*domain.User, error)
}

type loginVerifier interface {
	Verify(fields map[string]string) (*telegram.LoginData, error)
}

type userStore interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type service struct {
	verifier loginVerifier
	repo     userStore
	admins   map[int64]struct{}
	now      func() time.Time
}

type ServiceDeps struct {
	Verifier loginVerifier
	UserRepo userStore
	// AdminIDs are Telegram ids granted the admin role on login.
	AdminIDs []int64
	Now      func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		verifier: deps.Verifier,
		repo:     deps.UserRepo,
		admins:   make(map[int64]struct{}, len(deps.AdminIDs)),
		now:      deps.Now,
	}
	for _, a := range deps.AdminIDs {
		s.admins[a] = struct{}{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Login(ctx context.Context, fields map[string]string) (*domain.User, error) {
	data, err := s.verifier.Verify(fields)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	u, err := s.repo.GetByTelegramID(ctx, data.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return s.register(ctx, data, now)
	case err != nil:
		return nil, fmt.Errorf("lookup telegram user: %w", err)
	}

	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	updates := map[string]interface{}{
		fieldUsername:    data.Username,
		fieldFirstName:   data.FirstName,
		fieldLastName:    data.LastName,
		fieldPhotoURL:    data.PhotoURL,
		fieldLastLoginAt: now,
	}
	if s.isAdmin(data.ID) && u.Role != domain.RoleAdmin {
		updates[fieldRole] = domain.RoleAdmin
		u.Role = domain.RoleAdmin
	}
	if err := s.repo.Update(ctx, u.UserID, updates); err != nil {
		return nil, fmt.Errorf("update telegram user: %w", err)
	}
	u.Username, u.FirstName, u.LastName, u.PhotoURL = data.Username, data.FirstName, data.LastName, data.PhotoURL
	u.LastLoginAt = &now
	return u, nil
}

func (s *service) register(ctx context.Context, data *telegram.LoginData, now time.Time) (*domain.User, error) {
	role := domain.RoleUser
	if s.isAdmin(data.ID) {
		role = domain.RoleAdmin
	}
	u := &domain.User{
		UserID:      id.New(),
		Username:    data.Username,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		PhotoURL:    data.PhotoURL,
		TelegramID:  data.ID,
		Role:        role,
		Enable:      true,
		LastLoginAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, fmt.Errorf("create telegram user: %w", err)
	}
	slog.Info("registered user via telegram", "user_id", u.UserID, "role", role)
	return u, nil
}

func (s *service) isAdmin(telegramID int64) bool {
	_, ok := s.admins[telegramID]
	return ok
}
