package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vape-shop-api/internal/domain"
	"github.com/vape-shop-api/internal/pkg/id"
	pkgtoken "github.com/vape-shop-api/internal/pkg/token"
)

const defaultRefreshTokenDur = 30 * 24 * time.Hour

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Session      *domain.Session
}

type Service interface {
	// Issue opens a new session for an already authenticated user.
	Issue(ctx context.Context, u *domain.User) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error)
	List(ctx context.Context, userID string) ([]domain.Session, error)
}

type sessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshDigest(ctx context.Context, digest string) (*domain.Session, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, oldDigest, newDigest string, newExpiry int64) error
	Disable(ctx context.Context, sessionID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type jwtSigner interface {
	Sign(userID, role, sessionID string) (string, error)
}

type service struct {
	sessionRepo     sessionStore
	userRepo        userStore
	jwtProvider     jwtSigner
	refreshTokenDur time.Duration
	now             func() time.Time
}

type ServiceDeps struct {
	SessionRepo     sessionStore
	UserRepo        userStore
	JWTProvider     jwtSigner
	RefreshTokenDur time.Duration
	Now             func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		sessionRepo:     deps.SessionRepo,
		userRepo:        deps.UserRepo,
		jwtProvider:     deps.JWTProvider,
		refreshTokenDur: deps.RefreshTokenDur,
		now:             deps.Now,
	}
	if s.refreshTokenDur <= 0 {
		s.refreshTokenDur = defaultRefreshTokenDur
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Issue(ctx context.Context, u *domain.User) (*TokenPair, error) {
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrForbidden)
	}
	refreshToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := &domain.Session{
		SessionID:        id.New(),
		UserID:           u.UserID,
		Enable:           true,
		RefreshDigest:    pkgtoken.Digest(refreshToken),
		RefreshExpiresAt: now.Add(s.refreshTokenDur).Unix(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.sessionRepo.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	sess.User = u
	return &TokenPair{AccessToken: bearer, RefreshToken: refreshToken, Session: sess}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	digest := pkgtoken.Digest(refreshToken)
	sess, err := s.sessionRepo.GetByRefreshDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUnauthorized) {
			return nil, fmt.Errorf("invalid or expired refresh token: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	now := s.now().UTC()
	if sess.RefreshExpiresAt < now.Unix() {
		return nil, fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}
	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if !u.Enable {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrUnauthorized)
	}

	newToken, err := pkgtoken.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	newDigest := pkgtoken.Digest(newToken)
	newExpiry := now.Add(s.refreshTokenDur).Unix()
	if err := s.sessionRepo.RotateRefreshToken(ctx, sess.SessionID, digest, newDigest, newExpiry); err != nil {
		return nil, err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role, sess.SessionID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	sess.RefreshDigest = newDigest
	sess.RefreshExpiresAt = newExpiry
	sess.User = u
	return &TokenPair{AccessToken: bearer, RefreshToken: newToken, Session: sess}, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Disable(ctx, sessionID)
}

func (s *service) GetCurrent(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Enable {
		return nil, fmt.Errorf("session expired: %w", domain.ErrUnauthorized)
	}
	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	sess.User = u
	return sess, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Session, error) {
	return s.sessionRepo.ListByUser(ctx, userID)
}
