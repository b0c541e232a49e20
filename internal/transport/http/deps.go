package http

import (
	"context"
	"time"

	"github.com/vape-shop-api/internal/application/phoneauth"
	"github.com/vape-shop-api/internal/domain"
	jwtinfra "github.com/vape-shop-api/internal/infrastructure/jwt"
	"github.com/vape-shop-api/internal/infrastructure/telegram"
	"github.com/vape-shop-api/internal/transport/http/handler"
)

// UserRepository is the minimal interface the router requires from a user
// store. Both dynamo.UserRepo and sqlstore.UserRepo satisfy it.
type UserRepository interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// SessionRepository is the minimal interface the router requires from a session store.
type SessionRepository interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	GetByRefreshDigest(ctx context.Context, digest string) (*domain.Session, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)
	RotateRefreshToken(ctx context.Context, sessionID, oldDigest, newDigest string, newExpiry int64) error
	Disable(ctx context.Context, sessionID string) error
}

// HomeBlockRepository is the durable home for homepage block settings.
type HomeBlockRepository interface {
	List(ctx context.Context) ([]domain.HomeBlock, error)
	SaveAll(ctx context.Context, blocks []domain.HomeBlock) error
}

// BlockCache fronts HomeBlockRepository; see infrastructure/cache.
type BlockCache interface {
	GetBlocks(ctx context.Context) ([]domain.HomeBlock, bool, error)
	SetBlocks(ctx context.Context, blocks []domain.HomeBlock, ttl time.Duration) error
	InvalidateBlocks(ctx context.Context) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo      UserRepository
	SessionRepo   SessionRepository
	PhoneCodeRepo phoneauth.CodeStore
	HomeBlockRepo HomeBlockRepository
	BlockCache    BlockCache
	Notifier      phoneauth.Notifier
	LoginVerifier *telegram.LoginVerifier
	JWTProvider   *jwtinfra.Provider
	Sweeper       *phoneauth.Sweeper
	Ready         handler.ReadinessCheck
}
