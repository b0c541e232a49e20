package phoneauth

import (
	"context"
	"time"

	"github.com/vape-shop-api/internal/domain"
)

// CodeStore persists one-time codes. Implementations must make MarkUsed an
// atomic check-and-set: of several concurrent calls for one code, at most
// one succeeds and the rest get domain.ErrNotFound.
type CodeStore interface {
	Create(ctx context.Context, c *domain.PhoneCode) error
	// FindValid returns an unused, unexpired code for phone, or domain.ErrNotFound.
	FindValid(ctx context.Context, phone, code string, now time.Time) (*domain.PhoneCode, error)
	MarkUsed(ctx context.Context, c *domain.PhoneCode, now time.Time) error
	Delete(ctx context.Context, c *domain.PhoneCode) error
	// DeleteExpiredOrUsed removes used or expired codes for phone, or for
	// every phone when phone is empty.
	DeleteExpiredOrUsed(ctx context.Context, phone string, now time.Time) (int64, error)
	DeleteByPhone(ctx context.Context, phone string) (int64, error)
}

// UserDirectory looks users up by normalized phone.
type UserDirectory interface {
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
}

// Notifier delivers a text message over a messaging channel. A provider
// refusal is reported as domain.ErrNotDelivered. Notifiers never retry.
type Notifier interface {
	Name() string
	// ChannelID returns the address to deliver to, or "" when the user has
	// no usable channel.
	ChannelID(u *domain.User) string
	Send(ctx context.Context, channelID, text string) error
}
