package phoneauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vape-shop-api/internal/domain"
	"github.com/vape-shop-api/internal/pkg/id"
	"github.com/vape-shop-api/internal/pkg/otp"
	"github.com/vape-shop-api/internal/pkg/phone"
)

// DefaultCodeTTL is how long an issued code stays redeemable.
const DefaultCodeTTL = 10 * time.Minute

type RequestResult struct {
	// ExpiresIn is the validity window in minutes.
	ExpiresIn int
}

type Service interface {
	RequestCode(ctx context.Context, rawPhone string) (*RequestResult, error)
	VerifyCode(ctx context.Context, rawPhone, code string) (*domain.User, error)
}

type service struct {
	codes             CodeStore
	users             UserDirectory
	notifier          Notifier
	ttl               time.Duration
	singleOutstanding bool
	now               func() time.Time
	generate          func() string
}

type ServiceDeps struct {
	Codes    CodeStore
	Users    UserDirectory
	Notifier Notifier
	// TTL defaults to DefaultCodeTTL.
	TTL time.Duration
	// SingleOutstanding drops every earlier code for the phone before a new
	// one is issued.
	SingleOutstanding bool
	Now               func() time.Time
	Generate          func() string
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		codes:             deps.Codes,
		users:             deps.Users,
		notifier:          deps.Notifier,
		ttl:               deps.TTL,
		singleOutstanding: deps.SingleOutstanding,
		now:               deps.Now,
		generate:          deps.Generate,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultCodeTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.generate == nil {
		s.generate = otp.Generate
	}
	return s
}

func (s *service) RequestCode(ctx context.Context, rawPhone string) (*RequestResult, error) {
	p := phone.Normalize(rawPhone)
	log := slog.With("op", "phoneauth.RequestCode", "phone", phone.Mask(p))

	u, err := s.users.GetByPhone(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		log.Error("user lookup failed", "err", err)
		return nil, fmt.Errorf("lookup user: %w: %w", domain.ErrStorage, err)
	}

	channel := s.notifier.ChannelID(u)
	if channel == "" {
		return nil, domain.ErrNoMessagingChannel
	}

	now := s.now().UTC()
	s.cleanup(ctx, log, p, now)

	c := &domain.PhoneCode{
		CodeID:    id.New(),
		Phone:     p,
		Code:      s.generate(),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.codes.Create(ctx, c); err != nil {
		log.Error("persist code failed", "err", err)
		return nil, fmt.Errorf("persist code: %w: %w", domain.ErrStorage, err)
	}

	minutes := int(s.ttl / time.Minute)
	if err := s.notifier.Send(ctx, channel, composeMessage(c.Code, minutes)); err != nil {
		log.Error("code delivery failed", "notifier", s.notifier.Name(), "user_id", u.UserID, "err", err)
		// The request context may already be done; the rollback must still run.
		if delErr := s.codes.Delete(context.WithoutCancel(ctx), c); delErr != nil {
			log.Error("rollback of undelivered code failed", "code_id", c.CodeID, "err", delErr)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}

	log.Info("login code sent", "notifier", s.notifier.Name(), "user_id", u.UserID, "code_id", c.CodeID)
	return &RequestResult{ExpiresIn: minutes}, nil
}

// cleanup is best effort; a failure never blocks issuing a new code.
func (s *service) cleanup(ctx context.Context, log *slog.Logger, p string, now time.Time) {
	var (
		n   int64
		err error
	)
	if s.singleOutstanding {
		n, err = s.codes.DeleteByPhone(ctx, p)
	} else {
		n, err = s.codes.DeleteExpiredOrUsed(ctx, p, now)
	}
	if err != nil {
		log.Warn("stale code cleanup failed", "err", err)
		return
	}
	if n > 0 {
		log.Debug("stale codes removed", "count", n)
	}
}

func (s *service) VerifyCode(ctx context.Context, rawPhone, code string) (*domain.User, error) {
	p := phone.Normalize(rawPhone)
	log := slog.With("op", "phoneauth.VerifyCode", "phone", phone.Mask(p))
	now := s.now().UTC()

	c, err := s.codes.FindValid(ctx, p, code, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidOrExpiredCode
		}
		log.Error("code lookup failed", "err", err)
		return nil, fmt.Errorf("find code: %w: %w", domain.ErrStorage, err)
	}

	if err := s.codes.MarkUsed(ctx, c, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Another request redeemed the code first, or it just expired.
			return nil, domain.ErrInvalidOrExpiredCode
		}
		log.Error("mark code used failed", "code_id", c.CodeID, "err", err)
		return nil, fmt.Errorf("mark code used: %w: %w", domain.ErrStorage, err)
	}

	u, err := s.users.GetByPhone(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("code redeemed for a phone without user", "code_id", c.CodeID)
			return nil, domain.ErrUserNotFound
		}
		log.Error("user lookup failed", "err", err)
		return nil, fmt.Errorf("lookup user: %w: %w", domain.ErrStorage, err)
	}

	if err := s.users.TouchLastLogin(ctx, u.UserID, now); err != nil {
		log.Warn("update last login failed", "user_id", u.UserID, "err", err)
	} else {
		u.LastLoginAt = &now
	}
	log.Info("login code accepted", "user_id", u.UserID)
	return u, nil
}

func composeMessage(code string, minutes int) string {
	return fmt.Sprintf("Ваш код для входа в Vape Shop: %s\nКод действителен %d минут. Никому его не сообщайте.", code, minutes)
}
