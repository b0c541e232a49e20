package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vape-shop-api/internal/domain"
	"gorm.io/gorm"
)

// SessionRepo provides typed gorm operations for the sessions table.
type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Put(ctx context.Context, s *domain.Session) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

// GetByRefreshDigest returns ErrUnauthorized when the session was disabled.
func (r *SessionRepo) GetByRefreshDigest(ctx context.Context, digest string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.WithContext(ctx).Where("refresh_digest = ?", digest).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	if !s.Enable {
		return nil, fmt.Errorf("session disabled: %w", domain.ErrUnauthorized)
	}
	return &s, nil
}

func (r *SessionRepo) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	var out []domain.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND enable = ?", userID, true).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// RotateRefreshToken swaps the digest only if oldDigest is still current, so
// a refresh token can be exchanged once.
func (r *SessionRepo) RotateRefreshToken(ctx context.Context, sessionID, oldDigest, newDigest string, newExpiry int64) error {
	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("session_id = ? AND refresh_digest = ? AND enable = ?", sessionID, oldDigest, true).
		Updates(map[string]interface{}{
			"refresh_digest":     newDigest,
			"refresh_expires_at": newExpiry,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("refresh token already rotated: %w", domain.ErrUnauthorized)
	}
	return nil
}

func (r *SessionRepo) Disable(ctx context.Context, sessionID string) error {
	res := r.db.WithContext(ctx).Model(&domain.Session{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{"enable": false, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	return nil
}
