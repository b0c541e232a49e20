package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vape-shop-api/internal/domain"
	"gorm.io/gorm"
)

// phoneCodeRow stores instants as unix milliseconds so comparisons behave
// the same on every dialect.
type phoneCodeRow struct {
	ID        string `gorm:"column:id;primaryKey;size:26"`
	Phone     string `gorm:"column:phone;size:20;not null;index:idx_phone_codes_phone"`
	Code      string `gorm:"column:code;size:12;not null"`
	ExpiresAt int64  `gorm:"column:expires_at;not null;index:idx_phone_codes_sweep,priority:2"`
	Used      bool   `gorm:"column:used;not null;index:idx_phone_codes_sweep,priority:1"`
	CreatedAt int64  `gorm:"column:created_at;not null"`
}

func (phoneCodeRow) TableName() string { return "phone_codes" }

func toPhoneCodeRow(c *domain.PhoneCode) *phoneCodeRow {
	return &phoneCodeRow{
		ID:        c.CodeID,
		Phone:     c.Phone,
		Code:      c.Code,
		ExpiresAt: c.ExpiresAt.UnixMilli(),
		Used:      c.Used,
		CreatedAt: c.CreatedAt.UnixMilli(),
	}
}

func (r *phoneCodeRow) toDomain() *domain.PhoneCode {
	return &domain.PhoneCode{
		CodeID:    r.ID,
		Phone:     r.Phone,
		Code:      r.Code,
		ExpiresAt: time.UnixMilli(r.ExpiresAt).UTC(),
		Used:      r.Used,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
	}
}

// PhoneCodeRepo keeps one-time login codes in the phone_codes table.
type PhoneCodeRepo struct {
	db *gorm.DB
}

func NewPhoneCodeRepo(db *gorm.DB) *PhoneCodeRepo {
	return &PhoneCodeRepo{db: db}
}

func (r *PhoneCodeRepo) Create(ctx context.Context, c *domain.PhoneCode) error {
	return r.db.WithContext(ctx).Create(toPhoneCodeRow(c)).Error
}

func (r *PhoneCodeRepo) FindValid(ctx context.Context, phone, code string, now time.Time) (*domain.PhoneCode, error) {
	var row phoneCodeRow
	err := r.db.WithContext(ctx).
		Where("phone = ? AND code = ? AND used = ? AND expires_at > ?", phone, code, false, now.UnixMilli()).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("phone code not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return row.toDomain(), nil
}

// MarkUsed flips used only while the row is still redeemable. The WHERE
// clause is the single-use guarantee: a second caller affects zero rows.
func (r *PhoneCodeRepo) MarkUsed(ctx context.Context, c *domain.PhoneCode, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&phoneCodeRow{}).
		Where("id = ? AND code = ? AND used = ? AND expires_at > ?", c.CodeID, c.Code, false, now.UnixMilli()).
		Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("phone code already used or expired: %w", domain.ErrNotFound)
	}
	c.Used = true
	return nil
}

func (r *PhoneCodeRepo) Delete(ctx context.Context, c *domain.PhoneCode) error {
	return r.db.WithContext(ctx).Where("id = ?", c.CodeID).Delete(&phoneCodeRow{}).Error
}

func (r *PhoneCodeRepo) DeleteExpiredOrUsed(ctx context.Context, phone string, now time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Where("(used = ? OR expires_at <= ?)", true, now.UnixMilli())
	if phone != "" {
		q = q.Where("phone = ?", phone)
	}
	res := q.Delete(&phoneCodeRow{})
	return res.RowsAffected, res.Error
}

func (r *PhoneCodeRepo) DeleteByPhone(ctx context.Context, phone string) (int64, error) {
	res := r.db.WithContext(ctx).Where("phone = ?", phone).Delete(&phoneCodeRow{})
	return res.RowsAffected, res.Error
}
