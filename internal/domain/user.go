package domain

import "time"

type User struct {
	UserID      string     `json:"id" dynamodbav:"user_id" gorm:"column:user_id;primaryKey;size:26"`
	Username    string     `json:"username" dynamodbav:"username" gorm:"column:username;size:64"`
	FirstName   string     `json:"first_name" dynamodbav:"first_name" gorm:"column:first_name;size:128"`
	LastName    string     `json:"last_name" dynamodbav:"last_name" gorm:"column:last_name;size:128"`
	PhotoURL    string     `json:"photo_url,omitempty" dynamodbav:"photo_url" gorm:"column:photo_url;size:512"`
	Phone       string     `json:"phone,omitempty" dynamodbav:"phone,omitempty" gorm:"column:phone;size:20;index"`
	TelegramID  int64      `json:"telegram_id,omitempty" dynamodbav:"telegram_id,omitempty" gorm:"column:telegram_id;index"`
	Role        string     `json:"role" dynamodbav:"role" gorm:"column:role;size:16;not null;default:user"`
	Enable      bool       `json:"enable" dynamodbav:"enable" gorm:"column:enable;not null"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" dynamodbav:"last_login_at" gorm:"column:last_login_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string { return "users" }

// HasTelegram reports whether the user linked a Telegram account the bot can write to.
func (u *User) HasTelegram() bool {
	return u.TelegramID != 0
}

type UpdateProfileRequest struct {
	Phone     *string `json:"phone" validate:"omitempty,phone"`
	FirstName *string `json:"first_name" validate:"omitempty,max=128"`
	LastName  *string `json:"last_name" validate:"omitempty,max=128"`
}
