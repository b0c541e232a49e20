package domain

import "time"

type Session struct {
	SessionID        string    `json:"id" dynamodbav:"session_id" gorm:"column:session_id;primaryKey;size:26"`
	UserID           string    `json:"user_id" dynamodbav:"user_id" gorm:"column:user_id;size:26;index"`
	Enable           bool      `json:"enable" dynamodbav:"enable" gorm:"column:enable;not null"`
	RefreshDigest    string    `json:"-" dynamodbav:"refresh_digest" gorm:"column:refresh_digest;size:64;uniqueIndex"`
	RefreshExpiresAt int64     `json:"-" dynamodbav:"refresh_expires_at" gorm:"column:refresh_expires_at"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at" gorm:"column:created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at" gorm:"column:updated_at"`
	User             *User     `json:"user,omitempty" dynamodbav:"-" gorm:"-"`
}

func (Session) TableName() string { return "sessions" }
