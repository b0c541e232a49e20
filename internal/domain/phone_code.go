package domain

import "time"

// PhoneCode is a one-time login code issued to a normalized phone number.
// Several codes may exist for one phone; each is valid until used or expired.
type PhoneCode struct {
	CodeID    string    `json:"id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created"`
}

// ValidAt reports whether the code may still be redeemed at now.
func (c *PhoneCode) ValidAt(now time.Time) bool {
	return !c.Used && c.ExpiresAt.After(now)
}
