package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrStorage marks a failure of the underlying persistence layer.
	ErrStorage = errors.New("storage error")
	// ErrNotDelivered is returned by a notifier when the provider refused the message.
	ErrNotDelivered = errors.New("message not delivered")
)

// Phone code authentication failures.
var (
	ErrUserNotFound       = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrNoMessagingChannel = fmt.Errorf("user has no linked messaging channel: %w", ErrBadRequest)
	ErrDeliveryFailed     = errors.New("code delivery failed")
	// ErrInvalidOrExpiredCode covers a wrong, an expired and an already used code alike.
	ErrInvalidOrExpiredCode = fmt.Errorf("invalid or expired code: %w", ErrBadRequest)
)
