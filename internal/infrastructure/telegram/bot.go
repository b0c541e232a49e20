// Package telegram talks to the Telegram Bot API: it delivers login codes
// to users who linked their Telegram account and verifies Login Widget
// payloads.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/vape-shop-api/internal/domain"
)

const DefaultAPIURL = "https://api.telegram.org"

// Bot sends messages through the Bot API sendMessage method. It never
// polls for updates.
type Bot struct {
	token string
	api   *tgbot.Bot
}

func NewBot(token, apiURL string, timeout time.Duration) (*Bot, error) {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	api, err := tgbot.New(token,
		tgbot.WithSkipGetMe(),
		tgbot.WithServerURL(strings.TrimRight(apiURL, "/")),
		tgbot.WithHTTPClient(timeout, &http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", redact(err, token))
	}
	return &Bot{token: token, api: api}, nil
}

func (b *Bot) Name() string { return "telegram" }

// ChannelID is the user's Telegram chat id; private chats share the user id.
func (b *Bot) ChannelID(u *domain.User) string {
	if !u.HasTelegram() {
		return ""
	}
	return strconv.FormatInt(u.TelegramID, 10)
}

// Send posts text to chatID. A response with ok=false (blocked bot, unknown
// chat) is reported as domain.ErrNotDelivered.
func (b *Bot) Send(ctx context.Context, chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram sendMessage: bad chat id %q: %w", chatID, domain.ErrNotDelivered)
	}
	_, err = b.api.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: id, Text: text})
	if err == nil {
		return nil
	}
	// Transport errors carry the request URL, which embeds the bot token.
	err = redact(err, b.token)
	if isRefusal(err) {
		return fmt.Errorf("telegram sendMessage: %w: %w", domain.ErrNotDelivered, err)
	}
	return fmt.Errorf("telegram sendMessage: %w", err)
}

// isRefusal reports whether the Bot API answered ok=false.
func isRefusal(err error) bool {
	var tooMany *tgbot.TooManyRequestsError
	switch {
	case errors.Is(err, tgbot.ErrorForbidden),
		errors.Is(err, tgbot.ErrorBadRequest),
		errors.Is(err, tgbot.ErrorUnauthorized),
		errors.Is(err, tgbot.ErrorNotFound),
		errors.As(err, &tooMany):
		return true
	}
	return strings.Contains(err.Error(), "error response from telegram")
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, secret string) error {
	if secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), secret, "<token>"), err: err}
}
