// Package lognotify is a development notifier that writes messages to the
// log instead of delivering them.
package lognotify

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/vape-shop-api/internal/domain"
)

type Notifier struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{log: log}
}

func (n *Notifier) Name() string { return "log" }

// ChannelID prefers the Telegram id and falls back to the phone.
func (n *Notifier) ChannelID(u *domain.User) string {
	if u.HasTelegram() {
		return "tg:" + strconv.FormatInt(u.TelegramID, 10)
	}
	if u.Phone != "" {
		return "phone:" + u.Phone
	}
	return ""
}

func (n *Notifier) Send(ctx context.Context, channelID, text string) error {
	n.log.InfoContext(ctx, "notification (not delivered, log driver)", "channel", channelID, "text", text)
	return nil
}
