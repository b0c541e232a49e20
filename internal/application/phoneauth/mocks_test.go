package phoneauth

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vape-shop-api/internal/domain"
)

type mockCodeStore struct{ mock.Mock }

func (m *mockCodeStore) Create(ctx context.Context, c *domain.PhoneCode) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCodeStore) FindValid(ctx context.Context, phone, code string, now time.Time) (*domain.PhoneCode, error) {
	args := m.Called(ctx, phone, code, now)
	if c, _ := args.Get(0).(*domain.PhoneCode); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCodeStore) MarkUsed(ctx context.Context, c *domain.PhoneCode, now time.Time) error {
	return m.Called(ctx, c, now).Error(0)
}
func (m *mockCodeStore) Delete(ctx context.Context, c *domain.PhoneCode) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCodeStore) DeleteExpiredOrUsed(ctx context.Context, phone string, now time.Time) (int64, error) {
	args := m.Called(ctx, phone, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockCodeStore) DeleteByPhone(ctx context.Context, phone string) (int64, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(int64), args.Error(1)
}

type mockUsers struct{ mock.Mock }

func (m *mockUsers) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUsers) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return m.Called(ctx, userID, at).Error(0)
}

// recordingNotifier delivers to a slice instead of a provider.
type recordingNotifier struct {
	err  error
	sent []sentMessage
}

type sentMessage struct {
	channel string
	text    string
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) ChannelID(u *domain.User) string {
	if u.TelegramID == 0 {
		return ""
	}
	return "tg"
}

func (n *recordingNotifier) Send(_ context.Context, channel, text string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{channel: channel, text: text})
	return nil
}
