package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vape-shop-api/internal/domain"
)

func newTestBot(t *testing.T, token, url string, timeout time.Duration) *Bot {
	t.Helper()
	b, err := NewBot(token, url, timeout)
	require.NoError(t, err)
	return b
}

func TestBot_Send_OK(t *testing.T) {
	var chatID, text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		chatID, text = r.FormValue("chat_id"), r.FormValue("text")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestBot(t, "TOKEN", srv.URL, time.Second).Send(context.Background(), "42", "hello"))
	assert.Equal(t, "42", chatID)
	assert.Equal(t, "hello", text)
}

func TestBot_Send_NegativeAck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
	}))
	defer srv.Close()

	err := newTestBot(t, "TOKEN", srv.URL, time.Second).Send(context.Background(), "42", "hello")
	assert.ErrorIs(t, err, domain.ErrNotDelivered)
	assert.Contains(t, err.Error(), "blocked")
}

func TestBot_Send_OtherRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":500,"description":"Internal Server Error"}`))
	}))
	defer srv.Close()

	err := newTestBot(t, "TOKEN", srv.URL, time.Second).Send(context.Background(), "42", "hello")
	assert.ErrorIs(t, err, domain.ErrNotDelivered)
}

func TestBot_Send_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	err := newTestBot(t, "SECRET", srv.URL, 20*time.Millisecond).Send(context.Background(), "42", "hello")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotDelivered))
	assert.NotContains(t, err.Error(), "SECRET")
}

func TestBot_Send_GarbageResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	err := newTestBot(t, "SECRET", srv.URL, time.Second).Send(context.Background(), "42", "hello")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotDelivered))
	assert.NotContains(t, err.Error(), "SECRET")
}

func TestBot_Send_BadChatID(t *testing.T) {
	err := newTestBot(t, "TOKEN", "", time.Second).Send(context.Background(), "@someone", "hello")
	assert.ErrorIs(t, err, domain.ErrNotDelivered)
}

func TestBot_ChannelID(t *testing.T) {
	bot := newTestBot(t, "TOKEN", "", time.Second)
	assert.Equal(t, "", bot.ChannelID(&domain.User{}))
	assert.Equal(t, "4242", bot.ChannelID(&domain.User{TelegramID: 4242}))
	assert.Equal(t, "telegram", bot.Name())
}
