package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vape-shop-api/internal/application/session"
	"github.com/vape-shop-api/internal/application/telegramauth"
)

// TelegramAuthHandler accepts Login Widget callbacks.
type TelegramAuthHandler struct {
	svc      telegramauth.Service
	sessions session.Service
}

func NewTelegramAuthHandler(svc telegramauth.Service, sessions session.Service) *TelegramAuthHandler {
	return &TelegramAuthHandler{svc: svc, sessions: sessions}
}

func (h *TelegramAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeWidgetPayload(r)
	if err != nil || fields["hash"] == "" {
		writeError(w, http.StatusBadRequest, "Некорректные данные авторизации Telegram", "invalid request body")
		return
	}
	u, err := h.svc.Login(r.Context(), fields)
	if err != nil {
		httpError(w, r, err)
		return
	}
	pair, err := h.sessions.Issue(r.Context(), u)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		Success:      true,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         u,
	})
}

// decodeWidgetPayload flattens the widget JSON into the string map the
// signature is computed over. Numbers keep their literal form.
func decodeWidgetPayload(r *http.Request) (map[string]string, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("unsupported value for %q", k)
		}
	}
	return fields, nil
}
