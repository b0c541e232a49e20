package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vape-shop-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// AuthEnvelope wraps every successful login or token refresh.
type AuthEnvelope struct {
	Success      bool            `json:"success"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         *domain.User    `json:"user,omitempty"`
	Session      *domain.Session `json:"session,omitempty"`
}

// SendCodeEnvelope is returned once a login code has been delivered.
type SendCodeEnvelope struct {
	Sent      bool `json:"sent"`
	ExpiresIn int  `json:"expiresIn"`
}

// SessionEnvelope wraps current-session responses.
type SessionEnvelope struct {
	Success bool            `json:"success"`
	Session *domain.Session `json:"session"`
}

type SessionsEnvelope struct {
	Success  bool             `json:"success"`
	Sessions []domain.Session `json:"sessions"`
}

type UserEnvelope struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

type BlocksEnvelope struct {
	Success bool               `json:"success"`
	Blocks  []domain.HomeBlock `json:"blocks"`
}

type SweepEnvelope struct {
	Success bool  `json:"success"`
	Deleted int64 `json:"deleted"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a failure envelope. errs carries machine-oriented
// reasons; message is shown to the user.
func writeError(w http.ResponseWriter, status int, msg string, errs ...string) {
	writeJSON(w, status, MessageEnvelope{Success: false, Message: msg, Errors: errs})
}

// httpError maps domain sentinels to a status and a fixed message. The
// wrapped error text is logged but never sent to the client.
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Не найдено", "Not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "Конфликт данных", "Conflict")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Требуется авторизация", "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Доступ запрещён", "Forbidden")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "Некорректный запрос", "Bad request")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера", "Internal error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
