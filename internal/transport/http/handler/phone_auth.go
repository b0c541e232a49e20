package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vape-shop-api/internal/application/phoneauth"
	"github.com/vape-shop-api/internal/application/session"
	"github.com/vape-shop-api/internal/domain"
	"github.com/vape-shop-api/internal/pkg/validate"
)

// User-facing messages for the phone login flow.
const (
	msgUserNotFound   = "Пользователь с таким номером телефона не найден"
	msgBadPhone       = "Некорректный номер телефона"
	msgNoChannel      = "К аккаунту не привязан Telegram. Войдите через Telegram и укажите номер телефона в профиле"
	msgDeliveryFailed = "Не удалось отправить код. Попробуйте позже"
	msgInternal       = "Внутренняя ошибка сервера"
	msgInvalidCode    = "Неверный или просроченный код"

	errInvalidCode = "Invalid or expired code"
)

type sendCodeRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
}

type verifyCodeRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
	Code  string `json:"code" validate:"required,numeric_code"`
}

// PhoneAuthHandler serves the one-time-code login endpoints.
type PhoneAuthHandler struct {
	svc      phoneauth.Service
	sessions session.Service
}

func NewPhoneAuthHandler(svc phoneauth.Service, sessions session.Service) *PhoneAuthHandler {
	return &PhoneAuthHandler{svc: svc, sessions: sessions}
}

func (h *PhoneAuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadPhone, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, msgBadPhone, err.Error())
		return
	}
	res, err := h.svc.RequestCode(r.Context(), req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeError(w, http.StatusNotFound, msgUserNotFound, "User not found")
		case errors.Is(err, domain.ErrNoMessagingChannel):
			writeError(w, http.StatusBadRequest, msgNoChannel, "No messaging channel linked")
		case errors.Is(err, domain.ErrDeliveryFailed):
			writeError(w, http.StatusInternalServerError, msgDeliveryFailed, "Failed to deliver code")
		default:
			slog.Error("send code failed", "err", err)
			writeError(w, http.StatusInternalServerError, msgInternal, "Internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, SendCodeEnvelope{Sent: true, ExpiresIn: res.ExpiresIn})
}

// VerifyCode answers every rejected code with the same payload so callers
// cannot tell a wrong code from an expired or already used one.
func (h *PhoneAuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidCode, errInvalidCode)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidCode, errInvalidCode)
		return
	}
	u, err := h.svc.VerifyCode(r.Context(), req.Phone, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrExpiredCode) || errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusBadRequest, msgInvalidCode, errInvalidCode)
			return
		}
		slog.Error("verify code failed", "err", err)
		writeError(w, http.StatusInternalServerError, msgInternal, "Internal error")
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
