package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vape-shop-api/internal/application/session"
	"github.com/vape-shop-api/internal/domain"
)

func TestRefresh_MissingToken(t *testing.T) {
	h := NewSessionHandler(&mockSessionSvc{})
	rr := httptest.NewRecorder()
	h.Refresh(rr, jsonReq(http.MethodPost, "/api/sessions/refresh", `{}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRefresh_Rejected(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Refresh", mock.Anything, "stale").Return(nil, domain.ErrUnauthorized)
	rr := httptest.NewRecorder()
	NewSessionHandler(svc).Refresh(rr, jsonReq(http.MethodPost, "/", `{"refresh_token":"stale"}`))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefresh_HappyPath(t *testing.T) {
	svc := &mockSessionSvc{}
	svc.On("Refresh", mock.Anything, "r1").Return(&session.TokenPair{
		AccessToken:  "a2",
		RefreshToken: "r2",
		Session:      &domain.Session{SessionID: "s1", User: &domain.User{UserID: "u1"}},
	}, nil)
	rr := httptest.NewRecorder()
	NewSessionHandler(svc).Refresh(rr, jsonReq(http.MethodPost, "/", `{"refresh_token":"r1"}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp AuthEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "a2", resp.AccessToken)
	assert.Equal(t, "r2", resp.RefreshToken)
	assert.Equal(t, "u1", resp.User.UserID)
}

func TestGetCurrent_UsesSessionFromToken(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("GetCurrent", mock.Anything, "sess1").Return(&domain.Session{SessionID: "sess1", Enable: true}, nil)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewSessionHandler(svc).GetCurrent), rr,
		bearerReq(t, p, http.MethodGet, "/api/sessions/current", "u1", domain.RoleUser, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestList_ReturnsCallerSessions(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("List", mock.Anything, "u1").Return([]domain.Session{{SessionID: "a"}, {SessionID: "b"}}, nil)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewSessionHandler(svc).List), rr,
		bearerReq(t, p, http.MethodGet, "/api/sessions", "u1", domain.RoleUser, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp SessionsEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp.Sessions, 2)
}

func TestLogout_DisablesSession(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockSessionSvc{}
	svc.On("Logout", mock.Anything, "sess1").Return(nil)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(NewSessionHandler(svc).Logout), rr,
		bearerReq(t, p, http.MethodPost, "/api/sessions/logout", "u1", domain.RoleUser, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}
