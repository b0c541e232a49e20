package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vape-shop-api/internal/domain"
)

type mockHomepageSvc struct{ mock.Mock }

func (m *mockHomepageSvc) List(ctx context.Context) ([]domain.HomeBlock, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]domain.HomeBlock)
	return b, args.Error(1)
}

func (m *mockHomepageSvc) Update(ctx context.Context, req domain.UpdateHomeBlocksRequest) ([]domain.HomeBlock, error) {
	args := m.Called(ctx, req)
	b, _ := args.Get(0).([]domain.HomeBlock)
	return b, args.Error(1)
}

type stubSweeper struct {
	n   int64
	err error
}

func (s stubSweeper) RunOnce(context.Context) (int64, error) { return s.n, s.err }

func TestHomepageList(t *testing.T) {
	svc := &mockHomepageSvc{}
	svc.On("List", mock.Anything).Return([]domain.HomeBlock{{Key: domain.BlockHero, Enabled: true}}, nil)

	rr := httptest.NewRecorder()
	NewHomepageHandler(svc).List(rr, httptest.NewRequest(http.MethodGet, "/api/homepage/blocks", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp BlocksEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, domain.BlockHero, resp.Blocks[0].Key)
}

func TestHomepageUpdate_RejectsUnknownKey(t *testing.T) {
	svc := &mockHomepageSvc{}
	rr := httptest.NewRecorder()
	NewHomepageHandler(svc).Update(rr, jsonReq(http.MethodPut, "/", `{"blocks":[{"key":"casino","enabled":true}]}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHomepageUpdate_HappyPath(t *testing.T) {
	svc := &mockHomepageSvc{}
	svc.On("Update", mock.Anything, domain.UpdateHomeBlocksRequest{Blocks: []domain.HomeBlockInput{
		{Key: domain.BlockPromo, Title: "Акции", Enabled: true},
	}}).Return([]domain.HomeBlock{{Key: domain.BlockPromo}}, nil)

	rr := httptest.NewRecorder()
	NewHomepageHandler(svc).Update(rr, jsonReq(http.MethodPut, "/",
		`{"blocks":[{"key":"promo","title":"Акции","enabled":true}]}`))
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestSweepPhoneCodes(t *testing.T) {
	rr := httptest.NewRecorder()
	NewMaintenanceHandler(stubSweeper{n: 4}).SweepPhoneCodes(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"deleted":4}`, rr.Body.String())

	rr = httptest.NewRecorder()
	NewMaintenanceHandler(stubSweeper{err: errors.New("locked")}).SweepPhoneCodes(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHealth(t *testing.T) {
	route := func(h *HealthHandler, action string) *httptest.ResponseRecorder {
		r := chi.NewRouter()
		r.Get("/health-check/{action}", h.Ping)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health-check/"+action, nil))
		return rr
	}

	ok := NewHealthHandler(func(context.Context) error { return nil })
	assert.Equal(t, http.StatusOK, route(ok, "ping").Code)
	assert.Equal(t, http.StatusOK, route(ok, "ready").Code)
	assert.Equal(t, http.StatusBadRequest, route(ok, "nope").Code)

	down := NewHealthHandler(func(context.Context) error { return errors.New("down") })
	assert.Equal(t, http.StatusServiceUnavailable, route(down, "ready").Code)
}
