package handler

import (
	"net/http"

	"github.com/vape-shop-api/internal/application/homepage"
	"github.com/vape-shop-api/internal/domain"
	"github.com/vape-shop-api/internal/pkg/validate"
)

type HomepageHandler struct {
	svc homepage.Service
}

func NewHomepageHandler(svc homepage.Service) *HomepageHandler { return &HomepageHandler{svc: svc} }

func (h *HomepageHandler) List(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BlocksEnvelope{Success: true, Blocks: blocks})
}

func (h *HomepageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateHomeBlocksRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный запрос", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Некорректные настройки блоков", err.Error())
		return
	}
	blocks, err := h.svc.Update(r.Context(), req)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BlocksEnvelope{Success: true, Blocks: blocks})
}
