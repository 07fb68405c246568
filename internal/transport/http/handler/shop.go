package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/go-commerce-api/internal/application/shop"
	"github.com/go-commerce-api/internal/domain"
	"github.com/go-commerce-api/internal/transport/http/middleware"
)

// ShopHandler handles shop creation and lookup.
type ShopHandler struct {
	svc shop.Service
}

func NewShopHandler(svc shop.Service) *ShopHandler {
	return &ShopHandler{svc: svc}
}

func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateShopRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	s, err := h.svc.Create(r.Context(), claims.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Data: s, Message: "shop created"})
}

func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: s})
}
