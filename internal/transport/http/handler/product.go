package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/go-commerce-api/internal/application/product"
	"github.com/go-commerce-api/internal/domain"
	"github.com/go-commerce-api/internal/transport/http/middleware"
)

// ProductHandler handles the product catalogue, discount codes, and image
// uploads for seller dashboards, plus the public product lookups.
type ProductHandler struct {
	svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: cfg})
}

func (h *ProductHandler) CreateDiscountCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateDiscountCodeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	d, err := h.svc.CreateDiscountCode(r.Context(), claims.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Data: d, Message: "discount code created"})
}

func (h *ProductHandler) ListDiscountCodes(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	codes, err := h.svc.ListDiscountCodes(r.Context(), claims.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: codes})
}

func (h *ProductHandler) DeleteDiscountCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.DeleteDiscountCode(r.Context(), claims.ID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "discount code deleted"})
}

func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileName string `json:"file_name" validate:"required"`
		Data     string `json:"data" validate:"required"`
	}
	if !decodeAndValidate(w, r, &req) {
		return
	}
	img, err := h.svc.UploadImage(r.Context(), req.FileName, req.Data)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Data: img, Message: "image uploaded"})
}

func (h *ProductHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileID string `json:"file_id" validate:"required"`
	}
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.svc.DeleteImage(r.Context(), req.FileID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "image deleted"})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateProductRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := h.svc.Create(r.Context(), claims.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, DataEnvelope{Data: p, Message: "product created"})
}

func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: p})
}

func (h *ProductHandler) ListShopProducts(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	list, err := h.svc.ListShopProducts(r.Context(), claims.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: list})
}

// Delete soft-deletes: the product disappears from the storefront and is
// purged for real once its retention window lapses.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p, err := h.svc.SoftDelete(r.Context(), claims.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: p, Message: "product scheduled for deletion in 24 hours"})
}

func (h *ProductHandler) Restore(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	p, err := h.svc.Restore(r.Context(), claims.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: p, Message: "product restored"})
}
