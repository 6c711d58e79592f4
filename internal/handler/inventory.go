package handler

import (
	"encoding/json"
	"net/http"

	"stockroom-api/internal/middleware"
	"stockroom-api/internal/model"
	"stockroom-api/internal/service"
	"stockroom-api/pkg/apierror"
	"stockroom-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// InventoryHandler handles inventory-related HTTP requests. All routes it
// serves sit behind the auth middleware, so the acting account is always
// present in the request context.
type InventoryHandler struct {
	inventory *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventory *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// DeleteResponse is the envelope for a successful delete.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// List handles GET /api/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	items, err := h.inventory.List(r.Context(), account.ID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, items)
}

// Get handles GET /api/inventory/{id}
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	item, err := h.inventory.Get(r.Context(), account.ID, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, item)
}

// Create handles POST /api/inventory
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	var input model.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	item, err := h.inventory.Create(r.Context(), account.ID, input)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, item)
}

// Update handles PUT /api/inventory/{id}
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	var input model.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	item, err := h.inventory.Update(r.Context(), account.ID, chi.URLParam(r, "id"), input)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, item)
}

// Delete handles DELETE /api/inventory/{id}
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccountFromContext(r.Context())
	if account == nil {
		response.Error(w, apierror.Unauthorized(""))
		return
	}

	if err := h.inventory.Delete(r.Context(), account.ID, chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}

	response.Raw(w, http.StatusOK, DeleteResponse{Success: true})
}
