package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/packprint/sales-agent/internal/catalog"
)

// CatalogHandler exposes the read-only catalog.
type CatalogHandler struct {
	catalog *catalog.Index
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(idx *catalog.Index) *CatalogHandler {
	return &CatalogHandler{catalog: idx}
}

// Overview handles GET /api/v1/catalog
func (h *CatalogHandler) Overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"catalog": h.catalog.ContextBlob(),
	})
}

// Categories handles GET /api/v1/catalog/categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.catalog.Categories(),
	})
}

// Types handles GET /api/v1/catalog/categories/{id}/types
func (h *CatalogHandler) Types(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if _, ok := h.catalog.CategoryByID(uint(id)); !ok {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"types": h.catalog.TypesByCategory(uint(id)),
	})
}

// Variants handles GET /api/v1/catalog/types/{id}/variants
func (h *CatalogHandler) Variants(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid type id")
		return
	}
	if _, ok := h.catalog.TypeByID(uint(id)); !ok {
		writeError(w, http.StatusNotFound, "type not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"variants": h.catalog.VariantsByType(uint(id)),
	})
}

// Accessories handles GET /api/v1/catalog/accessories
func (h *CatalogHandler) Accessories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accessories": h.catalog.Accessories(),
	})
}
