package api

import (
	"net/http"

	"github.com/wakati-labs/kwaheri/internal/domain"
	"github.com/wakati-labs/kwaheri/internal/overlay"
)

type ServicesHandler struct {
	services *overlay.Services
}

func NewServicesHandler(services *overlay.Services) *ServicesHandler {
	return &ServicesHandler{services: services}
}

// List returns the public services directory: the static catalog with admin
// edits applied, inactive entries hidden.
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context(), false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list services")
		return
	}
	respondJSON(w, http.StatusOK, map[string][]domain.ServiceItem{"services": services})
}
