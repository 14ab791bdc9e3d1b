package handler

import (
	"log/slog"
	"net/http"

	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/service"
)

type AdminHandler struct {
	base
	orgService service.OrganizationService
}

func NewAdminHandler(orgService service.OrganizationService, perms service.PermissionService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		base:       newBase(perms, logger),
		orgService: orgService,
	}
}

func (h *AdminHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgService.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.OrganizationResponse, len(orgs))
	for i := range orgs {
		resp[i] = dto.ToOrganizationResponse(&orgs[i])
	}
	h.respondJSON(w, http.StatusOK, resp)
}
