package handler

import (
	"log/slog"
	"net/http"

	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/service"
)

type PositionHandler struct {
	base
	posService service.PositionService
}

func NewPositionHandler(posService service.PositionService, perms service.PermissionService, logger *slog.Logger) *PositionHandler {
	return &PositionHandler{
		base:       newBase(perms, logger),
		posService: posService,
	}
}

func (h *PositionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePositionRequest
	if !h.decode(w, r, &req) {
		return
	}

	pos, err := h.posService.Create(r.Context(), h.actor(r), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ToPositionResponse(pos, nil, h.showAudit(r)))
}

func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	departmentID, err := queryInt64(r, "department_id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department_id", err.Error())
		return
	}

	list, err := h.posService.List(r.Context(), h.actor(r), departmentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	showAudit := h.showAudit(r)
	resp := make([]dto.PositionResponse, len(list))
	for i := range list {
		resp[i] = dto.ToPositionResponse(&list[i], nil, showAudit)
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *PositionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "position")
	if !ok {
		return
	}

	details, err := h.posService.GetByID(r.Context(), h.actor(r), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToPositionResponse(details.Position, &details.AssignedCount, h.showAudit(r)))
}

func (h *PositionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "position")
	if !ok {
		return
	}

	var req dto.UpdatePositionRequest
	if !h.decode(w, r, &req) {
		return
	}

	pos, err := h.posService.Update(r.Context(), h.actor(r), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToPositionResponse(pos, nil, h.showAudit(r)))
}

func (h *PositionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "position")
	if !ok {
		return
	}

	if err := h.posService.Delete(r.Context(), h.actor(r), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PositionHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "position")
	if !ok {
		return
	}

	employees, err := h.posService.ListEmployees(r.Context(), h.actor(r), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	showAudit := h.showAudit(r)
	resp := make([]dto.EmployeeResponse, len(employees))
	for i := range employees {
		resp[i] = dto.ToEmployeeResponse(&employees[i], showAudit)
	}
	h.respondJSON(w, http.StatusOK, resp)
}
