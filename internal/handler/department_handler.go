package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/service"
)

type DepartmentHandler struct {
	base
	deptService service.DepartmentService
}

func NewDepartmentHandler(
	deptService service.DepartmentService,
	perms service.PermissionService,
	logger *slog.Logger,
) *DepartmentHandler {
	return &DepartmentHandler{
		base:        newBase(perms, logger),
		deptService: deptService,
	}
}

func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDepartmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	dept, err := h.deptService.Create(r.Context(), h.actor(r), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ToDepartmentResponse(dept, h.showAudit(r)))
}

func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	depts, err := h.deptService.List(r.Context(), h.actor(r))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	showAudit := h.showAudit(r)
	resp := make([]dto.DepartmentResponse, len(depts))
	for i := range depts {
		resp[i] = dto.ToDepartmentResponse(&depts[i], showAudit)
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *DepartmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "department")
	if !ok {
		return
	}

	query := h.parseGetQuery(r)
	if !h.validate(w, &query) {
		return
	}

	dept, err := h.deptService.GetByID(r.Context(), h.actor(r), id, &query)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToDepartmentResponse(dept, h.showAudit(r)))
}

func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "department")
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	dept, err := h.deptService.Update(r.Context(), h.actor(r), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToDepartmentResponse(dept, h.showAudit(r)))
}

func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "department")
	if !ok {
		return
	}

	query := h.parseDeleteQuery(r)
	if !h.validate(w, &query) {
		return
	}

	if err := h.deptService.Delete(r.Context(), h.actor(r), id, &query); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *DepartmentHandler) CreateDesignation(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDesignationRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.deptService.CreateDesignation(r.Context(), h.actor(r), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ToDesignationResponse(d))
}

func (h *DepartmentHandler) ListDesignations(w http.ResponseWriter, r *http.Request) {
	list, err := h.deptService.ListDesignations(r.Context(), h.actor(r))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	resp := make([]dto.DesignationResponse, len(list))
	for i := range list {
		resp[i] = dto.ToDesignationResponse(&list[i])
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *DepartmentHandler) parseGetQuery(r *http.Request) dto.GetDepartmentQuery {
	query := dto.GetDepartmentQuery{
		Depth:            1,
		IncludeEmployees: true,
	}

	if depthStr := r.URL.Query().Get("depth"); depthStr != "" {
		if depth, err := strconv.Atoi(depthStr); err == nil {
			query.Depth = depth
		}
	}

	if includeStr := r.URL.Query().Get("include_employees"); includeStr != "" {
		query.IncludeEmployees = includeStr == "true"
	}

	return query
}

func (h *DepartmentHandler) parseDeleteQuery(r *http.Request) dto.DeleteDepartmentQuery {
	query := dto.DeleteDepartmentQuery{
		Mode: r.URL.Query().Get("mode"),
	}

	if reassignStr := r.URL.Query().Get("reassign_to_department_id"); reassignStr != "" {
		if reassignID, err := strconv.ParseInt(reassignStr, 10, 64); err == nil {
			query.ReassignToDepartmentID = &reassignID
		}
	}

	return query
}
