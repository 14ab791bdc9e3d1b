package handler

import (
	"log/slog"
	"net/http"

	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/repository"
	"github.com/hr-admin-api/internal/service"
)

type EmployeeHandler struct {
	base
	empService service.EmployeeService
}

func NewEmployeeHandler(empService service.EmployeeService, perms service.PermissionService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		base:       newBase(perms, logger),
		empService: empService,
	}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.empService.Create(r.Context(), h.actor(r), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ToEmployeeResponse(emp, h.showAudit(r)))
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		filter repository.EmployeeFilter
		err    error
	)
	if filter.DepartmentID, err = queryInt64(r, "department_id"); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid department_id", err.Error())
		return
	}
	if filter.PositionID, err = queryInt64(r, "organizational_position_id"); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid organizational_position_id", err.Error())
		return
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil || filter.Limit < 0 {
		h.respondError(w, http.StatusBadRequest, "invalid limit", "")
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil || filter.Offset < 0 {
		h.respondError(w, http.StatusBadRequest, "invalid offset", "")
		return
	}

	employees, total, err := h.empService.List(r.Context(), h.actor(r), filter)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	showAudit := h.showAudit(r)
	items := make([]dto.EmployeeResponse, len(employees))
	for i := range employees {
		items[i] = dto.ToEmployeeResponse(&employees[i], showAudit)
	}
	h.respondJSON(w, http.StatusOK, dto.ListResponse[dto.EmployeeResponse]{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "employee")
	if !ok {
		return
	}

	emp, err := h.empService.GetByID(r.Context(), h.actor(r), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToEmployeeResponse(emp, h.showAudit(r)))
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "employee")
	if !ok {
		return
	}

	var req dto.UpdateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}

	emp, err := h.empService.Update(r.Context(), h.actor(r), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToEmployeeResponse(emp, h.showAudit(r)))
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "employee")
	if !ok {
		return
	}

	if err := h.empService.Delete(r.Context(), h.actor(r), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
