package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/middleware"
	"github.com/hr-admin-api/internal/service"
)

// base - общие зависимости и помощники всех обработчиков
type base struct {
	perms     service.PermissionService
	validator *validator.Validate
	logger    *slog.Logger
}

func newBase(perms service.PermissionService, logger *slog.Logger) base {
	return base{
		perms:     perms,
		validator: NewValidator(),
		logger:    logger,
	}
}

// actor возвращает вызывающего; маршруты под Authenticate всегда его имеют
func (b *base) actor(r *http.Request) domain.Actor {
	actor, _ := middleware.ActorFromContext(r.Context())
	return actor
}

// showAudit сообщает, можно ли отдавать created_by/updated_by
func (b *base) showAudit(r *http.Request) bool {
	return b.perms.CanViewAuditInfo(r.Context(), b.actor(r))
}

// decode читает и валидирует тело запроса; при ошибке ответ уже отправлен
func (b *base) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		b.respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return b.validate(w, dst)
}

func (b *base) validate(w http.ResponseWriter, v any) bool {
	if err := b.validator.Struct(v); err != nil {
		b.respondError(w, http.StatusBadRequest, "validation error", err.Error())
		return false
	}
	return true
}

// pathID разбирает числовой параметр пути {id}
func (b *base) pathID(w http.ResponseWriter, r *http.Request, what string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		b.respondError(w, http.StatusBadRequest, "invalid "+what+" id", "")
		return 0, false
	}
	return id, true
}

// queryInt64 разбирает необязательный числовой параметр строки запроса
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (b *base) handleServiceError(w http.ResponseWriter, err error) {
	var headcountErr *domain.HeadcountExceededError

	switch {
	case errors.As(err, &headcountErr):
		b.respondError(w, http.StatusConflict, headcountErr.Error(), "")

	case errors.Is(err, domain.ErrDepartmentNotFound),
		errors.Is(err, domain.ErrDesignationNotFound),
		errors.Is(err, domain.ErrEmployeeNotFound),
		errors.Is(err, domain.ErrPositionNotFound),
		errors.Is(err, domain.ErrOrganizationNotFound),
		errors.Is(err, domain.ErrJobPositionNotFound),
		errors.Is(err, domain.ErrCandidateNotFound),
		errors.Is(err, domain.ErrApplicationNotFound),
		errors.Is(err, domain.ErrInterviewNotFound),
		errors.Is(err, domain.ErrReassignTargetNotFound):
		b.respondError(w, http.StatusNotFound, err.Error(), "")

	case errors.Is(err, domain.ErrDuplicateDepartmentName),
		errors.Is(err, domain.ErrDuplicateDesignation),
		errors.Is(err, domain.ErrDuplicateEmployeeCode),
		errors.Is(err, domain.ErrDuplicateApplication),
		errors.Is(err, domain.ErrCyclicReference),
		errors.Is(err, domain.ErrCircularHierarchy),
		errors.Is(err, domain.ErrHeadcountBelowAssigned),
		errors.Is(err, domain.ErrPositionInUse),
		errors.Is(err, domain.ErrDepartmentHasPositions),
		errors.Is(err, domain.ErrInterviewNotOpen),
		errors.Is(err, domain.ErrJobPositionClosed),
		errors.Is(err, domain.ErrPlanLimitExceeded):
		b.respondError(w, http.StatusConflict, err.Error(), "")

	case errors.Is(err, domain.ErrSelfReference),
		errors.Is(err, domain.ErrInvalidDeleteMode),
		errors.Is(err, domain.ErrReassignTargetRequired),
		errors.Is(err, domain.ErrCannotReassignToSelf),
		errors.Is(err, domain.ErrReportingPositionNotFound),
		errors.Is(err, domain.ErrInvalidStatus):
		b.respondError(w, http.StatusBadRequest, err.Error(), "")

	default:
		b.logger.Error("internal error", slog.Any("error", err))
		b.respondError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

func (b *base) respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dto.Envelope{Success: true, Data: data}); err != nil {
		b.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (b *base) respondError(w http.ResponseWriter, status int, msg, details string) {
	w.WriteHeader(status)
	resp := dto.Envelope{Success: false, Message: msg, Details: details}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		b.logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
