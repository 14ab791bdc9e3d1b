package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/repository"
	"github.com/hr-admin-api/internal/service"
)

type StatusLogHandler struct {
	base
	logService service.StatusLogService
}

func NewStatusLogHandler(logService service.StatusLogService, perms service.PermissionService, logger *slog.Logger) *StatusLogHandler {
	return &StatusLogHandler{
		base:       newBase(perms, logger),
		logService: logService,
	}
}

// History возвращает обработчик истории статусов сущности из пути {id}
func (h *StatusLogHandler) History(entityType domain.EntityType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r, string(entityType))
		if !ok {
			return
		}

		entries, err := h.logService.ListByEntity(r.Context(), h.actor(r), entityType, id)
		if err != nil {
			h.handleServiceError(w, err)
			return
		}

		showAudit := h.showAudit(r)
		resp := make([]dto.StatusLogResponse, len(entries))
		for i := range entries {
			resp[i] = dto.ToStatusLogResponse(&entries[i], showAudit)
		}
		h.respondJSON(w, http.StatusOK, resp)
	}
}

func (h *StatusLogHandler) Query(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if !h.validate(w, &query) {
		return
	}

	q := repository.StatusLogQuery{
		EntityID:      query.EntityID,
		ChangedBy:     query.ChangedBy,
		IsAutomatic:   query.IsAutomatic,
		CorrelationID: query.CorrelationID,
		From:          query.From,
		To:            query.To,
		Limit:         query.Limit,
		Offset:        query.Offset,
	}
	if query.EntityType != "" {
		entityType := domain.EntityType(query.EntityType)
		q.EntityType = &entityType
	}

	entries, total, err := h.logService.Query(r.Context(), h.actor(r), q)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	showAudit := h.showAudit(r)
	items := make([]dto.StatusLogResponse, len(entries))
	for i := range entries {
		items[i] = dto.ToStatusLogResponse(&entries[i], showAudit)
	}
	h.respondJSON(w, http.StatusOK, dto.ListResponse[dto.StatusLogResponse]{
		Items:  items,
		Total:  total,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
}

func (h *StatusLogHandler) parseQuery(r *http.Request) (dto.StatusLogQuery, error) {
	values := r.URL.Query()
	query := dto.StatusLogQuery{
		EntityType:    values.Get("entity_type"),
		CorrelationID: values.Get("correlation_id"),
	}

	var err error
	if query.EntityID, err = queryInt64(r, "entity_id"); err != nil {
		return query, err
	}
	if query.ChangedBy, err = queryInt64(r, "changed_by"); err != nil {
		return query, err
	}
	if raw := values.Get("is_automatic"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return query, err
		}
		query.IsAutomatic = &v
	}
	for name, dst := range map[string]**time.Time{"from": &query.From, "to": &query.To} {
		if raw := values.Get(name); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return query, err
			}
			*dst = &t
		}
	}
	if query.Limit, err = queryInt(r, "limit"); err != nil {
		return query, err
	}
	if query.Offset, err = queryInt(r, "offset"); err != nil {
		return query, err
	}
	return query, nil
}
