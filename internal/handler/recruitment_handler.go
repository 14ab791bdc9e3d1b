package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/repository"
	"github.com/hr-admin-api/internal/service"
)

type RecruitmentHandler struct {
	base
	recruitment service.RecruitmentService
}

func NewRecruitmentHandler(recruitment service.RecruitmentService, perms service.PermissionService, logger *slog.Logger) *RecruitmentHandler {
	return &RecruitmentHandler{
		base:        newBase(perms, logger),
		recruitment: recruitment,
	}
}

// ---- Вакансии ----

func (h *RecruitmentHandler) CreateJobPosition(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateJobPositionRequest
	if !h.decode(w, r, &req) {
		return
	}

	job, err := h.recruitment.CreateJobPosition(r.Context(), h.actor(r), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ToJobPositionResponse(job, h.showAudit(r)))
}

func (h *RecruitmentHandler) ListJobPositions(w http.ResponseWriter, r *http.Request) {
	var status *domain.JobPositionStatus
	switch raw := domain.JobPositionStatus(r.URL.Query().Get("status")); raw {
	case "":
	case domain.JobPositionOpen, domain.JobPositionClosed:
		status = &raw
	default:
		h.respondError(w, http.StatusBadRequest, "invalid status", "")
		return
	}

	jobs, err := h.recruitment.ListJobPositions(r.Context(), h.actor(r), status)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	showAudit := h.showAudit(r)
	resp := make([]dto.JobPositionResponse, len(jobs))
	for i := range jobs {
		resp[i] = dto.ToJobPositionResponse(&jobs[i], showAudit)
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *RecruitmentHandler) GetJobPosition(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "job position")
	if !ok {
		return
	}

	job, err := h.recruitment.GetJobPosition(r.Context(), h.actor(r), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToJobPositionResponse(job, h.showAudit(r)))
}

// ---- Кандидаты ----

func (h *RecruitmentHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCandidateRequest
	if !h.decode(w, r, &req) {
		return
	}

	cand, err := h.recruitment.CreateCandidate(r.Context(), h.actor(r), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ToCandidateResponse(cand, h.showAudit(r)))
}

func (h *RecruitmentHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	filter := repository.CandidateFilter{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseCandidateStatus(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid status", err.Error())
			return
		}
		filter.Status = &status
	}
	var err error
	if filter.Limit, err = queryInt(r, "limit"); err != nil || filter.Limit < 0 {
		h.respondError(w, http.StatusBadRequest, "invalid limit", "")
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil || filter.Offset < 0 {
		h.respondError(w, http.StatusBadRequest, "invalid offset", "")
		return
	}

	list, total, err := h.recruitment.ListCandidates(r.Context(), h.actor(r), filter)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	showAudit := h.showAudit(r)
	items := make([]dto.CandidateResponse, len(list))
	for i := range list {
		items[i] = dto.ToCandidateResponse(&list[i], showAudit)
	}
	h.respondJSON(w, http.StatusOK, dto.ListResponse[dto.CandidateResponse]{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (h *RecruitmentHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "candidate")
	if !ok {
		return
	}

	cand, err := h.recruitment.GetCandidate(r.Context(), h.actor(r), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToCandidateResponse(cand, h.showAudit(r)))
}

func (h *RecruitmentHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "candidate")
	if !ok {
		return
	}

	var req dto.UpdateCandidateRequest
	if !h.decode(w, r, &req) {
		return
	}

	cand, err := h.recruitment.UpdateCandidate(r.Context(), h.actor(r), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToCandidateResponse(cand, h.showAudit(r)))
}

func (h *RecruitmentHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "candidate")
	if !ok {
		return
	}

	if err := h.recruitment.DeleteCandidate(r.Context(), h.actor(r), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RecruitmentHandler) SetCandidateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "candidate")
	if !ok {
		return
	}

	var req dto.CandidateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	cand, err := h.recruitment.SetCandidateStatus(r.Context(), h.actor(r), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToCandidateResponse(cand, h.showAudit(r)))
}

func (h *RecruitmentHandler) RecomputeCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "candidate")
	if !ok {
		return
	}

	cand, err := h.recruitment.RecomputeCandidate(r.Context(), h.actor(r), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToCandidateResponse(cand, h.showAudit(r)))
}

// ---- Заявки ----

func (h *RecruitmentHandler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}

	app, err := h.recruitment.CreateApplication(r.Context(), h.actor(r), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ToApplicationResponse(app, h.showAudit(r)))
}

func (h *RecruitmentHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	var (
		filter repository.ApplicationFilter
		err    error
	)
	if filter.CandidateID, err = queryInt64(r, "candidate_id"); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid candidate_id", err.Error())
		return
	}
	if filter.JobPositionID, err = queryInt64(r, "job_position_id"); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid job_position_id", err.Error())
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseApplicationStatus(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid status", err.Error())
			return
		}
		filter.Status = &status
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil || filter.Limit < 0 {
		h.respondError(w, http.StatusBadRequest, "invalid limit", "")
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil || filter.Offset < 0 {
		h.respondError(w, http.StatusBadRequest, "invalid offset", "")
		return
	}

	list, total, err := h.recruitment.ListApplications(r.Context(), h.actor(r), filter)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	showAudit := h.showAudit(r)
	items := make([]dto.ApplicationResponse, len(list))
	for i := range list {
		items[i] = dto.ToApplicationResponse(&list[i], showAudit)
	}
	h.respondJSON(w, http.StatusOK, dto.ListResponse[dto.ApplicationResponse]{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (h *RecruitmentHandler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "application")
	if !ok {
		return
	}

	app, err := h.recruitment.GetApplication(r.Context(), h.actor(r), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToApplicationResponse(app, h.showAudit(r)))
}

func (h *RecruitmentHandler) SetApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "application")
	if !ok {
		return
	}

	var req dto.ApplicationStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	app, err := h.recruitment.SetApplicationStatus(r.Context(), h.actor(r), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToApplicationResponse(app, h.showAudit(r)))
}

func (h *RecruitmentHandler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "application")
	if !ok {
		return
	}

	if err := h.recruitment.DeleteApplication(r.Context(), h.actor(r), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ---- Собеседования ----

func (h *RecruitmentHandler) ScheduleInterview(w http.ResponseWriter, r *http.Request) {
	var req dto.ScheduleInterviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	iv, err := h.recruitment.ScheduleInterview(r.Context(), h.actor(r), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.ToInterviewResponse(iv, h.showAudit(r)))
}

func (h *RecruitmentHandler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	applicationID, err := queryInt64(r, "application_id")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid application_id", err.Error())
		return
	}

	list, err := h.recruitment.ListInterviews(r.Context(), h.actor(r), applicationID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	showAudit := h.showAudit(r)
	resp := make([]dto.InterviewResponse, len(list))
	for i := range list {
		resp[i] = dto.ToInterviewResponse(&list[i], showAudit)
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *RecruitmentHandler) GetInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "interview")
	if !ok {
		return
	}

	iv, err := h.recruitment.GetInterview(r.Context(), h.actor(r), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToInterviewResponse(iv, h.showAudit(r)))
}

func (h *RecruitmentHandler) CompleteInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "interview")
	if !ok {
		return
	}

	var req dto.CompleteInterviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	iv, err := h.recruitment.CompleteInterview(r.Context(), h.actor(r), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToInterviewResponse(iv, h.showAudit(r)))
}

func (h *RecruitmentHandler) CancelInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "interview")
	if !ok {
		return
	}

	var req dto.CancelInterviewRequest
	if r.ContentLength != 0 && !h.decode(w, r, &req) {
		return
	}

	iv, err := h.recruitment.CancelInterview(r.Context(), h.actor(r), id, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ToInterviewResponse(iv, h.showAudit(r)))
}
