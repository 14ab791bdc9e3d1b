package service_test

import (
	"context"
	"testing"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecruitment_DuplicateApplication(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cand := e.createCandidate(t)
	job := e.createJob(t, "Backend")
	e.apply(t, cand.ID, job.ID)

	_, err := e.recruitment.CreateApplication(ctx, e.actor, &dto.CreateApplicationRequest{
		CandidateID:   cand.ID,
		JobPositionID: job.ID,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)
}

func TestRecruitment_ApplicationToClosedJob(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cand := e.createCandidate(t)
	job := e.createJob(t, "Closed")
	require.NoError(t, e.db.Model(&domain.JobPosition{}).Where("id = ?", job.ID).
		Update("status", domain.JobPositionClosed).Error)

	_, err := e.recruitment.CreateApplication(ctx, e.actor, &dto.CreateApplicationRequest{
		CandidateID:   cand.ID,
		JobPositionID: job.ID,
	})
	assert.ErrorIs(t, err, domain.ErrJobPositionClosed)
	assert.Equal(t, domain.CandidateNew, e.candidateStatus(t, cand.ID))
}

func TestRecruitment_MissingReferences(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.recruitment.CreateApplication(ctx, e.actor, &dto.CreateApplicationRequest{CandidateID: 404, JobPositionID: 1})
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)

	cand := e.createCandidate(t)
	_, err = e.recruitment.CreateApplication(ctx, e.actor, &dto.CreateApplicationRequest{CandidateID: cand.ID, JobPositionID: 404})
	assert.ErrorIs(t, err, domain.ErrJobPositionNotFound)

	_, err = e.recruitment.ScheduleInterview(ctx, e.actor, &dto.ScheduleInterviewRequest{ApplicationID: 404, RoundName: "Technical"})
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestRecruitment_TenantIsolation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cand := e.createCandidate(t)

	other := domain.Actor{UserID: e.tenant.User.ID, OrganizationID: e.tenant.Org.ID + 100}
	_, err := e.recruitment.GetCandidate(ctx, other, cand.ID)
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
}

func TestRecruitment_UpdateCandidateKeepsStatus(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cand := e.createCandidate(t)
	e.apply(t, cand.ID, e.createJob(t, "Writer").ID)

	name := "Jane Smith"
	updated, err := e.recruitment.UpdateCandidate(ctx, e.actor, cand.ID, &dto.UpdateCandidateRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", updated.FullName)
	assert.Equal(t, domain.CandidateInProcess, updated.Status)
}

func TestRecruitment_ListCandidates(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.createCandidate(t)
	other, err := e.recruitment.CreateCandidate(ctx, e.actor, &dto.CreateCandidateRequest{
		FullName: "John Roe",
		Email:    "john@example.com",
	})
	require.NoError(t, err)
	e.apply(t, other.ID, e.createJob(t, "Sales").ID)

	status := domain.CandidateInProcess
	list, total, err := e.recruitment.ListCandidates(ctx, e.actor, repository.CandidateFilter{Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, other.ID, list[0].ID)

	list, total, err = e.recruitment.ListCandidates(ctx, e.actor, repository.CandidateFilter{Search: "JANE"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Jane Doe", list[0].FullName)
}

func TestRecruitment_DeleteCandidateKeepsAuditTrail(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cand := e.createCandidate(t)
	app := e.apply(t, cand.ID, e.createJob(t, "Temp").ID)
	e.schedule(t, app.ID, "Technical")
	before := len(e.auditTrail(t))

	require.NoError(t, e.recruitment.DeleteCandidate(ctx, e.actor, cand.ID))

	_, err := e.recruitment.GetCandidate(ctx, e.actor, cand.ID)
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)
	_, err = e.recruitment.GetApplication(ctx, e.actor, app.ID)
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)

	interviews, err := e.recruitment.ListInterviews(ctx, e.actor, &app.ID)
	require.NoError(t, err)
	assert.Empty(t, interviews)

	assert.Len(t, e.auditTrail(t), before)
}

func TestRecruitment_InvalidManualStatus(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cand := e.createCandidate(t)
	_, err := e.recruitment.SetCandidateStatus(ctx, e.actor, cand.ID, &dto.CandidateStatusRequest{Status: "Hired"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = e.recruitment.CompleteInterview(ctx, e.actor, 1, &dto.CompleteInterviewRequest{Result: "Maybe"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
