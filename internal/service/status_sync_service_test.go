package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusSync_ScheduleThenFail(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cand := e.createCandidate(t)
	job := e.createJob(t, "Backend Engineer")

	// Заявка уже существует, кандидат ещё не пересчитан
	app := &domain.Application{
		OrganizationID: e.tenant.Org.ID,
		CandidateID:    cand.ID,
		JobPositionID:  job.ID,
		Status:         domain.ApplicationApplied,
	}
	require.NoError(t, e.appRepo.Create(ctx, app))
	require.Equal(t, domain.CandidateNew, e.candidateStatus(t, cand.ID))

	iv := e.schedule(t, app.ID, "Technical")

	assert.Equal(t, domain.ApplicationInterviewScheduled, e.applicationStatus(t, app.ID))
	assert.Equal(t, domain.CandidateInProcess, e.candidateStatus(t, cand.ID))

	trail := e.auditTrail(t)
	require.Len(t, trail, 2)
	assert.Equal(t, domain.EntityApplication, trail[0].EntityType)
	assert.Equal(t, "Applied", trail[0].OldStatus)
	assert.Equal(t, "Interview Scheduled", trail[0].NewStatus)
	assert.Equal(t, "Interview scheduled", trail[0].Reason)
	assert.Equal(t, domain.EntityCandidate, trail[1].EntityType)
	assert.Equal(t, "New", trail[1].OldStatus)
	assert.Equal(t, "In Process", trail[1].NewStatus)
	assert.NotEmpty(t, trail[0].CorrelationID)
	assert.Equal(t, trail[0].CorrelationID, trail[1].CorrelationID)

	e.complete(t, iv.ID, domain.ResultFail)

	assert.Equal(t, domain.ApplicationRejected, e.applicationStatus(t, app.ID))
	assert.Equal(t, domain.CandidateRejected, e.candidateStatus(t, cand.ID))

	trail = e.auditTrail(t)
	require.Len(t, trail, 4)
	assert.Equal(t, domain.EntityApplication, trail[2].EntityType)
	assert.Equal(t, "Rejected", trail[2].NewStatus)
	assert.Equal(t, "Failed Technical interview", trail[2].Reason)
	assert.Equal(t, domain.EntityCandidate, trail[3].EntityType)
	assert.Equal(t, "Rejected", trail[3].NewStatus)
	assert.Equal(t, trail[2].CorrelationID, trail[3].CorrelationID)
	assert.NotEqual(t, trail[0].CorrelationID, trail[2].CorrelationID)

	for _, row := range trail {
		assert.True(t, row.IsAutomatic)
		assert.Equal(t, e.tenant.User.ID, row.ChangedBy)
	}
}

func TestStatusSync_CreateApplicationStartsProcess(t *testing.T) {
	e := newTestEnv(t)

	cand := e.createCandidate(t)
	app := e.apply(t, cand.ID, e.createJob(t, "QA").ID)

	assert.Equal(t, domain.ApplicationApplied, app.Status)
	assert.Equal(t, domain.CandidateInProcess, e.candidateStatus(t, cand.ID))

	trail := e.auditTrail(t)
	require.Len(t, trail, 1)
	assert.Equal(t, domain.EntityCandidate, trail[0].EntityType)
	assert.Equal(t, "Auto-updated based on application statuses", trail[0].Reason)
}

func TestStatusSync_FinalRoundByName(t *testing.T) {
	e := newTestEnv(t)

	cand := e.createCandidate(t)
	app := e.apply(t, cand.ID, e.createJob(t, "Designer").ID)

	iv := e.schedule(t, app.ID, "Final Round")
	e.complete(t, iv.ID, domain.ResultPass)

	assert.Equal(t, domain.ApplicationSelected, e.applicationStatus(t, app.ID))
	assert.Equal(t, domain.CandidateSelected, e.candidateStatus(t, cand.ID))

	trail := e.auditTrail(t)
	require.NotEmpty(t, trail)
	var reasons []string
	for _, row := range trail {
		reasons = append(reasons, row.Reason)
	}
	assert.Contains(t, reasons, "Passed Final Round interview (final round)")
}

func TestStatusSync_ThirdPassSelects(t *testing.T) {
	e := newTestEnv(t)

	cand := e.createCandidate(t)
	app := e.apply(t, cand.ID, e.createJob(t, "SRE").ID)

	rounds := []string{"Screening", "Coding", "System Design"}
	want := []domain.ApplicationStatus{
		domain.ApplicationShortlisted,
		domain.ApplicationShortlisted,
		domain.ApplicationSelected,
	}

	for i, round := range rounds {
		iv := e.schedule(t, app.ID, round)
		assert.Equal(t, domain.ApplicationInterviewScheduled, e.applicationStatus(t, app.ID))

		e.complete(t, iv.ID, domain.ResultPass)
		assert.Equal(t, want[i], e.applicationStatus(t, app.ID), "after round %q", round)
	}

	assert.Equal(t, domain.CandidateSelected, e.candidateStatus(t, cand.ID))
}

func TestStatusSync_SchedulingKeepsTerminalStatus(t *testing.T) {
	for _, terminal := range []domain.ApplicationStatus{domain.ApplicationSelected, domain.ApplicationRejected} {
		t.Run(string(terminal), func(t *testing.T) {
			e := newTestEnv(t)
			ctx := context.Background()

			cand := e.createCandidate(t)
			app := e.apply(t, cand.ID, e.createJob(t, "Analyst").ID)

			_, err := e.recruitment.SetApplicationStatus(ctx, e.actor, app.ID, &dto.ApplicationStatusRequest{Status: string(terminal)})
			require.NoError(t, err)
			before := len(e.auditTrail(t))

			e.schedule(t, app.ID, "Extra")

			assert.Equal(t, terminal, e.applicationStatus(t, app.ID))
			assert.Len(t, e.auditTrail(t), before)
		})
	}
}

func TestStatusSync_PassKeepsTerminalFailRejects(t *testing.T) {
	e := newTestEnv(t)

	cand := e.createCandidate(t)
	app := e.apply(t, cand.ID, e.createJob(t, "PM").ID)

	first := e.schedule(t, app.ID, "HR")
	e.complete(t, first.ID, domain.ResultPass)
	require.Equal(t, domain.ApplicationSelected, e.applicationStatus(t, app.ID))

	// Pass не меняет терминальный статус
	second := e.schedule(t, app.ID, "Bonus")
	e.complete(t, second.ID, domain.ResultPass)
	assert.Equal(t, domain.ApplicationSelected, e.applicationStatus(t, app.ID))

	// Fail отклоняет заявку в любом статусе
	third := e.schedule(t, app.ID, "Reference")
	e.complete(t, third.ID, domain.ResultFail)
	assert.Equal(t, domain.ApplicationRejected, e.applicationStatus(t, app.ID))
	assert.Equal(t, domain.CandidateRejected, e.candidateStatus(t, cand.ID))
}

func TestStatusSync_OnHoldResultChangesNothing(t *testing.T) {
	e := newTestEnv(t)

	cand := e.createCandidate(t)
	app := e.apply(t, cand.ID, e.createJob(t, "Support").ID)
	iv := e.schedule(t, app.ID, "Technical")
	before := len(e.auditTrail(t))

	e.complete(t, iv.ID, domain.ResultOnHold)

	assert.Equal(t, domain.ApplicationInterviewScheduled, e.applicationStatus(t, app.ID))
	assert.Len(t, e.auditTrail(t), before)
}

func TestStatusSync_RecomputeIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cand := e.createCandidate(t)
	e.apply(t, cand.ID, e.createJob(t, "Ops").ID)

	_, err := e.recruitment.SetCandidateStatus(ctx, e.actor, cand.ID, &dto.CandidateStatusRequest{Status: "On Hold"})
	require.NoError(t, err)
	before := len(e.auditTrail(t))

	got, err := e.recruitment.RecomputeCandidate(ctx, e.actor, cand.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CandidateInProcess, got.Status)
	assert.Len(t, e.auditTrail(t), before+1)

	got, err = e.recruitment.RecomputeCandidate(ctx, e.actor, cand.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CandidateInProcess, got.Status)
	assert.Len(t, e.auditTrail(t), before+1)
}

func TestStatusSync_SelectedBeatsRejected(t *testing.T) {
	orders := map[string][]domain.ApplicationStatus{
		"selected first": {domain.ApplicationSelected, domain.ApplicationRejected},
		"rejected first": {domain.ApplicationRejected, domain.ApplicationSelected},
	}

	for name, statuses := range orders {
		t.Run(name, func(t *testing.T) {
			e := newTestEnv(t)
			ctx := context.Background()
			cand := e.createCandidate(t)

			for i, st := range statuses {
				app := e.apply(t, cand.ID, e.createJob(t, "Job "+string(rune('A'+i))).ID)
				_, err := e.recruitment.SetApplicationStatus(ctx, e.actor, app.ID, &dto.ApplicationStatusRequest{Status: string(st)})
				require.NoError(t, err)
			}

			assert.Equal(t, domain.CandidateSelected, e.candidateStatus(t, cand.ID))
		})
	}
}

func TestStatusSync_AllRejected(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	cand := e.createCandidate(t)

	var firstID int64
	for i := 0; i < 3; i++ {
		app := e.apply(t, cand.ID, e.createJob(t, "Role "+string(rune('A'+i))).ID)
		if firstID == 0 {
			firstID = app.ID
		}
		_, err := e.recruitment.SetApplicationStatus(ctx, e.actor, app.ID, &dto.ApplicationStatusRequest{
			Status: "Rejected",
			Reason: "position filled",
		})
		require.NoError(t, err)
	}

	assert.Equal(t, domain.CandidateRejected, e.candidateStatus(t, cand.ID))

	rows, err := e.logs.ListByEntity(ctx, e.actor, domain.EntityApplication, firstID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsAutomatic)
	assert.Equal(t, "position filled", rows[0].Reason)
}

func TestStatusSync_DeleteApplicationRecomputes(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	cand := e.createCandidate(t)

	rejected := e.apply(t, cand.ID, e.createJob(t, "First").ID)
	_, err := e.recruitment.SetApplicationStatus(ctx, e.actor, rejected.ID, &dto.ApplicationStatusRequest{Status: "Rejected"})
	require.NoError(t, err)

	active := e.apply(t, cand.ID, e.createJob(t, "Second").ID)
	require.Equal(t, domain.CandidateInProcess, e.candidateStatus(t, cand.ID))

	require.NoError(t, e.recruitment.DeleteApplication(ctx, e.actor, active.ID))
	assert.Equal(t, domain.CandidateRejected, e.candidateStatus(t, cand.ID))
}

func TestStatusSync_MissingEntitiesAreSkipped(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	orgID := e.tenant.Org.ID

	ghost := &domain.InterviewSchedule{ID: 42, OrganizationID: orgID, ApplicationID: 999, RoundName: "Technical"}
	assert.NoError(t, e.sync.OnInterviewScheduled(ctx, e.actor, ghost))

	pass := domain.ResultPass
	ghost.Result = &pass
	assert.NoError(t, e.sync.OnInterviewCompleted(ctx, e.actor, ghost))

	assert.NoError(t, e.sync.SyncCandidate(ctx, e.actor, orgID, 999))
	assert.Empty(t, e.auditTrail(t))

	// Явный пересчёт сообщает об отсутствии кандидата
	_, err := e.sync.RecomputeCandidate(ctx, e.actor, orgID, 999)
	assert.ErrorIs(t, err, domain.ErrCandidateNotFound)

	_, err = e.sync.SetApplicationStatus(ctx, e.actor, 999, domain.ApplicationRejected, "")
	assert.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestStatusSync_SystemUserForAnonymousChanges(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cand := e.createCandidate(t)
	app := e.apply(t, cand.ID, e.createJob(t, "Intern").ID)

	anonymous := domain.Actor{OrganizationID: e.tenant.Org.ID}
	_, err := e.sync.SetApplicationStatus(ctx, anonymous, app.ID, domain.ApplicationSelected, "")
	require.NoError(t, err)

	trail := e.auditTrail(t)
	last := trail[len(trail)-2:]
	for _, row := range last {
		assert.Equal(t, systemUserID, row.ChangedBy)
	}
	assert.Equal(t, "Manually updated by user", last[0].Reason)
}

func TestStatusSync_CancelInterviewIsLogged(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	cand := e.createCandidate(t)
	app := e.apply(t, cand.ID, e.createJob(t, "Data").ID)
	iv := e.schedule(t, app.ID, "Technical")

	cancelled, err := e.recruitment.CancelInterview(ctx, e.actor, iv.ID, &dto.CancelInterviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewCancelled, cancelled.Status)
	assert.Equal(t, domain.ApplicationInterviewScheduled, e.applicationStatus(t, app.ID))

	rows, err := e.logs.ListByEntity(ctx, e.actor, domain.EntityInterview, iv.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Scheduled", rows[0].OldStatus)
	assert.Equal(t, "Cancelled", rows[0].NewStatus)
	assert.Equal(t, "Interview cancelled", rows[0].Reason)

	_, err = e.recruitment.CompleteInterview(ctx, e.actor, iv.ID, &dto.CompleteInterviewRequest{Result: "Pass"})
	assert.ErrorIs(t, err, domain.ErrInterviewNotOpen)
}

var errLogUnavailable = errors.New("status log unavailable")

// brokenLogRepo отказывает в записи журнала, пока включён fail
type brokenLogRepo struct {
	repository.StatusLogRepository
	fail bool
}

func (r *brokenLogRepo) Create(ctx context.Context, entry *domain.StatusChangeLog) error {
	if r.fail {
		return errLogUnavailable
	}
	return r.StatusLogRepository.Create(ctx, entry)
}

func TestStatusSync_CascadeIsAllOrNothing(t *testing.T) {
	broken := &brokenLogRepo{}
	e := newTestEnv(t, func(inner repository.StatusLogRepository) repository.StatusLogRepository {
		broken.StatusLogRepository = inner
		return broken
	})
	ctx := context.Background()

	cand := e.createCandidate(t)
	app := e.apply(t, cand.ID, e.createJob(t, "Backend Engineer").ID)
	iv := e.schedule(t, app.ID, "Final Round")

	require.Equal(t, domain.ApplicationInterviewScheduled, e.applicationStatus(t, app.ID))
	require.Equal(t, domain.CandidateInProcess, e.candidateStatus(t, cand.ID))
	before := len(e.auditTrail(t))

	broken.fail = true
	_, err := e.recruitment.CompleteInterview(ctx, e.actor, iv.ID, &dto.CompleteInterviewRequest{Result: string(domain.ResultPass)})
	require.ErrorIs(t, err, errLogUnavailable)
	broken.fail = false

	got, err := e.recruitment.GetInterview(ctx, e.actor, iv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewScheduled, got.Status)
	assert.Nil(t, got.Result)

	assert.Equal(t, domain.ApplicationInterviewScheduled, e.applicationStatus(t, app.ID))
	assert.Equal(t, domain.CandidateInProcess, e.candidateStatus(t, cand.ID))
	assert.Len(t, e.auditTrail(t), before)

	// После восстановления журнала то же завершение проходит целиком
	e.complete(t, iv.ID, domain.ResultPass)
	assert.Equal(t, domain.ApplicationSelected, e.applicationStatus(t, app.ID))
	assert.Equal(t, domain.CandidateSelected, e.candidateStatus(t, cand.ID))
}
