package service_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/repository"
	"github.com/hr-admin-api/internal/service"
	"github.com/hr-admin-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const systemUserID int64 = 1000

type testEnv struct {
	db     *gorm.DB
	tenant *testutil.Tenant
	actor  domain.Actor
	logOut *bytes.Buffer

	appRepo  repository.ApplicationRepository
	candRepo repository.CandidateRepository

	perms       service.PermissionService
	sync        service.StatusSyncService
	logs        service.StatusLogService
	recruitment service.RecruitmentService
	positions   service.PositionService
	employees   service.EmployeeService
	departments service.DepartmentService
}

// newTestEnv собирает сервисы поверх SQLite; wrapLogs подменяет репозиторий журнала
func newTestEnv(t *testing.T, wrapLogs ...func(repository.StatusLogRepository) repository.StatusLogRepository) *testEnv {
	t.Helper()

	db := testutil.OpenDB(t)
	logOut := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelWarn}))

	tx := repository.NewTransactor(db)
	deptRepo := repository.NewDepartmentRepository(db)
	desigRepo := repository.NewDesignationRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	posRepo := repository.NewPositionRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	jobRepo := repository.NewJobPositionRepository(db)
	candRepo := repository.NewCandidateRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	ivRepo := repository.NewInterviewRepository(db)
	logRepo := repository.NewStatusLogRepository(db)
	for _, wrap := range wrapLogs {
		logRepo = wrap(logRepo)
	}

	logs := service.NewStatusLogService(logRepo)
	validator := service.NewPositionValidator(posRepo, empRepo, logger)
	sync := service.NewStatusSyncService(tx, appRepo, candRepo, ivRepo, logs, systemUserID, logger)

	tenant := testutil.SeedTenant(t, db)

	return &testEnv{
		db:          db,
		tenant:      tenant,
		actor:       tenant.Actor(),
		logOut:      logOut,
		appRepo:     appRepo,
		candRepo:    candRepo,
		perms:       service.NewPermissionService(orgRepo, logger),
		sync:        sync,
		logs:        logs,
		recruitment: service.NewRecruitmentService(tx, jobRepo, candRepo, appRepo, ivRepo, sync),
		positions:   service.NewPositionService(tx, posRepo, deptRepo, desigRepo, empRepo, validator),
		employees:   service.NewEmployeeService(tx, empRepo, deptRepo, desigRepo, orgRepo, validator, logger),
		departments: service.NewDepartmentService(tx, deptRepo, empRepo, posRepo, desigRepo),
	}
}

// ---- Подбор ----

func (e *testEnv) createCandidate(t *testing.T) *domain.Candidate {
	t.Helper()
	cand, err := e.recruitment.CreateCandidate(context.Background(), e.actor, &dto.CreateCandidateRequest{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
	})
	require.NoError(t, err)
	return cand
}

func (e *testEnv) createJob(t *testing.T, title string) *domain.JobPosition {
	t.Helper()
	job, err := e.recruitment.CreateJobPosition(context.Background(), e.actor, &dto.CreateJobPositionRequest{
		Title:    title,
		Openings: 1,
	})
	require.NoError(t, err)
	return job
}

func (e *testEnv) apply(t *testing.T, candidateID, jobID int64) *domain.Application {
	t.Helper()
	app, err := e.recruitment.CreateApplication(context.Background(), e.actor, &dto.CreateApplicationRequest{
		CandidateID:   candidateID,
		JobPositionID: jobID,
	})
	require.NoError(t, err)
	return app
}

func (e *testEnv) schedule(t *testing.T, applicationID int64, round string) *domain.InterviewSchedule {
	t.Helper()
	iv, err := e.recruitment.ScheduleInterview(context.Background(), e.actor, &dto.ScheduleInterviewRequest{
		ApplicationID: applicationID,
		RoundName:     round,
		ScheduledAt:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	return iv
}

func (e *testEnv) complete(t *testing.T, interviewID int64, result domain.InterviewResult) {
	t.Helper()
	_, err := e.recruitment.CompleteInterview(context.Background(), e.actor, interviewID, &dto.CompleteInterviewRequest{
		Result: string(result),
	})
	require.NoError(t, err)
}

func (e *testEnv) applicationStatus(t *testing.T, id int64) domain.ApplicationStatus {
	t.Helper()
	app, err := e.appRepo.GetByID(context.Background(), e.tenant.Org.ID, id, false)
	require.NoError(t, err)
	return app.Status
}

func (e *testEnv) candidateStatus(t *testing.T, id int64) domain.CandidateStatus {
	t.Helper()
	cand, err := e.candRepo.GetByID(context.Background(), e.tenant.Org.ID, id, false)
	require.NoError(t, err)
	return cand.Status
}

// auditTrail возвращает все записи журнала организации в порядке записи
func (e *testEnv) auditTrail(t *testing.T) []domain.StatusChangeLog {
	t.Helper()
	var list []domain.StatusChangeLog
	require.NoError(t, e.db.Where("organization_id = ?", e.tenant.Org.ID).Order("id ASC").Find(&list).Error)
	return list
}

// ---- Оргструктура ----

type orgFixture struct {
	dept  *domain.Department
	desig *domain.Designation
}

func (e *testEnv) createOrgFixture(t *testing.T) orgFixture {
	t.Helper()
	ctx := context.Background()

	dept, err := e.departments.Create(ctx, e.actor, &dto.CreateDepartmentRequest{Name: "Engineering"})
	require.NoError(t, err)
	desig, err := e.departments.CreateDesignation(ctx, e.actor, &dto.CreateDesignationRequest{Name: "Engineer"})
	require.NoError(t, err)

	return orgFixture{dept: dept, desig: desig}
}

func (e *testEnv) createPosition(t *testing.T, f orgFixture, title string, headCount int, reportsTo *int64) *domain.OrganizationalPosition {
	t.Helper()
	pos, err := e.positions.Create(context.Background(), e.actor, &dto.CreatePositionRequest{
		Title:               title,
		DepartmentID:        f.dept.ID,
		DesignationID:       f.desig.ID,
		ReportingPositionID: reportsTo,
		HeadCount:           headCount,
	})
	require.NoError(t, err)
	return pos
}

func (e *testEnv) createEmployee(ctx context.Context, code string, positionID *int64) (*domain.Employee, error) {
	return e.employees.Create(ctx, e.actor, &dto.CreateEmployeeRequest{
		EmployeeCode:             code,
		FullName:                 "Employee " + code,
		OrganizationalPositionID: positionID,
	})
}

func testPlan(t *testing.T, e *testEnv, maxEmployees int) *domain.SubscriptionPlan {
	t.Helper()
	return testutil.CreatePlan(t, e.db, maxEmployees, testutil.AllModules...)
}
