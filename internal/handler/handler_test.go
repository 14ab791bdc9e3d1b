package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/hr-admin-api/internal/auth"
	"github.com/hr-admin-api/internal/config"
	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/handler"
	"github.com/hr-admin-api/internal/middleware"
	"github.com/hr-admin-api/internal/repository"
	"github.com/hr-admin-api/internal/service"
	"github.com/hr-admin-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

type testServer struct {
	server *httptest.Server
	db     *gorm.DB
	tokens *auth.TokenManager
	tenant *testutil.Tenant
	token  string
}

func setupTestServer(t *testing.T, limiter middleware.Limiter) *testServer {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	db := testutil.OpenDB(t)

	cfg := &config.Config{
		Server: config.ServerConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{
			Enabled:  limiter != nil,
			Requests: 3,
			Window:   time.Minute,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	tx := repository.NewTransactor(db)
	deptRepo := repository.NewDepartmentRepository(db)
	desigRepo := repository.NewDesignationRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	posRepo := repository.NewPositionRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	candRepo := repository.NewCandidateRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	ivRepo := repository.NewInterviewRepository(db)

	perms := service.NewPermissionService(orgRepo, logger)
	logs := service.NewStatusLogService(repository.NewStatusLogRepository(db))
	validator := service.NewPositionValidator(posRepo, empRepo, logger)
	sync := service.NewStatusSyncService(tx, appRepo, candRepo, ivRepo, logs, 1, logger)

	handlers := handler.Handlers{
		Department: handler.NewDepartmentHandler(
			service.NewDepartmentService(tx, deptRepo, empRepo, posRepo, desigRepo), perms, logger),
		Position: handler.NewPositionHandler(
			service.NewPositionService(tx, posRepo, deptRepo, desigRepo, empRepo, validator), perms, logger),
		Employee: handler.NewEmployeeHandler(
			service.NewEmployeeService(tx, empRepo, deptRepo, desigRepo, orgRepo, validator, logger), perms, logger),
		Recruitment: handler.NewRecruitmentHandler(
			service.NewRecruitmentService(tx, repository.NewJobPositionRepository(db), candRepo, appRepo, ivRepo, sync), perms, logger),
		StatusLog: handler.NewStatusLogHandler(logs, perms, logger),
		Admin:     handler.NewAdminHandler(service.NewOrganizationService(orgRepo), perms, logger),
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	router := handler.NewRouter(cfg, handlers, perms, tokens, limiter, logger)

	ts := &testServer{
		server: httptest.NewServer(router.Setup()),
		db:     db,
		tokens: tokens,
		tenant: testutil.SeedTenant(t, db),
	}
	ts.token = ts.tokenFor(t, ts.tenant.User)
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, err := ts.tokens.Generate(user.ID, user.OrganizationID)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp, err := http.Get(ts.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp, err := http.Get(ts.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthentication(t *testing.T) {
	ts := setupTestServer(t, nil)

	status, env := ts.do(t, http.MethodGet, "/api/departments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = ts.do(t, http.MethodGet, "/api/departments", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = ts.do(t, http.MethodGet, "/api/departments", ts.token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestPermissionDenied(t *testing.T) {
	ts := setupTestServer(t, nil)
	org := ts.tenant.Org

	role := testutil.CreateRole(t, ts.db, org.ID, false, testutil.ReadOnly(domain.ModuleCandidates)...)
	reader := ts.tokenFor(t, testutil.CreateUser(t, ts.db, org.ID, &role.ID))

	status, _ := ts.do(t, http.MethodGet, "/api/candidates", reader, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := ts.do(t, http.MethodPost, "/api/candidates", reader, map[string]any{
		"full_name": "Denied",
		"email":     "denied@example.com",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "permission denied", env.Message)

	status, _ = ts.do(t, http.MethodGet, "/api/employees", reader, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = ts.do(t, http.MethodGet, "/api/admin/organizations", ts.token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAdminOrganizations(t *testing.T) {
	ts := setupTestServer(t, nil)

	admin := testutil.CreateUser(t, ts.db, ts.tenant.Org.ID, nil)
	require.NoError(t, ts.db.Model(admin).Update("is_super_admin", true).Error)

	status, env := ts.do(t, http.MethodGet, "/api/admin/organizations", ts.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, status)

	orgs := decodeData[[]dto.OrganizationResponse](t, env)
	require.Len(t, orgs, 1)
	assert.Equal(t, ts.tenant.Org.ID, orgs[0].ID)
}

func TestAuditFieldsVisibility(t *testing.T) {
	ts := setupTestServer(t, nil)
	org := ts.tenant.Org

	status, env := ts.do(t, http.MethodPost, "/api/departments", ts.token, map[string]any{"name": "Audit"})
	require.Equal(t, http.StatusCreated, status)
	created := decodeData[map[string]any](t, env)
	assert.EqualValues(t, ts.tenant.User.ID, created["created_by"])

	role := testutil.CreateRole(t, ts.db, org.ID, false, testutil.ReadOnly(domain.ModuleDepartments)...)
	viewer := ts.tokenFor(t, testutil.CreateUser(t, ts.db, org.ID, &role.ID))

	id := int64(created["id"].(float64))
	status, env = ts.do(t, http.MethodGet, idPath("/api/departments", id, ""), viewer, nil)
	require.Equal(t, http.StatusOK, status)
	hidden := decodeData[map[string]any](t, env)
	assert.NotContains(t, hidden, "created_by")
	assert.NotContains(t, hidden, "updated_by")
	assert.Equal(t, "Audit", hidden["name"])
}

func TestDepartmentFlow(t *testing.T) {
	ts := setupTestServer(t, nil)

	status, env := ts.do(t, http.MethodPost, "/api/departments", ts.token, map[string]any{"name": "Parent"})
	require.Equal(t, http.StatusCreated, status)
	parent := decodeData[dto.DepartmentResponse](t, env)

	status, _ = ts.do(t, http.MethodPost, "/api/departments", ts.token, map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = ts.do(t, http.MethodPost, "/api/departments", ts.token, map[string]any{"name": "Child", "parent_id": parent.ID})
	require.Equal(t, http.StatusCreated, status)
	child := decodeData[dto.DepartmentResponse](t, env)

	status, _ = ts.do(t, http.MethodPost, "/api/departments", ts.token, map[string]any{"name": "Child", "parent_id": parent.ID})
	assert.Equal(t, http.StatusConflict, status)

	status, env = ts.do(t, http.MethodGet, idPath("/api/departments", parent.ID, "?depth=2"), ts.token, nil)
	require.Equal(t, http.StatusOK, status)
	tree := decodeData[dto.DepartmentResponse](t, env)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, child.ID, tree.Children[0].ID)

	status, _ = ts.do(t, http.MethodPatch, idPath("/api/departments", parent.ID, ""), ts.token, map[string]any{"parent_id": child.ID})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = ts.do(t, http.MethodDelete, idPath("/api/departments", parent.ID, "?mode=unknown"), ts.token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.do(t, http.MethodDelete, idPath("/api/departments", parent.ID, "?mode=cascade"), ts.token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = ts.do(t, http.MethodGet, idPath("/api/departments", child.ID, ""), ts.token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = ts.do(t, http.MethodGet, "/api/departments/abc", ts.token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPositionHeadcountConflict(t *testing.T) {
	ts := setupTestServer(t, nil)

	_, env := ts.do(t, http.MethodPost, "/api/departments", ts.token, map[string]any{"name": "Eng"})
	dept := decodeData[dto.DepartmentResponse](t, env)
	_, env = ts.do(t, http.MethodPost, "/api/designations", ts.token, map[string]any{"name": "Engineer"})
	desig := decodeData[dto.DesignationResponse](t, env)

	status, env := ts.do(t, http.MethodPost, "/api/positions", ts.token, map[string]any{
		"title":          "Solo",
		"department_id":  dept.ID,
		"designation_id": desig.ID,
		"head_count":     1,
	})
	require.Equal(t, http.StatusCreated, status)
	pos := decodeData[dto.PositionResponse](t, env)

	status, _ = ts.do(t, http.MethodPost, "/api/employees", ts.token, map[string]any{
		"employee_code":              "E1",
		"full_name":                  "First",
		"organizational_position_id": pos.ID,
	})
	require.Equal(t, http.StatusCreated, status)

	status, env = ts.do(t, http.MethodPost, "/api/employees", ts.token, map[string]any{
		"employee_code":              "E2",
		"full_name":                  "Second",
		"organizational_position_id": pos.ID,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, env.Message, `"Solo"`)

	status, _ = ts.do(t, http.MethodPost, "/api/positions", ts.token, map[string]any{
		"title":          "Broken",
		"department_id":  dept.ID,
		"designation_id": desig.ID,
		"head_count":     0,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.do(t, http.MethodDelete, idPath("/api/positions", pos.ID, ""), ts.token, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestRecruitmentFlow(t *testing.T) {
	ts := setupTestServer(t, nil)

	status, env := ts.do(t, http.MethodPost, "/api/job-positions", ts.token, map[string]any{"title": "Go Developer", "openings": 2})
	require.Equal(t, http.StatusCreated, status)
	job := decodeData[dto.JobPositionResponse](t, env)
	assert.Equal(t, "Open", job.Status)

	status, env = ts.do(t, http.MethodPost, "/api/candidates", ts.token, map[string]any{"full_name": "Ann Lee", "email": "ann@example.com"})
	require.Equal(t, http.StatusCreated, status)
	cand := decodeData[dto.CandidateResponse](t, env)
	assert.Equal(t, "New", cand.Status)

	status, env = ts.do(t, http.MethodPost, "/api/applications", ts.token, map[string]any{"candidate_id": cand.ID, "job_position_id": job.ID})
	require.Equal(t, http.StatusCreated, status)
	app := decodeData[dto.ApplicationResponse](t, env)

	status, _ = ts.do(t, http.MethodPost, "/api/applications", ts.token, map[string]any{"candidate_id": cand.ID, "job_position_id": job.ID})
	assert.Equal(t, http.StatusConflict, status)

	status, env = ts.do(t, http.MethodPost, "/api/interviews", ts.token, map[string]any{
		"application_id": app.ID,
		"round_name":     "Final Round",
		"scheduled_at":   time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, status)
	iv := decodeData[dto.InterviewResponse](t, env)

	status, _ = ts.do(t, http.MethodPost, idPath("/api/interviews", iv.ID, "/complete"), ts.token, map[string]any{"result": "Great"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = ts.do(t, http.MethodPost, idPath("/api/interviews", iv.ID, "/complete"), ts.token, map[string]any{"result": "Pass"})
	require.Equal(t, http.StatusOK, status)

	status, env = ts.do(t, http.MethodGet, idPath("/api/candidates", cand.ID, ""), ts.token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Selected", decodeData[dto.CandidateResponse](t, env).Status)

	status, env = ts.do(t, http.MethodGet, idPath("/api/applications", app.ID, "/status-history"), ts.token, nil)
	require.Equal(t, http.StatusOK, status)
	history := decodeData[[]dto.StatusLogResponse](t, env)
	require.Len(t, history, 2)
	assert.Equal(t, "Interview Scheduled", history[0].NewStatus)
	assert.Equal(t, "Selected", history[1].NewStatus)
	assert.True(t, history[1].IsAutomatic)

	status, env = ts.do(t, http.MethodGet, "/api/status-logs?correlation_id="+history[1].CorrelationID, ts.token, nil)
	require.Equal(t, http.StatusOK, status)
	cascade := decodeData[dto.ListResponse[dto.StatusLogResponse]](t, env)
	assert.EqualValues(t, 2, cascade.Total)

	status, _ = ts.do(t, http.MethodGet, "/api/status-logs?entity_type=Employee", ts.token, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = ts.do(t, http.MethodPatch, idPath("/api/candidates", cand.ID, "/status"), ts.token, map[string]any{"status": "On Hold"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "On Hold", decodeData[dto.CandidateResponse](t, env).Status)

	status, env = ts.do(t, http.MethodPost, idPath("/api/candidates", cand.ID, "/recompute"), ts.token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Selected", decodeData[dto.CandidateResponse](t, env).Status)

	status, _ = ts.do(t, http.MethodPatch, idPath("/api/applications", app.ID, "/status"), ts.token, map[string]any{"status": "Hired"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRateLimit(t *testing.T) {
	ts := setupTestServer(t, middleware.NewMemoryLimiter())

	for n := 0; n < 3; n++ {
		status, _ := ts.do(t, http.MethodGet, "/api/departments", ts.token, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, env := ts.do(t, http.MethodGet, "/api/departments", ts.token, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.False(t, env.Success)
}

func TestRateLimit_IgnoresForwardedForWithoutTrustedProxy(t *testing.T) {
	ts := setupTestServer(t, middleware.NewMemoryLimiter())

	statuses := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req, err := http.NewRequest(http.MethodGet, ts.server.URL+"/api/departments", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+ts.token)
		req.Header.Set("X-Forwarded-For", "1.2.3."+strconv.Itoa(i))

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{
		http.StatusOK, http.StatusOK, http.StatusOK,
		http.StatusTooManyRequests, http.StatusTooManyRequests,
	}, statuses)
}
