package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hr-admin-api/internal/auth"
	"github.com/hr-admin-api/internal/config"
	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/middleware"
	"github.com/hr-admin-api/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers - набор обработчиков API
type Handlers struct {
	Department  *DepartmentHandler
	Position    *PositionHandler
	Employee    *EmployeeHandler
	Recruitment *RecruitmentHandler
	StatusLog   *StatusLogHandler
	Admin       *AdminHandler
}

// Router настраивает маршруты API
type Router struct {
	cfg      *config.Config
	handlers Handlers
	perms    service.PermissionService
	tokens   *auth.TokenManager
	limiter  middleware.Limiter
	logger   *slog.Logger
}

// NewRouter создаёт новый роутер; limiter может быть nil
func NewRouter(
	cfg *config.Config,
	handlers Handlers,
	perms service.PermissionService,
	tokens *auth.TokenManager,
	limiter middleware.Limiter,
	logger *slog.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		handlers: handlers,
		perms:    perms,
		tokens:   tokens,
		limiter:  limiter,
		logger:   logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	// Адрес из заголовков прокси принимается только за доверенным прокси
	if rt.cfg.RateLimit.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recoverer(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if rt.cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(rt.cfg.Server.RequestTimeout))
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if rt.cfg.Metrics.Enabled {
		r.Handle(rt.cfg.Metrics.Path, promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.ContentType)
		if rt.cfg.RateLimit.Enabled && rt.limiter != nil {
			r.Use(middleware.RateLimit(rt.limiter, middleware.ClientIP(rt.cfg.RateLimit.TrustProxy), rt.cfg.RateLimit.Requests, rt.cfg.RateLimit.Window))
		}
		r.Use(middleware.Authenticate(rt.tokens))

		rt.departmentRoutes(r)
		rt.positionRoutes(r)
		rt.employeeRoutes(r)
		rt.recruitmentRoutes(r)

		r.With(rt.can(domain.ModuleStatusLogs, domain.ActionRead)).Get("/status-logs", rt.handlers.StatusLog.Query)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireSuperAdmin(rt.perms))
			r.Get("/organizations", rt.handlers.Admin.ListOrganizations)
		})
	})

	return r
}

func (rt *Router) can(module domain.ModuleCode, action domain.Action) func(http.Handler) http.Handler {
	return middleware.RequirePermission(rt.perms, module, action)
}

func (rt *Router) departmentRoutes(r chi.Router) {
	h := rt.handlers.Department
	const m = domain.ModuleDepartments

	r.Route("/departments", func(r chi.Router) {
		r.With(rt.can(m, domain.ActionWrite)).Post("/", h.Create)
		r.With(rt.can(m, domain.ActionRead)).Get("/", h.List)
		r.With(rt.can(m, domain.ActionRead)).Get("/{id}", h.GetByID)
		r.With(rt.can(m, domain.ActionUpdate)).Patch("/{id}", h.Update)
		r.With(rt.can(m, domain.ActionDelete)).Delete("/{id}", h.Delete)
	})

	r.Route("/designations", func(r chi.Router) {
		r.With(rt.can(domain.ModuleDesignations, domain.ActionWrite)).Post("/", h.CreateDesignation)
		r.With(rt.can(domain.ModuleDesignations, domain.ActionRead)).Get("/", h.ListDesignations)
	})
}

func (rt *Router) positionRoutes(r chi.Router) {
	h := rt.handlers.Position
	const m = domain.ModulePositions

	r.Route("/positions", func(r chi.Router) {
		r.With(rt.can(m, domain.ActionWrite)).Post("/", h.Create)
		r.With(rt.can(m, domain.ActionRead)).Get("/", h.List)
		r.With(rt.can(m, domain.ActionRead)).Get("/{id}", h.GetByID)
		r.With(rt.can(m, domain.ActionUpdate)).Patch("/{id}", h.Update)
		r.With(rt.can(m, domain.ActionDelete)).Delete("/{id}", h.Delete)
		r.With(rt.can(m, domain.ActionRead)).Get("/{id}/employees", h.ListEmployees)
	})
}

func (rt *Router) employeeRoutes(r chi.Router) {
	h := rt.handlers.Employee
	const m = domain.ModuleEmployees

	r.Route("/employees", func(r chi.Router) {
		r.With(rt.can(m, domain.ActionWrite)).Post("/", h.Create)
		r.With(rt.can(m, domain.ActionRead)).Get("/", h.List)
		r.With(rt.can(m, domain.ActionRead)).Get("/{id}", h.GetByID)
		r.With(rt.can(m, domain.ActionUpdate)).Patch("/{id}", h.Update)
		r.With(rt.can(m, domain.ActionDelete)).Delete("/{id}", h.Delete)
	})
}

func (rt *Router) recruitmentRoutes(r chi.Router) {
	h := rt.handlers.Recruitment
	logs := rt.handlers.StatusLog

	r.Route("/job-positions", func(r chi.Router) {
		const m = domain.ModuleJobPositions
		r.With(rt.can(m, domain.ActionWrite)).Post("/", h.CreateJobPosition)
		r.With(rt.can(m, domain.ActionRead)).Get("/", h.ListJobPositions)
		r.With(rt.can(m, domain.ActionRead)).Get("/{id}", h.GetJobPosition)
	})

	r.Route("/candidates", func(r chi.Router) {
		const m = domain.ModuleCandidates
		r.With(rt.can(m, domain.ActionWrite)).Post("/", h.CreateCandidate)
		r.With(rt.can(m, domain.ActionRead)).Get("/", h.ListCandidates)
		r.With(rt.can(m, domain.ActionRead)).Get("/{id}", h.GetCandidate)
		r.With(rt.can(m, domain.ActionUpdate)).Patch("/{id}", h.UpdateCandidate)
		r.With(rt.can(m, domain.ActionDelete)).Delete("/{id}", h.DeleteCandidate)
		r.With(rt.can(m, domain.ActionApprove)).Patch("/{id}/status", h.SetCandidateStatus)
		r.With(rt.can(m, domain.ActionUpdate)).Post("/{id}/recompute", h.RecomputeCandidate)
		r.With(rt.can(domain.ModuleStatusLogs, domain.ActionRead)).
			Get("/{id}/status-history", logs.History(domain.EntityCandidate))
	})

	r.Route("/applications", func(r chi.Router) {
		const m = domain.ModuleApplications
		r.With(rt.can(m, domain.ActionWrite)).Post("/", h.CreateApplication)
		r.With(rt.can(m, domain.ActionRead)).Get("/", h.ListApplications)
		r.With(rt.can(m, domain.ActionRead)).Get("/{id}", h.GetApplication)
		r.With(rt.can(m, domain.ActionDelete)).Delete("/{id}", h.DeleteApplication)
		r.With(rt.can(m, domain.ActionApprove)).Patch("/{id}/status", h.SetApplicationStatus)
		r.With(rt.can(domain.ModuleStatusLogs, domain.ActionRead)).
			Get("/{id}/status-history", logs.History(domain.EntityApplication))
	})

	r.Route("/interviews", func(r chi.Router) {
		const m = domain.ModuleInterviews
		r.With(rt.can(m, domain.ActionWrite)).Post("/", h.ScheduleInterview)
		r.With(rt.can(m, domain.ActionRead)).Get("/", h.ListInterviews)
		r.With(rt.can(m, domain.ActionRead)).Get("/{id}", h.GetInterview)
		r.With(rt.can(m, domain.ActionUpdate)).Post("/{id}/complete", h.CompleteInterview)
		r.With(rt.can(m, domain.ActionUpdate)).Post("/{id}/cancel", h.CancelInterview)
		r.With(rt.can(domain.ModuleStatusLogs, domain.ActionRead)).
			Get("/{id}/status-history", logs.History(domain.EntityInterview))
	})
}
