package service

import (
	"context"
	"log/slog"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/metrics"
	"github.com/hr-admin-api/internal/repository"
)

// PermissionService определяет интерфейс проверки прав.
// Методы никогда не возвращают ошибку: любая неудача означает отказ.
type PermissionService interface {
	Allowed(ctx context.Context, actor domain.Actor, orgID int64, module domain.ModuleCode, action domain.Action) bool
	CanViewAuditInfo(ctx context.Context, actor domain.Actor) bool
	IsSuperAdmin(ctx context.Context, actor domain.Actor) bool
}

type permissionService struct {
	orgRepo repository.OrganizationRepository
	logger  *slog.Logger
}

// NewPermissionService создаёт новый экземпляр сервиса
func NewPermissionService(orgRepo repository.OrganizationRepository, logger *slog.Logger) PermissionService {
	return &permissionService{
		orgRepo: orgRepo,
		logger:  logger,
	}
}

func (s *permissionService) Allowed(ctx context.Context, actor domain.Actor, orgID int64, module domain.ModuleCode, action domain.Action) bool {
	allowed := s.allowed(ctx, actor, orgID, module, action)
	if !allowed {
		metrics.RecordPermissionDenial(string(module), string(action))
	}
	return allowed
}

func (s *permissionService) allowed(ctx context.Context, actor domain.Actor, orgID int64, module domain.ModuleCode, action domain.Action) bool {
	user := s.activeUser(ctx, actor)
	if user == nil || user.OrganizationID != orgID || user.RoleID == nil {
		return false
	}

	// Модуль должен входить в тариф организации; организация без тарифа не ограничена
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		s.logger.Error("permission check: failed to load organization",
			"org_id", orgID,
			"error", err,
		)
		return false
	}
	if !org.IsActive {
		return false
	}
	if org.SubscriptionPlan != nil && !org.SubscriptionPlan.HasModule(module) {
		return false
	}

	perm, err := s.orgRepo.GetRolePermission(ctx, *user.RoleID, module)
	if err != nil {
		s.logger.Error("permission check: failed to load role permission",
			"role_id", *user.RoleID,
			"module", module,
			"error", err,
		)
		return false
	}
	if perm == nil {
		return false
	}
	return perm.Grants(action)
}

func (s *permissionService) CanViewAuditInfo(ctx context.Context, actor domain.Actor) bool {
	user := s.activeUser(ctx, actor)
	if user == nil {
		return false
	}
	if user.IsSuperAdmin {
		return true
	}
	return user.Role != nil && user.Role.CanViewAuditInfo
}

func (s *permissionService) IsSuperAdmin(ctx context.Context, actor domain.Actor) bool {
	user := s.activeUser(ctx, actor)
	return user != nil && user.IsSuperAdmin
}

func (s *permissionService) activeUser(ctx context.Context, actor domain.Actor) *domain.User {
	if actor.UserID == 0 {
		return nil
	}
	user, err := s.orgRepo.GetUser(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("permission check: failed to load user",
			"user_id", actor.UserID,
			"error", err,
		)
		return nil
	}
	if user == nil || !user.IsActive {
		return nil
	}
	return user
}
