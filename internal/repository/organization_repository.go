package repository

import (
	"context"
	"errors"

	"github.com/hr-admin-api/internal/domain"
	"gorm.io/gorm"
)

// OrganizationRepository определяет интерфейс для организаций, пользователей и ролей
type OrganizationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetRolePermission(ctx context.Context, roleID int64, module domain.ModuleCode) (*domain.RolePermission, error)
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository создаёт новый экземпляр репозитория
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) GetByID(ctx context.Context, id int64) (*domain.Organization, error) {
	var org domain.Organization
	err := conn(ctx, r.db).
		Preload("SubscriptionPlan.Modules").
		First(&org, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) List(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	err := conn(ctx, r.db).
		Preload("SubscriptionPlan.Modules").
		Order("id ASC").
		Find(&orgs).Error
	return orgs, err
}

// GetUser возвращает пользователя вместе с ролью; nil без ошибки, если его нет
func (r *organizationRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := conn(ctx, r.db).Preload("Role").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetRolePermission возвращает флаги роли для модуля; nil без ошибки, если записи нет
func (r *organizationRepository) GetRolePermission(ctx context.Context, roleID int64, module domain.ModuleCode) (*domain.RolePermission, error) {
	var perm domain.RolePermission
	err := conn(ctx, r.db).
		Where("role_id = ? AND module_code = ?", roleID, module).
		First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}
