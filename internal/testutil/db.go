// Package testutil поднимает изолированную SQLite-базу со схемой приложения
// и заполняет её арендаторами, ролями и пользователями для тестов.
package testutil

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hr-admin-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var seq atomic.Int64

// OpenDB создаёт файл SQLite во временном каталоге теста и мигрирует все модели
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Models()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// AllModules - все модули системы
var AllModules = []domain.ModuleCode{
	domain.ModuleDepartments,
	domain.ModuleDesignations,
	domain.ModulePositions,
	domain.ModuleEmployees,
	domain.ModuleJobPositions,
	domain.ModuleCandidates,
	domain.ModuleApplications,
	domain.ModuleInterviews,
	domain.ModuleStatusLogs,
}

// FullAccess выдаёт все флаги на перечисленные модули
func FullAccess(modules ...domain.ModuleCode) []domain.RolePermission {
	perms := make([]domain.RolePermission, 0, len(modules))
	for _, m := range modules {
		perms = append(perms, domain.RolePermission{
			ModuleCode: m,
			CanRead:    true,
			CanWrite:   true,
			CanUpdate:  true,
			CanDelete:  true,
			CanExport:  true,
			CanApprove: true,
		})
	}
	return perms
}

// ReadOnly выдаёт только чтение на перечисленные модули
func ReadOnly(modules ...domain.ModuleCode) []domain.RolePermission {
	perms := make([]domain.RolePermission, 0, len(modules))
	for _, m := range modules {
		perms = append(perms, domain.RolePermission{ModuleCode: m, CanRead: true})
	}
	return perms
}

// CreatePlan создаёт тариф с указанными модулями
func CreatePlan(t *testing.T, db *gorm.DB, maxEmployees int, modules ...domain.ModuleCode) *domain.SubscriptionPlan {
	t.Helper()

	plan := &domain.SubscriptionPlan{
		Name:         fmt.Sprintf("plan-%d", seq.Add(1)),
		MaxEmployees: maxEmployees,
		MaxUsers:     100,
	}
	for _, m := range modules {
		plan.Modules = append(plan.Modules, domain.PlanModule{ModuleCode: m})
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

// CreateOrganization создаёт активную организацию; planID может быть nil
func CreateOrganization(t *testing.T, db *gorm.DB, planID *int64) *domain.Organization {
	t.Helper()

	org := &domain.Organization{
		Name:               fmt.Sprintf("org-%d", seq.Add(1)),
		SubscriptionPlanID: planID,
		IsActive:           true,
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

// CreateRole создаёт роль с набором прав
func CreateRole(t *testing.T, db *gorm.DB, orgID int64, canViewAudit bool, perms ...domain.RolePermission) *domain.Role {
	t.Helper()

	role := &domain.Role{
		OrganizationID:   orgID,
		Name:             fmt.Sprintf("role-%d", seq.Add(1)),
		CanViewAuditInfo: canViewAudit,
		Permissions:      perms,
	}
	require.NoError(t, db.Create(role).Error)
	return role
}

// CreateUser создаёт активного пользователя; roleID может быть nil
func CreateUser(t *testing.T, db *gorm.DB, orgID int64, roleID *int64) *domain.User {
	t.Helper()

	n := seq.Add(1)
	user := &domain.User{
		OrganizationID: orgID,
		RoleID:         roleID,
		Email:          fmt.Sprintf("user%d@example.com", n),
		FullName:       fmt.Sprintf("User %d", n),
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Tenant - организация с пользователем, которому доступно всё
type Tenant struct {
	Org  *domain.Organization
	Role *domain.Role
	User *domain.User
}

// Actor возвращает вызывающего пользователя арендатора
func (tn *Tenant) Actor() domain.Actor {
	return domain.Actor{UserID: tn.User.ID, OrganizationID: tn.Org.ID}
}

// SeedTenant создаёт организацию без тарифа и пользователя с полными правами
func SeedTenant(t *testing.T, db *gorm.DB) *Tenant {
	t.Helper()

	org := CreateOrganization(t, db, nil)
	role := CreateRole(t, db, org.ID, true, FullAccess(AllModules...)...)
	user := CreateUser(t, db, org.ID, &role.ID)
	return &Tenant{Org: org, Role: role, User: user}
}
