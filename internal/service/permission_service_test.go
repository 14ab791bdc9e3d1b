package service_test

import (
	"context"
	"testing"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermission_RoleFlags(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	org := e.tenant.Org

	role := testutil.CreateRole(t, e.db, org.ID, false, testutil.ReadOnly(domain.ModuleCandidates)...)
	user := testutil.CreateUser(t, e.db, org.ID, &role.ID)
	actor := domain.Actor{UserID: user.ID, OrganizationID: org.ID}

	assert.True(t, e.perms.Allowed(ctx, actor, org.ID, domain.ModuleCandidates, domain.ActionRead))
	assert.False(t, e.perms.Allowed(ctx, actor, org.ID, domain.ModuleCandidates, domain.ActionWrite))
	assert.False(t, e.perms.Allowed(ctx, actor, org.ID, domain.ModuleCandidates, domain.ActionApprove))
	assert.False(t, e.perms.Allowed(ctx, actor, org.ID, domain.ModuleEmployees, domain.ActionRead))

	// Пользователь не может действовать в чужой организации
	assert.False(t, e.perms.Allowed(ctx, actor, org.ID+1, domain.ModuleCandidates, domain.ActionRead))

	assert.False(t, e.perms.CanViewAuditInfo(ctx, actor))
	assert.True(t, e.perms.CanViewAuditInfo(ctx, e.actor))
}

func TestPermission_PlanGating(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	plan := testutil.CreatePlan(t, e.db, 0, domain.ModuleDepartments, domain.ModuleEmployees)
	org := testutil.CreateOrganization(t, e.db, &plan.ID)
	role := testutil.CreateRole(t, e.db, org.ID, false, testutil.FullAccess(testutil.AllModules...)...)
	user := testutil.CreateUser(t, e.db, org.ID, &role.ID)
	actor := domain.Actor{UserID: user.ID, OrganizationID: org.ID}

	assert.True(t, e.perms.Allowed(ctx, actor, org.ID, domain.ModuleEmployees, domain.ActionDelete))
	assert.False(t, e.perms.Allowed(ctx, actor, org.ID, domain.ModuleCandidates, domain.ActionRead))
}

func TestPermission_InactiveAndRoleless(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	org := e.tenant.Org

	roleless := testutil.CreateUser(t, e.db, org.ID, nil)
	assert.False(t, e.perms.Allowed(ctx, domain.Actor{UserID: roleless.ID, OrganizationID: org.ID}, org.ID, domain.ModuleCandidates, domain.ActionRead))

	inactive := testutil.CreateUser(t, e.db, org.ID, &e.tenant.Role.ID)
	require.NoError(t, e.db.Model(inactive).Update("is_active", false).Error)
	assert.False(t, e.perms.Allowed(ctx, domain.Actor{UserID: inactive.ID, OrganizationID: org.ID}, org.ID, domain.ModuleCandidates, domain.ActionRead))

	assert.False(t, e.perms.Allowed(ctx, domain.Actor{OrganizationID: org.ID}, org.ID, domain.ModuleCandidates, domain.ActionRead))
	assert.False(t, e.perms.Allowed(ctx, domain.Actor{UserID: 9999, OrganizationID: org.ID}, org.ID, domain.ModuleCandidates, domain.ActionRead))

	require.NoError(t, e.db.Model(org).Update("is_active", false).Error)
	assert.False(t, e.perms.Allowed(ctx, e.actor, org.ID, domain.ModuleCandidates, domain.ActionRead))
}

func TestPermission_SuperAdmin(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	org := e.tenant.Org

	admin := testutil.CreateUser(t, e.db, org.ID, nil)
	require.NoError(t, e.db.Model(admin).Update("is_super_admin", true).Error)
	actor := domain.Actor{UserID: admin.ID, OrganizationID: org.ID}

	assert.True(t, e.perms.IsSuperAdmin(ctx, actor))
	assert.True(t, e.perms.CanViewAuditInfo(ctx, actor))
	// Флаг суперадминистратора не заменяет права роли
	assert.False(t, e.perms.Allowed(ctx, actor, org.ID, domain.ModuleCandidates, domain.ActionRead))

	assert.False(t, e.perms.IsSuperAdmin(ctx, e.actor))
}
