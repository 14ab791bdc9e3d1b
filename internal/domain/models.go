package domain

import (
	"time"
)

// SubscriptionPlan описывает тарифный план организации
type SubscriptionPlan struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	MaxEmployees int       `json:"max_employees" gorm:"not null"`
	MaxUsers     int       `json:"max_users" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Modules []PlanModule `json:"modules,omitempty" gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

// HasModule проверяет, входит ли модуль в тариф
func (p *SubscriptionPlan) HasModule(code ModuleCode) bool {
	for _, m := range p.Modules {
		if m.ModuleCode == code {
			return true
		}
	}
	return false
}

// PlanModule - модуль, доступный в тарифе
type PlanModule struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	PlanID     int64      `json:"plan_id" gorm:"not null;uniqueIndex:idx_plan_module"`
	ModuleCode ModuleCode `json:"module_code" gorm:"type:varchar(50);not null;uniqueIndex:idx_plan_module"`
}

// TableName задаёт имя таблицы для GORM
func (PlanModule) TableName() string {
	return "plan_modules"
}

// Organization представляет организацию (арендатора)
type Organization struct {
	ID                 int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name               string    `json:"name" gorm:"type:varchar(200);not null"`
	SubscriptionPlanID *int64    `json:"subscription_plan_id" gorm:"index"`
	IsActive           bool      `json:"is_active" gorm:"not null"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`

	SubscriptionPlan *SubscriptionPlan `json:"subscription_plan,omitempty" gorm:"foreignKey:SubscriptionPlanID"`
}

// TableName задаёт имя таблицы для GORM
func (Organization) TableName() string {
	return "organizations"
}

// Role - роль пользователя внутри организации
type Role struct {
	ID               int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID   int64  `json:"organization_id" gorm:"not null;index"`
	Name             string `json:"name" gorm:"type:varchar(100);not null"`
	CanViewAuditInfo bool   `json:"can_view_audit_info" gorm:"not null"`

	Permissions []RolePermission `json:"permissions,omitempty" gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (Role) TableName() string {
	return "roles"
}

// RolePermission - набор флагов роли для одного модуля
type RolePermission struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	RoleID     int64      `json:"role_id" gorm:"not null;uniqueIndex:idx_role_module"`
	ModuleCode ModuleCode `json:"module_code" gorm:"type:varchar(50);not null;uniqueIndex:idx_role_module"`
	CanRead    bool       `json:"can_read" gorm:"not null"`
	CanWrite   bool       `json:"can_write" gorm:"not null"`
	CanUpdate  bool       `json:"can_update" gorm:"not null"`
	CanDelete  bool       `json:"can_delete" gorm:"not null"`
	CanExport  bool       `json:"can_export" gorm:"not null"`
	CanApprove bool       `json:"can_approve" gorm:"not null"`
}

// TableName задаёт имя таблицы для GORM
func (RolePermission) TableName() string {
	return "role_permissions"
}

// Grants сообщает, разрешено ли действие этим набором флагов
func (p *RolePermission) Grants(action Action) bool {
	switch action {
	case ActionRead:
		return p.CanRead
	case ActionWrite:
		return p.CanWrite
	case ActionUpdate:
		return p.CanUpdate
	case ActionDelete:
		return p.CanDelete
	case ActionExport:
		return p.CanExport
	case ActionApprove:
		return p.CanApprove
	}
	return false
}

// User - пользователь системы
type User struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID int64     `json:"organization_id" gorm:"not null;index"`
	RoleID         *int64    `json:"role_id" gorm:"index"`
	Email          string    `json:"email" gorm:"type:varchar(200);not null;uniqueIndex"`
	FullName       string    `json:"full_name" gorm:"type:varchar(200);not null"`
	IsSuperAdmin   bool      `json:"is_super_admin" gorm:"not null"`
	IsActive       bool      `json:"is_active" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`

	Role *Role `json:"-" gorm:"foreignKey:RoleID"`
}

// TableName задаёт имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// Department представляет подразделение организации
type Department struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID int64     `json:"organization_id" gorm:"not null;index"`
	Name           string    `json:"name" gorm:"type:varchar(200);not null"`
	ParentID       *int64    `json:"parent_id" gorm:"index"`
	CreatedBy      *int64    `json:"created_by"`
	UpdatedBy      *int64    `json:"updated_by"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`

	Parent    *Department  `json:"-" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Children  []Department `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Employees []Employee   `json:"employees,omitempty" gorm:"foreignKey:DepartmentID"`
}

// TableName задаёт имя таблицы для GORM
func (Department) TableName() string {
	return "departments"
}

// Designation - должность (справочник)
type Designation struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID int64     `json:"organization_id" gorm:"not null;uniqueIndex:idx_designation_org_name"`
	Name           string    `json:"name" gorm:"type:varchar(200);not null;uniqueIndex:idx_designation_org_name"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (Designation) TableName() string {
	return "designations"
}

// OrganizationalPosition - штатная позиция с лимитом численности
type OrganizationalPosition struct {
	ID                  int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID      int64     `json:"organization_id" gorm:"not null;index"`
	Title               string    `json:"title" gorm:"type:varchar(200);not null"`
	DepartmentID        int64     `json:"department_id" gorm:"not null;index"`
	DesignationID       int64     `json:"designation_id" gorm:"not null;index"`
	ReportingPositionID *int64    `json:"reporting_position_id" gorm:"index"`
	HeadCount           int       `json:"head_count" gorm:"not null"`
	IsActive            bool      `json:"is_active" gorm:"not null"`
	CreatedBy           *int64    `json:"created_by"`
	UpdatedBy           *int64    `json:"updated_by"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	ReportingPosition *OrganizationalPosition `json:"-" gorm:"foreignKey:ReportingPositionID"`
}

// TableName задаёт имя таблицы для GORM
func (OrganizationalPosition) TableName() string {
	return "organizational_positions"
}

// Employee представляет сотрудника
type Employee struct {
	ID                       int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID           int64      `json:"organization_id" gorm:"not null;uniqueIndex:idx_employee_org_code"`
	EmployeeCode             string     `json:"employee_code" gorm:"type:varchar(50);not null;uniqueIndex:idx_employee_org_code"`
	FullName                 string     `json:"full_name" gorm:"type:varchar(200);not null"`
	Email                    string     `json:"email" gorm:"type:varchar(200)"`
	DepartmentID             *int64     `json:"department_id" gorm:"index"`
	DesignationID            *int64     `json:"designation_id" gorm:"index"`
	OrganizationalPositionID *int64     `json:"organizational_position_id" gorm:"index"`
	HiredAt                  *time.Time `json:"hired_at" gorm:"type:date"`
	CreatedBy                *int64     `json:"created_by"`
	UpdatedBy                *int64     `json:"updated_by"`
	CreatedAt                time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt                time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Contacts []EmployeeContact `json:"contacts,omitempty" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employees"
}

// EmployeeContact - контакт сотрудника для экстренной связи
type EmployeeContact struct {
	ID         int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	EmployeeID int64  `json:"employee_id" gorm:"not null;index"`
	Name       string `json:"name" gorm:"type:varchar(200);not null"`
	Relation   string `json:"relation" gorm:"type:varchar(100)"`
	Phone      string `json:"phone" gorm:"type:varchar(50);not null"`
}

// TableName задаёт имя таблицы для GORM
func (EmployeeContact) TableName() string {
	return "employee_contacts"
}

// JobPosition - открытая вакансия
type JobPosition struct {
	ID             int64             `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID int64             `json:"organization_id" gorm:"not null;index"`
	Title          string            `json:"title" gorm:"type:varchar(200);not null"`
	DepartmentID   *int64            `json:"department_id" gorm:"index"`
	Openings       int               `json:"openings" gorm:"not null"`
	Status         JobPositionStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedBy      *int64            `json:"created_by"`
	CreatedAt      time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (JobPosition) TableName() string {
	return "job_positions"
}

// Candidate - кандидат; статус выводится из статусов его заявок
type Candidate struct {
	ID             int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID int64           `json:"organization_id" gorm:"not null;index"`
	FullName       string          `json:"full_name" gorm:"type:varchar(200);not null"`
	Email          string          `json:"email" gorm:"type:varchar(200);not null"`
	Phone          string          `json:"phone" gorm:"type:varchar(50)"`
	Status         CandidateStatus `json:"status" gorm:"type:varchar(30);not null;index"`
	CreatedBy      *int64          `json:"created_by"`
	UpdatedBy      *int64          `json:"updated_by"`
	CreatedAt      time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"autoUpdateTime"`

	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (Candidate) TableName() string {
	return "candidates"
}

// Application - заявка кандидата на вакансию
type Application struct {
	ID             int64             `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID int64             `json:"organization_id" gorm:"not null;index"`
	CandidateID    int64             `json:"candidate_id" gorm:"not null;uniqueIndex:idx_application_candidate_job"`
	JobPositionID  int64             `json:"job_position_id" gorm:"not null;uniqueIndex:idx_application_candidate_job"`
	Status         ApplicationStatus `json:"status" gorm:"type:varchar(30);not null;index"`
	CreatedBy      *int64            `json:"created_by"`
	UpdatedBy      *int64            `json:"updated_by"`
	CreatedAt      time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time         `json:"updated_at" gorm:"autoUpdateTime"`

	Interviews []InterviewSchedule `json:"interviews,omitempty" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
}

// TableName задаёт имя таблицы для GORM
func (Application) TableName() string {
	return "applications"
}

// InterviewSchedule - раунд собеседования по заявке
type InterviewSchedule struct {
	ID             int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID int64            `json:"organization_id" gorm:"not null;index"`
	ApplicationID  int64            `json:"application_id" gorm:"not null;index"`
	RoundName      string           `json:"round_name" gorm:"type:varchar(100);not null"`
	ScheduledAt    time.Time        `json:"scheduled_at" gorm:"not null"`
	InterviewerID  *int64           `json:"interviewer_id"`
	Status         InterviewStatus  `json:"status" gorm:"type:varchar(20);not null"`
	Result         *InterviewResult `json:"result" gorm:"type:varchar(20)"`
	Feedback       string           `json:"feedback" gorm:"type:text"`
	CreatedBy      *int64           `json:"created_by"`
	UpdatedBy      *int64           `json:"updated_by"`
	CreatedAt      time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName задаёт имя таблицы для GORM
func (InterviewSchedule) TableName() string {
	return "interview_schedules"
}

// StatusChangeLog - неизменяемая запись о смене статуса
type StatusChangeLog struct {
	ID             int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationID int64      `json:"organization_id" gorm:"not null;index"`
	EntityType     EntityType `json:"entity_type" gorm:"type:varchar(20);not null;index:idx_status_log_entity"`
	EntityID       int64      `json:"entity_id" gorm:"not null;index:idx_status_log_entity"`
	OldStatus      string     `json:"old_status" gorm:"type:varchar(30);not null"`
	NewStatus      string     `json:"new_status" gorm:"type:varchar(30);not null"`
	ChangedBy      int64      `json:"changed_by" gorm:"not null;index"`
	Reason         string     `json:"reason" gorm:"type:text"`
	IsAutomatic    bool       `json:"is_automatic" gorm:"not null"`
	CorrelationID  string     `json:"correlation_id" gorm:"type:varchar(36);index"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName задаёт имя таблицы для GORM
func (StatusChangeLog) TableName() string {
	return "status_change_logs"
}

// Models возвращает все модели схемы в порядке создания таблиц
func Models() []any {
	return []any{
		&SubscriptionPlan{},
		&PlanModule{},
		&Organization{},
		&Role{},
		&RolePermission{},
		&User{},
		&Department{},
		&Designation{},
		&OrganizationalPosition{},
		&Employee{},
		&EmployeeContact{},
		&JobPosition{},
		&Candidate{},
		&Application{},
		&InterviewSchedule{},
		&StatusChangeLog{},
	}
}
