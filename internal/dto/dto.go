package dto

import (
	"time"
)

// Envelope - стандартная обёртка ответа
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
}

// ListResponse - страница списка
type ListResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit,omitempty"`
	Offset int   `json:"offset,omitempty"`
}

// AuditFields - поля автора изменений; отдаются только при праве can_view_audit_info
type AuditFields struct {
	CreatedBy *int64 `json:"created_by,omitempty"`
	UpdatedBy *int64 `json:"updated_by,omitempty"`
}

// ---- Подразделения и должности ----

// CreateDepartmentRequest - запрос на создание подразделения
type CreateDepartmentRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,min=1"`
}

// UpdateDepartmentRequest - запрос на обновление подразделения
type UpdateDepartmentRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	ParentID *int64  `json:"parent_id" validate:"omitempty,min=1"`
}

// DeleteDepartmentQuery - параметры запроса удаления
type DeleteDepartmentQuery struct {
	Mode                   string `validate:"required,oneof=cascade reassign"`
	ReassignToDepartmentID *int64 `validate:"required_if=Mode reassign,omitempty,min=1"`
}

// GetDepartmentQuery - параметры запроса получения подразделения
type GetDepartmentQuery struct {
	Depth            int `validate:"min=1,max=5"`
	IncludeEmployees bool
}

// DepartmentResponse - ответ с данными подразделения
type DepartmentResponse struct {
	ID        int64                `json:"id"`
	Name      string               `json:"name"`
	ParentID  *int64               `json:"parent_id"`
	CreatedAt time.Time            `json:"created_at"`
	Employees []EmployeeResponse   `json:"employees,omitempty"`
	Children  []DepartmentResponse `json:"children,omitempty"`
	AuditFields
}

// CreateDesignationRequest - запрос на создание должности
type CreateDesignationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// DesignationResponse - ответ с данными должности
type DesignationResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ---- Штатные позиции ----

// CreatePositionRequest - запрос на создание штатной позиции
type CreatePositionRequest struct {
	Title               string `json:"title" validate:"required,min=1,max=200"`
	DepartmentID        int64  `json:"department_id" validate:"required,min=1"`
	DesignationID       int64  `json:"designation_id" validate:"required,min=1"`
	ReportingPositionID *int64 `json:"reporting_position_id" validate:"omitempty,min=1"`
	HeadCount           int    `json:"head_count" validate:"required,min=1"`
	IsActive            *bool  `json:"is_active"`
}

// UpdatePositionRequest - запрос на частичное обновление штатной позиции.
// ClearReportingPosition снимает подчинённость.
type UpdatePositionRequest struct {
	Title                  *string `json:"title" validate:"omitempty,min=1,max=200"`
	DepartmentID           *int64  `json:"department_id" validate:"omitempty,min=1"`
	DesignationID          *int64  `json:"designation_id" validate:"omitempty,min=1"`
	ReportingPositionID    *int64  `json:"reporting_position_id" validate:"omitempty,min=1"`
	ClearReportingPosition bool    `json:"clear_reporting_position" validate:"excluded_with=ReportingPositionID"`
	HeadCount              *int    `json:"head_count" validate:"omitempty,min=1"`
	IsActive               *bool   `json:"is_active"`
}

// PositionResponse - ответ с данными штатной позиции
type PositionResponse struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	DepartmentID        int64     `json:"department_id"`
	DesignationID       int64     `json:"designation_id"`
	ReportingPositionID *int64    `json:"reporting_position_id"`
	HeadCount           int       `json:"head_count"`
	AssignedCount       *int64    `json:"assigned_count,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	AuditFields
}

// ---- Сотрудники ----

// ContactRequest - контакт сотрудника в запросе
type ContactRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Relation string `json:"relation" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"required,min=3,max=50"`
}

// CreateEmployeeRequest - запрос на создание сотрудника
type CreateEmployeeRequest struct {
	EmployeeCode             string           `json:"employee_code" validate:"required,min=1,max=50"`
	FullName                 string           `json:"full_name" validate:"required,min=1,max=200"`
	Email                    string           `json:"email" validate:"omitempty,email,max=200"`
	DepartmentID             *int64           `json:"department_id" validate:"omitempty,min=1"`
	DesignationID            *int64           `json:"designation_id" validate:"omitempty,min=1"`
	OrganizationalPositionID *int64           `json:"organizational_position_id" validate:"omitempty,min=1"`
	HiredAt                  *string          `json:"hired_at" validate:"omitempty,datetime=2006-01-02"`
	Contacts                 []ContactRequest `json:"contacts" validate:"omitempty,dive"`
}

// UpdateEmployeeRequest - запрос на частичное обновление сотрудника.
// ClearPosition снимает сотрудника со штатной позиции.
type UpdateEmployeeRequest struct {
	EmployeeCode             *string `json:"employee_code" validate:"omitempty,min=1,max=50"`
	FullName                 *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Email                    *string `json:"email" validate:"omitempty,email,max=200"`
	DepartmentID             *int64  `json:"department_id" validate:"omitempty,min=1"`
	DesignationID            *int64  `json:"designation_id" validate:"omitempty,min=1"`
	OrganizationalPositionID *int64  `json:"organizational_position_id" validate:"omitempty,min=1"`
	ClearPosition            bool    `json:"clear_organizational_position" validate:"excluded_with=OrganizationalPositionID"`
	HiredAt                  *string `json:"hired_at" validate:"omitempty,datetime=2006-01-02"`
}

// EmployeeResponse - ответ с данными сотрудника
type EmployeeResponse struct {
	ID                       int64             `json:"id"`
	EmployeeCode             string            `json:"employee_code"`
	FullName                 string            `json:"full_name"`
	Email                    string            `json:"email,omitempty"`
	DepartmentID             *int64            `json:"department_id"`
	DesignationID            *int64            `json:"designation_id"`
	OrganizationalPositionID *int64            `json:"organizational_position_id"`
	HiredAt                  *string           `json:"hired_at,omitempty"`
	Contacts                 []ContactResponse `json:"contacts,omitempty"`
	CreatedAt                time.Time         `json:"created_at"`
	AuditFields
}

// ContactResponse - контакт сотрудника в ответе
type ContactResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation,omitempty"`
	Phone    string `json:"phone"`
}

// ---- Подбор персонала ----

// CreateJobPositionRequest - запрос на создание вакансии
type CreateJobPositionRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=200"`
	DepartmentID *int64 `json:"department_id" validate:"omitempty,min=1"`
	Openings     int    `json:"openings" validate:"required,min=1"`
}

// JobPositionResponse - ответ с данными вакансии
type JobPositionResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	DepartmentID *int64    `json:"department_id"`
	Openings     int       `json:"openings"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	AuditFields
}

// CreateCandidateRequest - запрос на создание кандидата
type CreateCandidateRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=50"`
}

// UpdateCandidateRequest - запрос на обновление анкеты кандидата
type UpdateCandidateRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email" validate:"omitempty,email,max=200"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
}

// CandidateStatusRequest - ручная установка статуса кандидата
type CandidateStatusRequest struct {
	Status string `json:"status" validate:"required,candidate_status"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// CandidateResponse - ответ с данными кандидата
type CandidateResponse struct {
	ID           int64                 `json:"id"`
	FullName     string                `json:"full_name"`
	Email        string                `json:"email"`
	Phone        string                `json:"phone,omitempty"`
	Status       string                `json:"status"`
	Applications []ApplicationResponse `json:"applications,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	AuditFields
}

// CreateApplicationRequest - запрос на создание заявки
type CreateApplicationRequest struct {
	CandidateID   int64 `json:"candidate_id" validate:"required,min=1"`
	JobPositionID int64 `json:"job_position_id" validate:"required,min=1"`
}

// ApplicationStatusRequest - ручная установка статуса заявки
type ApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,application_status"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// ApplicationResponse - ответ с данными заявки
type ApplicationResponse struct {
	ID            int64               `json:"id"`
	CandidateID   int64               `json:"candidate_id"`
	JobPositionID int64               `json:"job_position_id"`
	Status        string              `json:"status"`
	Interviews    []InterviewResponse `json:"interviews,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	AuditFields
}

// ScheduleInterviewRequest - запрос на назначение собеседования
type ScheduleInterviewRequest struct {
	ApplicationID int64     `json:"application_id" validate:"required,min=1"`
	RoundName     string    `json:"round_name" validate:"required,min=1,max=100"`
	ScheduledAt   time.Time `json:"scheduled_at" validate:"required"`
	InterviewerID *int64    `json:"interviewer_id" validate:"omitempty,min=1"`
}

// CompleteInterviewRequest - запрос на завершение собеседования с результатом
type CompleteInterviewRequest struct {
	Result   string `json:"result" validate:"required,interview_result"`
	Feedback string `json:"feedback" validate:"omitempty,max=5000"`
}

// CancelInterviewRequest - запрос на отмену собеседования
type CancelInterviewRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// InterviewResponse - ответ с данными собеседования
type InterviewResponse struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	RoundName     string    `json:"round_name"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	InterviewerID *int64    `json:"interviewer_id,omitempty"`
	Status        string    `json:"status"`
	Result        *string   `json:"result,omitempty"`
	Feedback      string    `json:"feedback,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	AuditFields
}

// ---- Журнал статусов ----

// StatusLogQuery - параметры выборки журнала из строки запроса
type StatusLogQuery struct {
	EntityType    string `validate:"omitempty,entity_type"`
	EntityID      *int64 `validate:"omitempty,min=1"`
	ChangedBy     *int64 `validate:"omitempty,min=1"`
	IsAutomatic   *bool
	CorrelationID string `validate:"omitempty,uuid"`
	From          *time.Time
	To            *time.Time
	Limit         int `validate:"min=0,max=200"`
	Offset        int `validate:"min=0"`
}

// StatusLogResponse - запись журнала смены статусов
type StatusLogResponse struct {
	ID            int64     `json:"id"`
	EntityType    string    `json:"entity_type"`
	EntityID      int64     `json:"entity_id"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	ChangedBy     *int64    `json:"changed_by,omitempty"`
	Reason        string    `json:"reason"`
	IsAutomatic   bool      `json:"is_automatic"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ---- Администрирование ----

// OrganizationResponse - организация для супер-администратора
type OrganizationResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Plan      *string   `json:"plan,omitempty"`
	Modules   []string  `json:"modules,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
