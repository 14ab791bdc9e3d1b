package domain

// ModuleCode - код модуля системы для проверки прав
type ModuleCode string

const (
	ModuleDepartments  ModuleCode = "departments"
	ModuleDesignations ModuleCode = "designations"
	ModulePositions    ModuleCode = "organizational_positions"
	ModuleEmployees    ModuleCode = "employees"
	ModuleJobPositions ModuleCode = "job_positions"
	ModuleCandidates   ModuleCode = "candidates"
	ModuleApplications ModuleCode = "applications"
	ModuleInterviews   ModuleCode = "interviews"
	ModuleStatusLogs   ModuleCode = "status_logs"
)

// Action - действие над модулем
type Action string

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionExport  Action = "export"
	ActionApprove Action = "approve"
)

// Actor - вызывающий пользователь; передаётся явно во все операции
type Actor struct {
	UserID         int64
	OrganizationID int64
}

// ActorID возвращает указатель на id пользователя для полей created_by/updated_by
func (a Actor) ActorID() *int64 {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
