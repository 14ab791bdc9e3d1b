package domain

import (
	"errors"
	"fmt"
)

// Определение бизнес-ошибок
var (
	ErrDepartmentNotFound      = errors.New("department not found")
	ErrDesignationNotFound     = errors.New("designation not found")
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrDuplicateDepartmentName = errors.New("department with this name already exists in the same parent")
	ErrDuplicateDesignation    = errors.New("designation with this name already exists")
	ErrDuplicateEmployeeCode   = errors.New("employee with this code already exists")
	ErrSelfReference           = errors.New("department cannot be its own parent")
	ErrCyclicReference         = errors.New("moving department would create a cycle")
	ErrInvalidDeleteMode       = errors.New("invalid delete mode")
	ErrReassignTargetRequired  = errors.New("reassign_to_department_id is required when mode is reassign")
	ErrReassignTargetNotFound  = errors.New("target department for reassignment not found")
	ErrCannotReassignToSelf    = errors.New("cannot reassign employees to the same department being deleted")
	ErrDepartmentHasPositions  = errors.New("department has organizational positions")

	ErrPositionNotFound          = errors.New("organizational position not found")
	ErrReportingPositionNotFound = errors.New("reporting position not found")
	ErrHeadcountExceeded         = errors.New("organizational position headcount exceeded")
	ErrHeadcountBelowAssigned    = errors.New("head count cannot be lower than the number of assigned employees")
	ErrCircularHierarchy         = errors.New("reporting position would create a circular hierarchy")
	ErrPositionInUse             = errors.New("organizational position has assigned employees or subordinate positions")

	ErrOrganizationNotFound = errors.New("organization not found")
	ErrPlanLimitExceeded    = errors.New("subscription plan limit exceeded")

	ErrJobPositionNotFound  = errors.New("job position not found")
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrInterviewNotFound    = errors.New("interview not found")
	ErrDuplicateApplication = errors.New("candidate has already applied to this job position")
	ErrInterviewNotOpen     = errors.New("interview is not in scheduled state")
	ErrJobPositionClosed    = errors.New("job position is closed")
	ErrInvalidStatus        = errors.New("invalid status")
)

// HeadcountExceededError описывает переполнение штатной позиции
type HeadcountExceededError struct {
	PositionID    int64
	PositionTitle string
	Current       int64
	Capacity      int
}

func (e *HeadcountExceededError) Error() string {
	return fmt.Sprintf("organizational position %q is full: %d of %d employees assigned",
		e.PositionTitle, e.Current, e.Capacity)
}

func (e *HeadcountExceededError) Unwrap() error {
	return ErrHeadcountExceeded
}
