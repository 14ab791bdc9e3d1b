package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/metrics"
	"github.com/hr-admin-api/internal/repository"
)

// PositionValidator определяет проверки штатных позиций перед записью
type PositionValidator interface {
	// CheckHeadcount проверяет свободное место в позиции. Если сотрудник уже
	// занимает эту позицию (currentPositionID совпадает), проверка пропускается.
	CheckHeadcount(ctx context.Context, orgID, positionID int64, currentPositionID *int64) (*domain.OrganizationalPosition, error)
	// CheckHierarchy проверяет, что цепочка подчинённости от reportingID
	// конечна и не возвращается к positionID. При создании positionID = nil.
	CheckHierarchy(ctx context.Context, orgID int64, positionID *int64, reportingID int64) error
	// WarnOnMismatch пишет предупреждение, если подразделение или должность
	// сотрудника не совпадают с позицией. Запись не блокируется.
	WarnOnMismatch(ctx context.Context, emp *domain.Employee, pos *domain.OrganizationalPosition)
}

type positionValidator struct {
	posRepo repository.PositionRepository
	empRepo repository.EmployeeRepository
	logger  *slog.Logger
}

// NewPositionValidator создаёт новый экземпляр валидатора
func NewPositionValidator(posRepo repository.PositionRepository, empRepo repository.EmployeeRepository, logger *slog.Logger) PositionValidator {
	return &positionValidator{
		posRepo: posRepo,
		empRepo: empRepo,
		logger:  logger,
	}
}

func (v *positionValidator) CheckHeadcount(ctx context.Context, orgID, positionID int64, currentPositionID *int64) (*domain.OrganizationalPosition, error) {
	pos, err := v.posRepo.GetByID(ctx, orgID, positionID)
	if err != nil {
		return nil, err
	}

	if currentPositionID != nil && *currentPositionID == positionID {
		return pos, nil
	}

	count, err := v.empRepo.CountByPosition(ctx, positionID)
	if err != nil {
		return nil, err
	}
	if count >= int64(pos.HeadCount) {
		metrics.RecordPositionRejection("headcount")
		return nil, &domain.HeadcountExceededError{
			PositionID:    pos.ID,
			PositionTitle: pos.Title,
			Current:       count,
			Capacity:      pos.HeadCount,
		}
	}
	return pos, nil
}

func (v *positionValidator) CheckHierarchy(ctx context.Context, orgID int64, positionID *int64, reportingID int64) error {
	visited := make(map[int64]struct{})
	current := reportingID

	for {
		if positionID != nil && current == *positionID {
			metrics.RecordPositionRejection("cycle")
			return domain.ErrCircularHierarchy
		}
		if _, seen := visited[current]; seen {
			metrics.RecordPositionRejection("cycle")
			return domain.ErrCircularHierarchy
		}
		visited[current] = struct{}{}

		pos, err := v.posRepo.GetByID(ctx, orgID, current)
		if err != nil {
			if errors.Is(err, domain.ErrPositionNotFound) {
				if current == reportingID {
					return domain.ErrReportingPositionNotFound
				}
				// Висячая ссылка выше по цепочке завершает обход
				return nil
			}
			return err
		}

		if pos.ReportingPositionID == nil {
			return nil
		}
		current = *pos.ReportingPositionID
	}
}

func (v *positionValidator) WarnOnMismatch(ctx context.Context, emp *domain.Employee, pos *domain.OrganizationalPosition) {
	deptMismatch := emp.DepartmentID != nil && *emp.DepartmentID != pos.DepartmentID
	desigMismatch := emp.DesignationID != nil && *emp.DesignationID != pos.DesignationID
	if !deptMismatch && !desigMismatch {
		return
	}
	v.logger.WarnContext(ctx, "employee department or designation differs from organizational position",
		"employee_code", emp.EmployeeCode,
		"position_id", pos.ID,
		"employee_department_id", emp.DepartmentID,
		"position_department_id", pos.DepartmentID,
		"employee_designation_id", emp.DesignationID,
		"position_designation_id", pos.DesignationID,
	)
}
