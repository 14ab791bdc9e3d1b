package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/repository"
)

const dateLayout = "2006-01-02"

// EmployeeService определяет интерфейс бизнес-логики для сотрудников
type EmployeeService interface {
	Create(ctx context.Context, actor domain.Actor, req *dto.CreateEmployeeRequest) (*domain.Employee, error)
	GetByID(ctx context.Context, actor domain.Actor, id int64) (*domain.Employee, error)
	List(ctx context.Context, actor domain.Actor, filter repository.EmployeeFilter) ([]domain.Employee, int64, error)
	Update(ctx context.Context, actor domain.Actor, id int64, req *dto.UpdateEmployeeRequest) (*domain.Employee, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
}

type employeeService struct {
	tx        repository.Transactor
	empRepo   repository.EmployeeRepository
	deptRepo  repository.DepartmentRepository
	desigRepo repository.DesignationRepository
	orgRepo   repository.OrganizationRepository
	validator PositionValidator
	logger    *slog.Logger
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(
	tx repository.Transactor,
	empRepo repository.EmployeeRepository,
	deptRepo repository.DepartmentRepository,
	desigRepo repository.DesignationRepository,
	orgRepo repository.OrganizationRepository,
	validator PositionValidator,
	logger *slog.Logger,
) EmployeeService {
	return &employeeService{
		tx:        tx,
		empRepo:   empRepo,
		deptRepo:  deptRepo,
		desigRepo: desigRepo,
		orgRepo:   orgRepo,
		validator: validator,
		logger:    logger,
	}
}

func (s *employeeService) Create(ctx context.Context, actor domain.Actor, req *dto.CreateEmployeeRequest) (*domain.Employee, error) {
	orgID := actor.OrganizationID

	emp := &domain.Employee{
		OrganizationID:           orgID,
		EmployeeCode:             strings.TrimSpace(req.EmployeeCode),
		FullName:                 strings.TrimSpace(req.FullName),
		Email:                    strings.TrimSpace(req.Email),
		DepartmentID:             req.DepartmentID,
		DesignationID:            req.DesignationID,
		OrganizationalPositionID: req.OrganizationalPositionID,
		CreatedBy:                actor.ActorID(),
		UpdatedBy:                actor.ActorID(),
	}

	// Парсим дату найма, если передана
	if req.HiredAt != nil {
		hiredAt, err := time.Parse(dateLayout, *req.HiredAt)
		if err != nil {
			return nil, err
		}
		emp.HiredAt = &hiredAt
	}

	for _, c := range req.Contacts {
		emp.Contacts = append(emp.Contacts, domain.EmployeeContact{
			Name:     strings.TrimSpace(c.Name),
			Relation: strings.TrimSpace(c.Relation),
			Phone:    strings.TrimSpace(c.Phone),
		})
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkPlanLimit(ctx, orgID); err != nil {
			return err
		}

		exists, err := s.empRepo.ExistsByCode(ctx, orgID, emp.EmployeeCode, nil)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateEmployeeCode
		}

		if err := s.checkReferences(ctx, orgID, emp.DepartmentID, emp.DesignationID); err != nil {
			return err
		}

		if emp.OrganizationalPositionID != nil {
			pos, err := s.validator.CheckHeadcount(ctx, orgID, *emp.OrganizationalPositionID, nil)
			if err != nil {
				return err
			}
			s.validator.WarnOnMismatch(ctx, emp, pos)
		}

		return s.empRepo.Create(ctx, emp)
	})
	if err != nil {
		return nil, err
	}

	return emp, nil
}

func (s *employeeService) GetByID(ctx context.Context, actor domain.Actor, id int64) (*domain.Employee, error) {
	return s.empRepo.GetByID(ctx, actor.OrganizationID, id)
}

func (s *employeeService) List(ctx context.Context, actor domain.Actor, filter repository.EmployeeFilter) ([]domain.Employee, int64, error) {
	return s.empRepo.List(ctx, actor.OrganizationID, filter)
}

func (s *employeeService) Update(ctx context.Context, actor domain.Actor, id int64, req *dto.UpdateEmployeeRequest) (*domain.Employee, error) {
	orgID := actor.OrganizationID

	var emp *domain.Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		emp, err = s.empRepo.GetByID(ctx, orgID, id)
		if err != nil {
			return err
		}
		currentPositionID := emp.OrganizationalPositionID

		if req.EmployeeCode != nil {
			code := strings.TrimSpace(*req.EmployeeCode)
			exists, err := s.empRepo.ExistsByCode(ctx, orgID, code, &id)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateEmployeeCode
			}
			emp.EmployeeCode = code
		}
		if req.FullName != nil {
			emp.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.Email != nil {
			emp.Email = strings.TrimSpace(*req.Email)
		}
		if req.DepartmentID != nil {
			emp.DepartmentID = req.DepartmentID
		}
		if req.DesignationID != nil {
			emp.DesignationID = req.DesignationID
		}
		if req.HiredAt != nil {
			hiredAt, err := time.Parse(dateLayout, *req.HiredAt)
			if err != nil {
				return err
			}
			emp.HiredAt = &hiredAt
		}

		if err := s.checkReferences(ctx, orgID, req.DepartmentID, req.DesignationID); err != nil {
			return err
		}

		switch {
		case req.OrganizationalPositionID != nil:
			// Повторное сохранение в той же позиции не проверяет численность
			pos, err := s.validator.CheckHeadcount(ctx, orgID, *req.OrganizationalPositionID, currentPositionID)
			if err != nil {
				return err
			}
			emp.OrganizationalPositionID = req.OrganizationalPositionID
			s.validator.WarnOnMismatch(ctx, emp, pos)
		case req.ClearPosition:
			emp.OrganizationalPositionID = nil
		case currentPositionID != nil && (req.DepartmentID != nil || req.DesignationID != nil):
			// Позиция та же, но подразделение или должность сменились
			pos, err := s.validator.CheckHeadcount(ctx, orgID, *currentPositionID, currentPositionID)
			if err != nil {
				return err
			}
			s.validator.WarnOnMismatch(ctx, emp, pos)
		}

		emp.UpdatedBy = actor.ActorID()
		return s.empRepo.Update(ctx, emp)
	})
	if err != nil {
		return nil, err
	}

	return emp, nil
}

func (s *employeeService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.empRepo.Delete(ctx, actor.OrganizationID, id)
	})
}

// checkPlanLimit отклоняет создание сотрудника сверх лимита тарифа
func (s *employeeService) checkPlanLimit(ctx context.Context, orgID int64) error {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return err
	}
	if org.SubscriptionPlan == nil || org.SubscriptionPlan.MaxEmployees <= 0 {
		return nil
	}

	count, err := s.empRepo.CountByOrganization(ctx, orgID)
	if err != nil {
		return err
	}
	if count >= int64(org.SubscriptionPlan.MaxEmployees) {
		s.logger.Warn("employee limit of subscription plan reached",
			"org_id", orgID,
			"plan", org.SubscriptionPlan.Name,
			"max_employees", org.SubscriptionPlan.MaxEmployees,
		)
		return domain.ErrPlanLimitExceeded
	}
	return nil
}

func (s *employeeService) checkReferences(ctx context.Context, orgID int64, departmentID, designationID *int64) error {
	if departmentID != nil {
		if _, err := s.deptRepo.GetByID(ctx, orgID, *departmentID); err != nil {
			return err
		}
	}
	if designationID != nil {
		if _, err := s.desigRepo.GetByID(ctx, orgID, *designationID); err != nil {
			return err
		}
	}
	return nil
}
