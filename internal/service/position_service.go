package service

import (
	"context"
	"strings"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/metrics"
	"github.com/hr-admin-api/internal/repository"
)

// PositionDetails - штатная позиция с числом назначенных сотрудников
type PositionDetails struct {
	Position      *domain.OrganizationalPosition
	AssignedCount int64
}

// PositionService определяет интерфейс бизнес-логики для штатных позиций
type PositionService interface {
	Create(ctx context.Context, actor domain.Actor, req *dto.CreatePositionRequest) (*domain.OrganizationalPosition, error)
	GetByID(ctx context.Context, actor domain.Actor, id int64) (*PositionDetails, error)
	List(ctx context.Context, actor domain.Actor, departmentID *int64) ([]domain.OrganizationalPosition, error)
	Update(ctx context.Context, actor domain.Actor, id int64, req *dto.UpdatePositionRequest) (*domain.OrganizationalPosition, error)
	Delete(ctx context.Context, actor domain.Actor, id int64) error
	ListEmployees(ctx context.Context, actor domain.Actor, id int64) ([]domain.Employee, error)
}

type positionService struct {
	tx        repository.Transactor
	posRepo   repository.PositionRepository
	deptRepo  repository.DepartmentRepository
	desigRepo repository.DesignationRepository
	empRepo   repository.EmployeeRepository
	validator PositionValidator
}

// NewPositionService создаёт новый экземпляр сервиса
func NewPositionService(
	tx repository.Transactor,
	posRepo repository.PositionRepository,
	deptRepo repository.DepartmentRepository,
	desigRepo repository.DesignationRepository,
	empRepo repository.EmployeeRepository,
	validator PositionValidator,
) PositionService {
	return &positionService{
		tx:        tx,
		posRepo:   posRepo,
		deptRepo:  deptRepo,
		desigRepo: desigRepo,
		empRepo:   empRepo,
		validator: validator,
	}
}

func (s *positionService) Create(ctx context.Context, actor domain.Actor, req *dto.CreatePositionRequest) (*domain.OrganizationalPosition, error) {
	orgID := actor.OrganizationID

	if _, err := s.deptRepo.GetByID(ctx, orgID, req.DepartmentID); err != nil {
		return nil, err
	}
	if _, err := s.desigRepo.GetByID(ctx, orgID, req.DesignationID); err != nil {
		return nil, err
	}

	if req.ReportingPositionID != nil {
		if err := s.validator.CheckHierarchy(ctx, orgID, nil, *req.ReportingPositionID); err != nil {
			return nil, err
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	pos := &domain.OrganizationalPosition{
		OrganizationID:      orgID,
		Title:               strings.TrimSpace(req.Title),
		DepartmentID:        req.DepartmentID,
		DesignationID:       req.DesignationID,
		ReportingPositionID: req.ReportingPositionID,
		HeadCount:           req.HeadCount,
		IsActive:            isActive,
		CreatedBy:           actor.ActorID(),
		UpdatedBy:           actor.ActorID(),
	}

	if err := s.posRepo.Create(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func (s *positionService) GetByID(ctx context.Context, actor domain.Actor, id int64) (*PositionDetails, error) {
	pos, err := s.posRepo.GetByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	count, err := s.empRepo.CountByPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PositionDetails{Position: pos, AssignedCount: count}, nil
}

func (s *positionService) List(ctx context.Context, actor domain.Actor, departmentID *int64) ([]domain.OrganizationalPosition, error) {
	return s.posRepo.List(ctx, actor.OrganizationID, departmentID)
}

func (s *positionService) Update(ctx context.Context, actor domain.Actor, id int64, req *dto.UpdatePositionRequest) (*domain.OrganizationalPosition, error) {
	orgID := actor.OrganizationID

	var pos *domain.OrganizationalPosition
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		pos, err = s.posRepo.GetByID(ctx, orgID, id)
		if err != nil {
			return err
		}

		if req.Title != nil {
			pos.Title = strings.TrimSpace(*req.Title)
		}

		if req.DepartmentID != nil {
			if _, err := s.deptRepo.GetByID(ctx, orgID, *req.DepartmentID); err != nil {
				return err
			}
			pos.DepartmentID = *req.DepartmentID
		}

		if req.DesignationID != nil {
			if _, err := s.desigRepo.GetByID(ctx, orgID, *req.DesignationID); err != nil {
				return err
			}
			pos.DesignationID = *req.DesignationID
		}

		// Цепочка подчинённости проверяется только при установке ненулевой ссылки
		switch {
		case req.ReportingPositionID != nil:
			if err := s.validator.CheckHierarchy(ctx, orgID, &id, *req.ReportingPositionID); err != nil {
				return err
			}
			pos.ReportingPositionID = req.ReportingPositionID
		case req.ClearReportingPosition:
			pos.ReportingPositionID = nil
		}

		if req.HeadCount != nil {
			assigned, err := s.empRepo.CountByPosition(ctx, id)
			if err != nil {
				return err
			}
			if int64(*req.HeadCount) < assigned {
				metrics.RecordPositionRejection("headcount_below_assigned")
				return domain.ErrHeadcountBelowAssigned
			}
			pos.HeadCount = *req.HeadCount
		}

		if req.IsActive != nil {
			pos.IsActive = *req.IsActive
		}

		pos.UpdatedBy = actor.ActorID()
		return s.posRepo.Update(ctx, pos)
	})
	if err != nil {
		return nil, err
	}
	return pos, nil
}

func (s *positionService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.posRepo.GetByID(ctx, actor.OrganizationID, id); err != nil {
			return err
		}

		assigned, err := s.empRepo.CountByPosition(ctx, id)
		if err != nil {
			return err
		}
		subordinates, err := s.posRepo.CountSubordinates(ctx, id)
		if err != nil {
			return err
		}
		if assigned > 0 || subordinates > 0 {
			metrics.RecordPositionRejection("in_use")
			return domain.ErrPositionInUse
		}

		return s.posRepo.Delete(ctx, actor.OrganizationID, id)
	})
}

func (s *positionService) ListEmployees(ctx context.Context, actor domain.Actor, id int64) ([]domain.Employee, error) {
	if _, err := s.posRepo.GetByID(ctx, actor.OrganizationID, id); err != nil {
		return nil, err
	}
	employees, _, err := s.empRepo.List(ctx, actor.OrganizationID, repository.EmployeeFilter{PositionID: &id})
	return employees, err
}
