package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/repository"
)

// DepartmentService определяет интерфейс бизнес-логики для подразделений и должностей
type DepartmentService interface {
	Create(ctx context.Context, actor domain.Actor, req *dto.CreateDepartmentRequest) (*domain.Department, error)
	GetByID(ctx context.Context, actor domain.Actor, id int64, query *dto.GetDepartmentQuery) (*domain.Department, error)
	List(ctx context.Context, actor domain.Actor) ([]domain.Department, error)
	Update(ctx context.Context, actor domain.Actor, id int64, req *dto.UpdateDepartmentRequest) (*domain.Department, error)
	Delete(ctx context.Context, actor domain.Actor, id int64, query *dto.DeleteDepartmentQuery) error

	CreateDesignation(ctx context.Context, actor domain.Actor, req *dto.CreateDesignationRequest) (*domain.Designation, error)
	ListDesignations(ctx context.Context, actor domain.Actor) ([]domain.Designation, error)
}

type departmentService struct {
	tx        repository.Transactor
	deptRepo  repository.DepartmentRepository
	empRepo   repository.EmployeeRepository
	posRepo   repository.PositionRepository
	desigRepo repository.DesignationRepository
}

// NewDepartmentService создаёт новый экземпляр сервиса
func NewDepartmentService(
	tx repository.Transactor,
	deptRepo repository.DepartmentRepository,
	empRepo repository.EmployeeRepository,
	posRepo repository.PositionRepository,
	desigRepo repository.DesignationRepository,
) DepartmentService {
	return &departmentService{
		tx:        tx,
		deptRepo:  deptRepo,
		empRepo:   empRepo,
		posRepo:   posRepo,
		desigRepo: desigRepo,
	}
}

func (s *departmentService) Create(ctx context.Context, actor domain.Actor, req *dto.CreateDepartmentRequest) (*domain.Department, error) {
	orgID := actor.OrganizationID
	name := strings.TrimSpace(req.Name)

	// Проверяем существование родительского подразделения
	if req.ParentID != nil {
		if _, err := s.deptRepo.GetByID(ctx, orgID, *req.ParentID); err != nil {
			return nil, err
		}
	}

	// Проверяем уникальность имени в пределах родителя
	exists, err := s.deptRepo.ExistsByNameAndParent(ctx, orgID, name, req.ParentID, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateDepartmentName
	}

	dept := &domain.Department{
		OrganizationID: orgID,
		Name:           name,
		ParentID:       req.ParentID,
		CreatedBy:      actor.ActorID(),
		UpdatedBy:      actor.ActorID(),
	}

	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, err
	}

	return dept, nil
}

func (s *departmentService) GetByID(ctx context.Context, actor domain.Actor, id int64, query *dto.GetDepartmentQuery) (*domain.Department, error) {
	return s.deptRepo.GetByIDWithChildren(ctx, actor.OrganizationID, id, query.Depth, query.IncludeEmployees)
}

func (s *departmentService) List(ctx context.Context, actor domain.Actor) ([]domain.Department, error) {
	return s.deptRepo.List(ctx, actor.OrganizationID)
}

func (s *departmentService) Update(ctx context.Context, actor domain.Actor, id int64, req *dto.UpdateDepartmentRequest) (*domain.Department, error) {
	orgID := actor.OrganizationID

	dept, err := s.deptRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	// Обновляем имя, если передано
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)

		// Определяем parentID для проверки уникальности
		parentID := dept.ParentID
		if req.ParentID != nil {
			parentID = req.ParentID
		}

		exists, err := s.deptRepo.ExistsByNameAndParent(ctx, orgID, name, parentID, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateDepartmentName
		}

		dept.Name = name
	}

	// Обновляем parent_id, если передано
	if req.ParentID != nil {
		newParentID := *req.ParentID

		// Нельзя сделать подразделение родителем самого себя
		if newParentID == id {
			return nil, domain.ErrSelfReference
		}

		if _, err := s.deptRepo.GetByID(ctx, orgID, newParentID); err != nil {
			return nil, err
		}

		// Нельзя переместить подразделение в своего потомка
		isDescendant, err := s.deptRepo.IsDescendant(ctx, orgID, id, newParentID)
		if err != nil {
			return nil, err
		}
		if isDescendant {
			return nil, domain.ErrCyclicReference
		}

		// Если новое имя не передано, проверяем уникальность текущего имени в новом родителе
		if req.Name == nil {
			exists, err := s.deptRepo.ExistsByNameAndParent(ctx, orgID, dept.Name, &newParentID, &id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrDuplicateDepartmentName
			}
		}

		dept.ParentID = &newParentID
	}

	dept.UpdatedBy = actor.ActorID()
	if err := s.deptRepo.Update(ctx, dept); err != nil {
		return nil, err
	}

	return dept, nil
}

func (s *departmentService) Delete(ctx context.Context, actor domain.Actor, id int64, query *dto.DeleteDepartmentQuery) error {
	orgID := actor.OrganizationID

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.deptRepo.GetByID(ctx, orgID, id); err != nil {
			return err
		}

		descendants, err := s.deptRepo.GetAllDescendantIDs(ctx, orgID, id)
		if err != nil {
			return err
		}
		subtree := append([]int64{id}, descendants...)

		// Штатные позиции ссылаются на подразделение обязательно
		positions, err := s.posRepo.CountByDepartments(ctx, subtree)
		if err != nil {
			return err
		}
		if positions > 0 {
			return domain.ErrDepartmentHasPositions
		}

		switch query.Mode {
		case "cascade":
			// Сотрудники остаются в организации без подразделения
			if err := s.empRepo.ReassignDepartments(ctx, subtree, nil); err != nil {
				return err
			}

		case "reassign":
			if query.ReassignToDepartmentID == nil {
				return domain.ErrReassignTargetRequired
			}
			targetID := *query.ReassignToDepartmentID

			// Нельзя переназначить в удаляемое поддерево
			if slices.Contains(subtree, targetID) {
				return domain.ErrCannotReassignToSelf
			}

			if _, err := s.deptRepo.GetByID(ctx, orgID, targetID); err != nil {
				if errors.Is(err, domain.ErrDepartmentNotFound) {
					return domain.ErrReassignTargetNotFound
				}
				return err
			}

			if err := s.empRepo.ReassignDepartments(ctx, subtree, &targetID); err != nil {
				return err
			}

		default:
			return domain.ErrInvalidDeleteMode
		}

		return s.deptRepo.DeleteMany(ctx, orgID, subtree)
	})
}

func (s *departmentService) CreateDesignation(ctx context.Context, actor domain.Actor, req *dto.CreateDesignationRequest) (*domain.Designation, error) {
	d := &domain.Designation{
		OrganizationID: actor.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
	}
	if err := s.desigRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *departmentService) ListDesignations(ctx context.Context, actor domain.Actor) ([]domain.Designation, error) {
	return s.desigRepo.List(ctx, actor.OrganizationID)
}
