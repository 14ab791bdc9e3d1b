package repository

import (
	"context"
	"errors"

	"github.com/hr-admin-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmployeeFilter - фильтр списка сотрудников
type EmployeeFilter struct {
	DepartmentID *int64
	PositionID   *int64
	Limit        int
	Offset       int
}

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, orgID, id int64) (*domain.Employee, error)
	List(ctx context.Context, orgID int64, filter EmployeeFilter) ([]domain.Employee, int64, error)
	Update(ctx context.Context, emp *domain.Employee) error
	Delete(ctx context.Context, orgID, id int64) error
	ExistsByCode(ctx context.Context, orgID int64, code string, excludeID *int64) (bool, error)
	CountByPosition(ctx context.Context, positionID int64) (int64, error)
	CountByOrganization(ctx context.Context, orgID int64) (int64, error)
	ReassignDepartments(ctx context.Context, fromDeptIDs []int64, toDeptID *int64) error
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	if err := conn(ctx, r.db).Create(emp).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmployeeCode
		}
		return err
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, orgID, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := conn(ctx, r.db).
		Preload("Contacts").
		Where("organization_id = ?", orgID).
		First(&emp, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) List(ctx context.Context, orgID int64, filter EmployeeFilter) ([]domain.Employee, int64, error) {
	var employees []domain.Employee
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("organization_id = ?", orgID)
		if filter.DepartmentID != nil {
			db = db.Where("department_id = ?", *filter.DepartmentID)
		}
		if filter.PositionID != nil {
			db = db.Where("organizational_position_id = ?", *filter.PositionID)
		}
		return db
	}

	if err := conn(ctx, r.db).Model(&domain.Employee{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := conn(ctx, r.db).
		Scopes(scope, paginate(filter.Limit, filter.Offset)).
		Order("created_at ASC").Order("id ASC").
		Find(&employees).Error
	return employees, total, err
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	err := conn(ctx, r.db).Omit(clause.Associations).Save(emp).Error
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmployeeCode
	}
	return err
}

func (r *employeeRepository) Delete(ctx context.Context, orgID, id int64) error {
	db := conn(ctx, r.db)
	if err := db.Where("employee_id = ?", id).Delete(&domain.EmployeeContact{}).Error; err != nil {
		return err
	}
	result := db.Where("organization_id = ?", orgID).Delete(&domain.Employee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *employeeRepository) ExistsByCode(ctx context.Context, orgID int64, code string, excludeID *int64) (bool, error) {
	var count int64
	query := conn(ctx, r.db).Model(&domain.Employee{}).
		Where("organization_id = ? AND employee_code = ?", orgID, code)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *employeeRepository) CountByPosition(ctx context.Context, positionID int64) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.Employee{}).
		Where("organizational_position_id = ?", positionID).
		Count(&count).Error
	return count, err
}

func (r *employeeRepository) CountByOrganization(ctx context.Context, orgID int64) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.Employee{}).
		Where("organization_id = ?", orgID).
		Count(&count).Error
	return count, err
}

func (r *employeeRepository) ReassignDepartments(ctx context.Context, fromDeptIDs []int64, toDeptID *int64) error {
	if len(fromDeptIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db).
		Model(&domain.Employee{}).
		Where("department_id IN ?", fromDeptIDs).
		Update("department_id", toDeptID).Error
}

// paginate применяет limit/offset, если они заданы
func paginate(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit > 0 {
			db = db.Limit(limit)
		}
		if offset > 0 {
			db = db.Offset(offset)
		}
		return db
	}
}
