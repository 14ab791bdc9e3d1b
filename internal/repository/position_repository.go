package repository

import (
	"context"
	"errors"

	"github.com/hr-admin-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PositionRepository определяет интерфейс для работы со штатными позициями
type PositionRepository interface {
	Create(ctx context.Context, pos *domain.OrganizationalPosition) error
	GetByID(ctx context.Context, orgID, id int64) (*domain.OrganizationalPosition, error)
	List(ctx context.Context, orgID int64, departmentID *int64) ([]domain.OrganizationalPosition, error)
	Update(ctx context.Context, pos *domain.OrganizationalPosition) error
	Delete(ctx context.Context, orgID, id int64) error
	CountSubordinates(ctx context.Context, id int64) (int64, error)
	CountByDepartments(ctx context.Context, departmentIDs []int64) (int64, error)
}

type positionRepository struct {
	db *gorm.DB
}

// NewPositionRepository создаёт новый экземпляр репозитория
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) Create(ctx context.Context, pos *domain.OrganizationalPosition) error {
	return conn(ctx, r.db).Create(pos).Error
}

func (r *positionRepository) GetByID(ctx context.Context, orgID, id int64) (*domain.OrganizationalPosition, error) {
	var pos domain.OrganizationalPosition
	err := conn(ctx, r.db).Where("organization_id = ?", orgID).First(&pos, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPositionNotFound
		}
		return nil, err
	}
	return &pos, nil
}

func (r *positionRepository) List(ctx context.Context, orgID int64, departmentID *int64) ([]domain.OrganizationalPosition, error) {
	var list []domain.OrganizationalPosition
	query := conn(ctx, r.db).Where("organization_id = ?", orgID)
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}
	err := query.Order("title ASC").Find(&list).Error
	return list, err
}

func (r *positionRepository) Update(ctx context.Context, pos *domain.OrganizationalPosition) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(pos).Error
}

func (r *positionRepository) Delete(ctx context.Context, orgID, id int64) error {
	result := conn(ctx, r.db).Where("organization_id = ?", orgID).Delete(&domain.OrganizationalPosition{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPositionNotFound
	}
	return nil
}

func (r *positionRepository) CountSubordinates(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.OrganizationalPosition{}).
		Where("reporting_position_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *positionRepository) CountByDepartments(ctx context.Context, departmentIDs []int64) (int64, error) {
	if len(departmentIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := conn(ctx, r.db).Model(&domain.OrganizationalPosition{}).
		Where("department_id IN ?", departmentIDs).
		Count(&count).Error
	return count, err
}
