package repository

import (
	"context"
	"errors"

	"github.com/hr-admin-api/internal/domain"
	"gorm.io/gorm"
)

// DesignationRepository определяет интерфейс для работы со справочником должностей
type DesignationRepository interface {
	Create(ctx context.Context, d *domain.Designation) error
	GetByID(ctx context.Context, orgID, id int64) (*domain.Designation, error)
	List(ctx context.Context, orgID int64) ([]domain.Designation, error)
}

type designationRepository struct {
	db *gorm.DB
}

// NewDesignationRepository создаёт новый экземпляр репозитория
func NewDesignationRepository(db *gorm.DB) DesignationRepository {
	return &designationRepository{db: db}
}

func (r *designationRepository) Create(ctx context.Context, d *domain.Designation) error {
	if err := conn(ctx, r.db).Create(d).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDesignation
		}
		return err
	}
	return nil
}

func (r *designationRepository) GetByID(ctx context.Context, orgID, id int64) (*domain.Designation, error) {
	var d domain.Designation
	err := conn(ctx, r.db).Where("organization_id = ?", orgID).First(&d, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDesignationNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *designationRepository) List(ctx context.Context, orgID int64) ([]domain.Designation, error) {
	var list []domain.Designation
	err := conn(ctx, r.db).Where("organization_id = ?", orgID).Order("name ASC").Find(&list).Error
	return list, err
}
