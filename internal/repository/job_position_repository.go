package repository

import (
	"context"
	"errors"

	"github.com/hr-admin-api/internal/domain"
	"gorm.io/gorm"
)

// JobPositionRepository определяет интерфейс для работы с вакансиями
type JobPositionRepository interface {
	Create(ctx context.Context, job *domain.JobPosition) error
	GetByID(ctx context.Context, orgID, id int64) (*domain.JobPosition, error)
	List(ctx context.Context, orgID int64, status *domain.JobPositionStatus) ([]domain.JobPosition, error)
}

type jobPositionRepository struct {
	db *gorm.DB
}

// NewJobPositionRepository создаёт новый экземпляр репозитория
func NewJobPositionRepository(db *gorm.DB) JobPositionRepository {
	return &jobPositionRepository{db: db}
}

func (r *jobPositionRepository) Create(ctx context.Context, job *domain.JobPosition) error {
	return conn(ctx, r.db).Create(job).Error
}

func (r *jobPositionRepository) GetByID(ctx context.Context, orgID, id int64) (*domain.JobPosition, error) {
	var job domain.JobPosition
	err := conn(ctx, r.db).Where("organization_id = ?", orgID).First(&job, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobPositionNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobPositionRepository) List(ctx context.Context, orgID int64, status *domain.JobPositionStatus) ([]domain.JobPosition, error) {
	var jobs []domain.JobPosition
	query := conn(ctx, r.db).Where("organization_id = ?", orgID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("created_at DESC").Order("id DESC").Find(&jobs).Error
	return jobs, err
}
