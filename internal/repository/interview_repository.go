package repository

import (
	"context"
	"errors"

	"github.com/hr-admin-api/internal/domain"
	"gorm.io/gorm"
)

// InterviewRepository определяет интерфейс для работы с собеседованиями
type InterviewRepository interface {
	Create(ctx context.Context, iv *domain.InterviewSchedule) error
	GetByID(ctx context.Context, orgID, id int64) (*domain.InterviewSchedule, error)
	List(ctx context.Context, orgID int64, applicationID *int64) ([]domain.InterviewSchedule, error)
	Update(ctx context.Context, iv *domain.InterviewSchedule) error
	CountPassed(ctx context.Context, applicationID int64) (int64, error)
}

type interviewRepository struct {
	db *gorm.DB
}

// NewInterviewRepository создаёт новый экземпляр репозитория
func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(ctx context.Context, iv *domain.InterviewSchedule) error {
	return conn(ctx, r.db).Create(iv).Error
}

func (r *interviewRepository) GetByID(ctx context.Context, orgID, id int64) (*domain.InterviewSchedule, error) {
	var iv domain.InterviewSchedule
	err := conn(ctx, r.db).Where("organization_id = ?", orgID).First(&iv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInterviewNotFound
		}
		return nil, err
	}
	return &iv, nil
}

func (r *interviewRepository) List(ctx context.Context, orgID int64, applicationID *int64) ([]domain.InterviewSchedule, error) {
	var list []domain.InterviewSchedule
	query := conn(ctx, r.db).Where("organization_id = ?", orgID)
	if applicationID != nil {
		query = query.Where("application_id = ?", *applicationID)
	}
	err := query.Order("scheduled_at ASC").Order("id ASC").Find(&list).Error
	return list, err
}

func (r *interviewRepository) Update(ctx context.Context, iv *domain.InterviewSchedule) error {
	return conn(ctx, r.db).Save(iv).Error
}

// CountPassed считает завершённые раунды заявки с результатом Pass
func (r *interviewRepository) CountPassed(ctx context.Context, applicationID int64) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&domain.InterviewSchedule{}).
		Where("application_id = ? AND status = ? AND result = ?",
			applicationID, domain.InterviewCompleted, domain.ResultPass).
		Count(&count).Error
	return count, err
}
