package repository

import (
	"context"
	"errors"

	"github.com/hr-admin-api/internal/domain"
	"gorm.io/gorm"
)

// ApplicationFilter - фильтр списка заявок
type ApplicationFilter struct {
	CandidateID   *int64
	JobPositionID *int64
	Status        *domain.ApplicationStatus
	Limit         int
	Offset        int
}

// ApplicationRepository определяет интерфейс для работы с заявками
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, orgID, id int64, withInterviews bool) (*domain.Application, error)
	List(ctx context.Context, orgID int64, filter ApplicationFilter) ([]domain.Application, int64, error)
	ListStatusesByCandidate(ctx context.Context, candidateID int64) ([]domain.ApplicationStatus, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, updatedBy *int64) error
	Delete(ctx context.Context, orgID, id int64) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository создаёт новый экземпляр репозитория
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	if err := conn(ctx, r.db).Create(app).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateApplication
		}
		return err
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, orgID, id int64, withInterviews bool) (*domain.Application, error) {
	var app domain.Application
	query := conn(ctx, r.db).Where("organization_id = ?", orgID)
	if withInterviews {
		query = query.Preload("Interviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("scheduled_at ASC").Order("id ASC")
		})
	}
	err := query.First(&app, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) List(ctx context.Context, orgID int64, filter ApplicationFilter) ([]domain.Application, int64, error) {
	var list []domain.Application
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("organization_id = ?", orgID)
		if filter.CandidateID != nil {
			db = db.Where("candidate_id = ?", *filter.CandidateID)
		}
		if filter.JobPositionID != nil {
			db = db.Where("job_position_id = ?", *filter.JobPositionID)
		}
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		return db
	}

	if err := conn(ctx, r.db).Model(&domain.Application{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := conn(ctx, r.db).
		Scopes(scope, paginate(filter.Limit, filter.Offset)).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, total, err
}

// ListStatusesByCandidate возвращает статусы всех заявок кандидата
func (r *applicationRepository) ListStatusesByCandidate(ctx context.Context, candidateID int64) ([]domain.ApplicationStatus, error) {
	var statuses []domain.ApplicationStatus
	err := conn(ctx, r.db).Model(&domain.Application{}).
		Where("candidate_id = ?", candidateID).
		Order("id ASC").
		Pluck("status", &statuses).Error
	return statuses, err
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, updatedBy *int64) error {
	result := conn(ctx, r.db).Model(&domain.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_by": updatedBy})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *applicationRepository) Delete(ctx context.Context, orgID, id int64) error {
	db := conn(ctx, r.db)
	if err := db.Where("application_id = ?", id).Delete(&domain.InterviewSchedule{}).Error; err != nil {
		return err
	}
	result := db.Where("organization_id = ?", orgID).Delete(&domain.Application{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}
