package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/hr-admin-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CandidateFilter - фильтр списка кандидатов
type CandidateFilter struct {
	Status *domain.CandidateStatus
	Search string
	Limit  int
	Offset int
}

// CandidateRepository определяет интерфейс для работы с кандидатами
type CandidateRepository interface {
	Create(ctx context.Context, c *domain.Candidate) error
	GetByID(ctx context.Context, orgID, id int64, withApplications bool) (*domain.Candidate, error)
	List(ctx context.Context, orgID int64, filter CandidateFilter) ([]domain.Candidate, int64, error)
	ListIDs(ctx context.Context, orgID int64) ([]int64, error)
	Update(ctx context.Context, c *domain.Candidate) error
	UpdateStatus(ctx context.Context, id int64, status domain.CandidateStatus, updatedBy *int64) error
	Delete(ctx context.Context, orgID, id int64) error
}

type candidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository создаёт новый экземпляр репозитория
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	return conn(ctx, r.db).Create(c).Error
}

func (r *candidateRepository) GetByID(ctx context.Context, orgID, id int64, withApplications bool) (*domain.Candidate, error) {
	var c domain.Candidate
	query := conn(ctx, r.db).Where("organization_id = ?", orgID)
	if withApplications {
		query = query.Preload("Applications", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		})
	}
	err := query.First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCandidateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepository) List(ctx context.Context, orgID int64, filter CandidateFilter) ([]domain.Candidate, int64, error) {
	var list []domain.Candidate
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("organization_id = ?", orgID)
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if s := strings.TrimSpace(filter.Search); s != "" {
			pattern := "%" + strings.ToLower(s) + "%"
			db = db.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
		}
		return db
	}

	if err := conn(ctx, r.db).Model(&domain.Candidate{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := conn(ctx, r.db).
		Scopes(scope, paginate(filter.Limit, filter.Offset)).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, total, err
}

func (r *candidateRepository) ListIDs(ctx context.Context, orgID int64) ([]int64, error) {
	var ids []int64
	err := conn(ctx, r.db).Model(&domain.Candidate{}).
		Where("organization_id = ?", orgID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *candidateRepository) Update(ctx context.Context, c *domain.Candidate) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(c).Error
}

// UpdateStatus меняет только статус, не трогая остальные поля строки
func (r *candidateRepository) UpdateStatus(ctx context.Context, id int64, status domain.CandidateStatus, updatedBy *int64) error {
	result := conn(ctx, r.db).Model(&domain.Candidate{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_by": updatedBy})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}

func (r *candidateRepository) Delete(ctx context.Context, orgID, id int64) error {
	db := conn(ctx, r.db)
	appIDs := db.Model(&domain.Application{}).Select("id").Where("candidate_id = ?", id)
	if err := db.Where("application_id IN (?)", appIDs).Delete(&domain.InterviewSchedule{}).Error; err != nil {
		return err
	}
	if err := db.Where("candidate_id = ?", id).Delete(&domain.Application{}).Error; err != nil {
		return err
	}
	result := db.Where("organization_id = ?", orgID).Delete(&domain.Candidate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCandidateNotFound
	}
	return nil
}
