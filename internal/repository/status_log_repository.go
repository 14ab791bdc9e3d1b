package repository

import (
	"context"
	"time"

	"github.com/hr-admin-api/internal/domain"
	"gorm.io/gorm"
)

// StatusLogQuery - параметры выборки журнала смены статусов
type StatusLogQuery struct {
	EntityType    *domain.EntityType
	EntityID      *int64
	ChangedBy     *int64
	IsAutomatic   *bool
	CorrelationID string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// StatusLogRepository определяет интерфейс журнала смены статусов.
// Журнал только пополняется: методов изменения и удаления нет.
type StatusLogRepository interface {
	Create(ctx context.Context, entry *domain.StatusChangeLog) error
	Query(ctx context.Context, orgID int64, q StatusLogQuery) ([]domain.StatusChangeLog, int64, error)
	ListByEntity(ctx context.Context, orgID int64, entityType domain.EntityType, entityID int64) ([]domain.StatusChangeLog, error)
}

type statusLogRepository struct {
	db *gorm.DB
}

// NewStatusLogRepository создаёт новый экземпляр репозитория
func NewStatusLogRepository(db *gorm.DB) StatusLogRepository {
	return &statusLogRepository{db: db}
}

func (r *statusLogRepository) Create(ctx context.Context, entry *domain.StatusChangeLog) error {
	return conn(ctx, r.db).Create(entry).Error
}

func (r *statusLogRepository) Query(ctx context.Context, orgID int64, q StatusLogQuery) ([]domain.StatusChangeLog, int64, error) {
	var list []domain.StatusChangeLog
	var total int64

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("organization_id = ?", orgID)
		if q.EntityType != nil {
			db = db.Where("entity_type = ?", *q.EntityType)
		}
		if q.EntityID != nil {
			db = db.Where("entity_id = ?", *q.EntityID)
		}
		if q.ChangedBy != nil {
			db = db.Where("changed_by = ?", *q.ChangedBy)
		}
		if q.IsAutomatic != nil {
			db = db.Where("is_automatic = ?", *q.IsAutomatic)
		}
		if q.CorrelationID != "" {
			db = db.Where("correlation_id = ?", q.CorrelationID)
		}
		if q.From != nil {
			db = db.Where("created_at >= ?", *q.From)
		}
		if q.To != nil {
			db = db.Where("created_at <= ?", *q.To)
		}
		return db
	}

	if err := conn(ctx, r.db).Model(&domain.StatusChangeLog{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := conn(ctx, r.db).
		Scopes(scope, paginate(q.Limit, q.Offset)).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, total, err
}

// ListByEntity возвращает историю сущности в хронологическом порядке
func (r *statusLogRepository) ListByEntity(ctx context.Context, orgID int64, entityType domain.EntityType, entityID int64) ([]domain.StatusChangeLog, error) {
	var list []domain.StatusChangeLog
	err := conn(ctx, r.db).
		Where("organization_id = ? AND entity_type = ? AND entity_id = ?", orgID, entityType, entityID).
		Order("created_at ASC").Order("id ASC").
		Find(&list).Error
	return list, err
}
