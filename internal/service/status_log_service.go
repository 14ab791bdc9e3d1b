package service

import (
	"context"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/metrics"
	"github.com/hr-admin-api/internal/repository"
)

const (
	defaultStatusLogLimit = 50
	maxStatusLogLimit     = 200
)

// StatusLogService определяет интерфейс журнала смены статусов
type StatusLogService interface {
	Record(ctx context.Context, entry *domain.StatusChangeLog) error
	ListByEntity(ctx context.Context, actor domain.Actor, entityType domain.EntityType, entityID int64) ([]domain.StatusChangeLog, error)
	Query(ctx context.Context, actor domain.Actor, q repository.StatusLogQuery) ([]domain.StatusChangeLog, int64, error)
}

type statusLogService struct {
	logRepo repository.StatusLogRepository
}

// NewStatusLogService создаёт новый экземпляр сервиса
func NewStatusLogService(logRepo repository.StatusLogRepository) StatusLogService {
	return &statusLogService{logRepo: logRepo}
}

// Record добавляет запись в журнал. Переход в тот же статус не записывается.
func (s *statusLogService) Record(ctx context.Context, entry *domain.StatusChangeLog) error {
	if entry.OldStatus == entry.NewStatus {
		return nil
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return err
	}
	metrics.RecordStatusTransition(string(entry.EntityType), entry.IsAutomatic)
	return nil
}

func (s *statusLogService) ListByEntity(ctx context.Context, actor domain.Actor, entityType domain.EntityType, entityID int64) ([]domain.StatusChangeLog, error) {
	return s.logRepo.ListByEntity(ctx, actor.OrganizationID, entityType, entityID)
}

func (s *statusLogService) Query(ctx context.Context, actor domain.Actor, q repository.StatusLogQuery) ([]domain.StatusChangeLog, int64, error) {
	switch {
	case q.Limit <= 0:
		q.Limit = defaultStatusLogLimit
	case q.Limit > maxStatusLogLimit:
		q.Limit = maxStatusLogLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return s.logRepo.Query(ctx, actor.OrganizationID, q)
}
