package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/repository"
)

const (
	reasonInterviewScheduled = "Interview scheduled"
	reasonCandidateRecompute = "Auto-updated based on application statuses"
	reasonManualUpdate       = "Manually updated by user"
	reasonInterviewCancelled = "Interview cancelled"
)

// StatusSyncService определяет интерфейс синхронизации статусов
// Candidate <- Application <- InterviewSchedule.
//
// Каждая операция выполняется в транзакции (или присоединяется к уже
// открытой) и пишет журнал смены статусов. Все записи одного каскада
// получают общий correlation id.
type StatusSyncService interface {
	// OnInterviewScheduled применяет правило назначения собеседования к заявке
	OnInterviewScheduled(ctx context.Context, actor domain.Actor, iv *domain.InterviewSchedule) error
	// OnInterviewCompleted применяет правила Fail/Pass/On Hold к заявке
	OnInterviewCompleted(ctx context.Context, actor domain.Actor, iv *domain.InterviewSchedule) error
	// OnInterviewCancelled фиксирует отмену собеседования в журнале
	OnInterviewCancelled(ctx context.Context, actor domain.Actor, iv *domain.InterviewSchedule, oldStatus domain.InterviewStatus, reason string) error
	// SyncCandidate пересчитывает статус кандидата; отсутствие кандидата не ошибка
	SyncCandidate(ctx context.Context, actor domain.Actor, orgID, candidateID int64) error
	// RecomputeCandidate - явный пересчёт с возвратом актуального кандидата
	RecomputeCandidate(ctx context.Context, actor domain.Actor, orgID, candidateID int64) (*domain.Candidate, error)
	SetApplicationStatus(ctx context.Context, actor domain.Actor, applicationID int64, status domain.ApplicationStatus, reason string) (*domain.Application, error)
	SetCandidateStatus(ctx context.Context, actor domain.Actor, candidateID int64, status domain.CandidateStatus, reason string) (*domain.Candidate, error)
}

type statusSyncService struct {
	tx           repository.Transactor
	appRepo      repository.ApplicationRepository
	candRepo     repository.CandidateRepository
	ivRepo       repository.InterviewRepository
	logService   StatusLogService
	systemUserID int64
	logger       *slog.Logger
}

// NewStatusSyncService создаёт новый экземпляр сервиса.
// systemUserID записывается в changed_by, когда инициатор неизвестен.
func NewStatusSyncService(
	tx repository.Transactor,
	appRepo repository.ApplicationRepository,
	candRepo repository.CandidateRepository,
	ivRepo repository.InterviewRepository,
	logService StatusLogService,
	systemUserID int64,
	logger *slog.Logger,
) StatusSyncService {
	return &statusSyncService{
		tx:           tx,
		appRepo:      appRepo,
		candRepo:     candRepo,
		ivRepo:       ivRepo,
		logService:   logService,
		systemUserID: systemUserID,
		logger:       logger,
	}
}

type correlationKey struct{}

// withCorrelation возвращает контекст с correlation id каскада, сохраняя уже выданный
func withCorrelation(ctx context.Context) (context.Context, string) {
	if id, ok := ctx.Value(correlationKey{}).(string); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return context.WithValue(ctx, correlationKey{}, id), id
}

func (s *statusSyncService) OnInterviewScheduled(ctx context.Context, actor domain.Actor, iv *domain.InterviewSchedule) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ctx, _ = withCorrelation(ctx)

		app, err := s.appRepo.GetByID(ctx, iv.OrganizationID, iv.ApplicationID, false)
		if err != nil {
			return s.skipMissing(err, "status sync: application not found for scheduled interview",
				"interview_id", iv.ID, "application_id", iv.ApplicationID)
		}

		next, changed := domain.StatusAfterScheduling(app.Status)
		if !changed {
			return nil
		}
		return s.applyApplicationStatus(ctx, actor, app, next, reasonInterviewScheduled, true)
	})
}

func (s *statusSyncService) OnInterviewCompleted(ctx context.Context, actor domain.Actor, iv *domain.InterviewSchedule) error {
	if iv.Result == nil {
		return nil
	}
	result := *iv.Result

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ctx, _ = withCorrelation(ctx)

		app, err := s.appRepo.GetByID(ctx, iv.OrganizationID, iv.ApplicationID, false)
		if err != nil {
			return s.skipMissing(err, "status sync: application not found for completed interview",
				"interview_id", iv.ID, "application_id", iv.ApplicationID)
		}

		finalRound := false
		if result == domain.ResultPass {
			passed, err := s.ivRepo.CountPassed(ctx, app.ID)
			if err != nil {
				return err
			}
			finalRound = domain.IsFinalRound(iv.RoundName, passed)
		}

		next, changed := domain.StatusAfterResult(app.Status, result, finalRound)
		if !changed {
			return nil
		}
		return s.applyApplicationStatus(ctx, actor, app, next, resultReason(iv.RoundName, result, finalRound), true)
	})
}

func (s *statusSyncService) OnInterviewCancelled(ctx context.Context, actor domain.Actor, iv *domain.InterviewSchedule, oldStatus domain.InterviewStatus, reason string) error {
	if reason == "" {
		reason = reasonInterviewCancelled
	}
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ctx, correlationID := withCorrelation(ctx)
		return s.logService.Record(ctx, &domain.StatusChangeLog{
			OrganizationID: iv.OrganizationID,
			EntityType:     domain.EntityInterview,
			EntityID:       iv.ID,
			OldStatus:      string(oldStatus),
			NewStatus:      string(iv.Status),
			ChangedBy:      s.changedBy(actor),
			Reason:         reason,
			IsAutomatic:    false,
			CorrelationID:  correlationID,
		})
	})
}

func (s *statusSyncService) SyncCandidate(ctx context.Context, actor domain.Actor, orgID, candidateID int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ctx, _ = withCorrelation(ctx)

		cand, err := s.candRepo.GetByID(ctx, orgID, candidateID, false)
		if err != nil {
			return s.skipMissing(err, "status sync: candidate not found for recompute",
				"candidate_id", candidateID)
		}
		return s.recompute(ctx, actor, cand)
	})
}

func (s *statusSyncService) RecomputeCandidate(ctx context.Context, actor domain.Actor, orgID, candidateID int64) (*domain.Candidate, error) {
	var cand *domain.Candidate
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ctx, _ = withCorrelation(ctx)

		var err error
		cand, err = s.candRepo.GetByID(ctx, orgID, candidateID, false)
		if err != nil {
			return err
		}
		return s.recompute(ctx, actor, cand)
	})
	if err != nil {
		return nil, err
	}
	return cand, nil
}

func (s *statusSyncService) SetApplicationStatus(ctx context.Context, actor domain.Actor, applicationID int64, status domain.ApplicationStatus, reason string) (*domain.Application, error) {
	if reason == "" {
		reason = reasonManualUpdate
	}

	var app *domain.Application
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ctx, _ = withCorrelation(ctx)

		var err error
		app, err = s.appRepo.GetByID(ctx, actor.OrganizationID, applicationID, false)
		if err != nil {
			return err
		}

		if app.Status == status {
			// Статус не меняется, но кандидат всё равно приводится в соответствие
			return s.SyncCandidate(ctx, actor, app.OrganizationID, app.CandidateID)
		}
		return s.applyApplicationStatus(ctx, actor, app, status, reason, false)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *statusSyncService) SetCandidateStatus(ctx context.Context, actor domain.Actor, candidateID int64, status domain.CandidateStatus, reason string) (*domain.Candidate, error) {
	if reason == "" {
		reason = reasonManualUpdate
	}

	var cand *domain.Candidate
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ctx, _ = withCorrelation(ctx)

		var err error
		cand, err = s.candRepo.GetByID(ctx, actor.OrganizationID, candidateID, false)
		if err != nil {
			return err
		}
		if cand.Status == status {
			return nil
		}
		return s.applyCandidateStatus(ctx, actor, cand, status, reason, false)
	})
	if err != nil {
		return nil, err
	}
	return cand, nil
}

// applyApplicationStatus записывает статус заявки, журнал и пересчитывает кандидата
func (s *statusSyncService) applyApplicationStatus(ctx context.Context, actor domain.Actor, app *domain.Application, status domain.ApplicationStatus, reason string, automatic bool) error {
	old := app.Status
	if err := s.appRepo.UpdateStatus(ctx, app.ID, status, actor.ActorID()); err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) && automatic {
			return s.skipMissing(err, "status sync: application disappeared before update",
				"application_id", app.ID)
		}
		return err
	}
	app.Status = status
	app.UpdatedBy = actor.ActorID()

	_, correlationID := withCorrelation(ctx)
	if err := s.logService.Record(ctx, &domain.StatusChangeLog{
		OrganizationID: app.OrganizationID,
		EntityType:     domain.EntityApplication,
		EntityID:       app.ID,
		OldStatus:      string(old),
		NewStatus:      string(status),
		ChangedBy:      s.changedBy(actor),
		Reason:         reason,
		IsAutomatic:    automatic,
		CorrelationID:  correlationID,
	}); err != nil {
		return err
	}

	s.logger.Info("application status changed",
		"application_id", app.ID,
		"old_status", old,
		"new_status", status,
		"automatic", automatic,
		"correlation_id", correlationID,
	)

	return s.SyncCandidate(ctx, actor, app.OrganizationID, app.CandidateID)
}

// recompute выводит статус кандидата из статусов всех его заявок
func (s *statusSyncService) recompute(ctx context.Context, actor domain.Actor, cand *domain.Candidate) error {
	statuses, err := s.appRepo.ListStatusesByCandidate(ctx, cand.ID)
	if err != nil {
		return err
	}

	next, ok := domain.DeriveCandidateStatus(statuses)
	if !ok || next == cand.Status {
		return nil
	}
	return s.applyCandidateStatus(ctx, actor, cand, next, reasonCandidateRecompute, true)
}

func (s *statusSyncService) applyCandidateStatus(ctx context.Context, actor domain.Actor, cand *domain.Candidate, status domain.CandidateStatus, reason string, automatic bool) error {
	old := cand.Status
	if err := s.candRepo.UpdateStatus(ctx, cand.ID, status, actor.ActorID()); err != nil {
		if errors.Is(err, domain.ErrCandidateNotFound) && automatic {
			return s.skipMissing(err, "status sync: candidate disappeared before update",
				"candidate_id", cand.ID)
		}
		return err
	}
	cand.Status = status
	cand.UpdatedBy = actor.ActorID()

	_, correlationID := withCorrelation(ctx)
	if err := s.logService.Record(ctx, &domain.StatusChangeLog{
		OrganizationID: cand.OrganizationID,
		EntityType:     domain.EntityCandidate,
		EntityID:       cand.ID,
		OldStatus:      string(old),
		NewStatus:      string(status),
		ChangedBy:      s.changedBy(actor),
		Reason:         reason,
		IsAutomatic:    automatic,
		CorrelationID:  correlationID,
	}); err != nil {
		return err
	}

	s.logger.Info("candidate status changed",
		"candidate_id", cand.ID,
		"old_status", old,
		"new_status", status,
		"automatic", automatic,
		"correlation_id", correlationID,
	)
	return nil
}

func (s *statusSyncService) changedBy(actor domain.Actor) int64 {
	if actor.UserID > 0 {
		return actor.UserID
	}
	return s.systemUserID
}

// skipMissing гасит ошибку "не найдено" в автоматическом каскаде; остальные ошибки возвращаются
func (s *statusSyncService) skipMissing(err error, msg string, args ...any) error {
	if errors.Is(err, domain.ErrApplicationNotFound) || errors.Is(err, domain.ErrCandidateNotFound) {
		s.logger.Error(msg, append(args, "error", err)...)
		return nil
	}
	return err
}

func resultReason(roundName string, result domain.InterviewResult, finalRound bool) string {
	switch {
	case result == domain.ResultFail:
		return fmt.Sprintf("Failed %s interview", roundName)
	case finalRound:
		return fmt.Sprintf("Passed %s interview (final round)", roundName)
	default:
		return fmt.Sprintf("Passed %s interview", roundName)
	}
}
