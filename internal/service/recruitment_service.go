package service

import (
	"context"
	"strings"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/dto"
	"github.com/hr-admin-api/internal/repository"
)

// RecruitmentService определяет интерфейс подбора персонала:
// вакансии, кандидаты, заявки и собеседования.
// Смена статусов делегируется StatusSyncService.
type RecruitmentService interface {
	CreateJobPosition(ctx context.Context, actor domain.Actor, req *dto.CreateJobPositionRequest) (*domain.JobPosition, error)
	GetJobPosition(ctx context.Context, actor domain.Actor, id int64) (*domain.JobPosition, error)
	ListJobPositions(ctx context.Context, actor domain.Actor, status *domain.JobPositionStatus) ([]domain.JobPosition, error)

	CreateCandidate(ctx context.Context, actor domain.Actor, req *dto.CreateCandidateRequest) (*domain.Candidate, error)
	GetCandidate(ctx context.Context, actor domain.Actor, id int64) (*domain.Candidate, error)
	ListCandidates(ctx context.Context, actor domain.Actor, filter repository.CandidateFilter) ([]domain.Candidate, int64, error)
	UpdateCandidate(ctx context.Context, actor domain.Actor, id int64, req *dto.UpdateCandidateRequest) (*domain.Candidate, error)
	DeleteCandidate(ctx context.Context, actor domain.Actor, id int64) error
	SetCandidateStatus(ctx context.Context, actor domain.Actor, id int64, req *dto.CandidateStatusRequest) (*domain.Candidate, error)
	RecomputeCandidate(ctx context.Context, actor domain.Actor, id int64) (*domain.Candidate, error)

	CreateApplication(ctx context.Context, actor domain.Actor, req *dto.CreateApplicationRequest) (*domain.Application, error)
	GetApplication(ctx context.Context, actor domain.Actor, id int64) (*domain.Application, error)
	ListApplications(ctx context.Context, actor domain.Actor, filter repository.ApplicationFilter) ([]domain.Application, int64, error)
	SetApplicationStatus(ctx context.Context, actor domain.Actor, id int64, req *dto.ApplicationStatusRequest) (*domain.Application, error)
	DeleteApplication(ctx context.Context, actor domain.Actor, id int64) error

	ScheduleInterview(ctx context.Context, actor domain.Actor, req *dto.ScheduleInterviewRequest) (*domain.InterviewSchedule, error)
	CompleteInterview(ctx context.Context, actor domain.Actor, id int64, req *dto.CompleteInterviewRequest) (*domain.InterviewSchedule, error)
	CancelInterview(ctx context.Context, actor domain.Actor, id int64, req *dto.CancelInterviewRequest) (*domain.InterviewSchedule, error)
	GetInterview(ctx context.Context, actor domain.Actor, id int64) (*domain.InterviewSchedule, error)
	ListInterviews(ctx context.Context, actor domain.Actor, applicationID *int64) ([]domain.InterviewSchedule, error)
}

type recruitmentService struct {
	tx       repository.Transactor
	jobRepo  repository.JobPositionRepository
	candRepo repository.CandidateRepository
	appRepo  repository.ApplicationRepository
	ivRepo   repository.InterviewRepository
	sync     StatusSyncService
}

// NewRecruitmentService создаёт новый экземпляр сервиса
func NewRecruitmentService(
	tx repository.Transactor,
	jobRepo repository.JobPositionRepository,
	candRepo repository.CandidateRepository,
	appRepo repository.ApplicationRepository,
	ivRepo repository.InterviewRepository,
	sync StatusSyncService,
) RecruitmentService {
	return &recruitmentService{
		tx:       tx,
		jobRepo:  jobRepo,
		candRepo: candRepo,
		appRepo:  appRepo,
		ivRepo:   ivRepo,
		sync:     sync,
	}
}

// ---- Вакансии ----

func (s *recruitmentService) CreateJobPosition(ctx context.Context, actor domain.Actor, req *dto.CreateJobPositionRequest) (*domain.JobPosition, error) {
	job := &domain.JobPosition{
		OrganizationID: actor.OrganizationID,
		Title:          strings.TrimSpace(req.Title),
		DepartmentID:   req.DepartmentID,
		Openings:       req.Openings,
		Status:         domain.JobPositionOpen,
		CreatedBy:      actor.ActorID(),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *recruitmentService) GetJobPosition(ctx context.Context, actor domain.Actor, id int64) (*domain.JobPosition, error) {
	return s.jobRepo.GetByID(ctx, actor.OrganizationID, id)
}

func (s *recruitmentService) ListJobPositions(ctx context.Context, actor domain.Actor, status *domain.JobPositionStatus) ([]domain.JobPosition, error) {
	return s.jobRepo.List(ctx, actor.OrganizationID, status)
}

// ---- Кандидаты ----

func (s *recruitmentService) CreateCandidate(ctx context.Context, actor domain.Actor, req *dto.CreateCandidateRequest) (*domain.Candidate, error) {
	cand := &domain.Candidate{
		OrganizationID: actor.OrganizationID,
		FullName:       strings.TrimSpace(req.FullName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Status:         domain.CandidateNew,
		CreatedBy:      actor.ActorID(),
		UpdatedBy:      actor.ActorID(),
	}
	if err := s.candRepo.Create(ctx, cand); err != nil {
		return nil, err
	}
	return cand, nil
}

func (s *recruitmentService) GetCandidate(ctx context.Context, actor domain.Actor, id int64) (*domain.Candidate, error) {
	return s.candRepo.GetByID(ctx, actor.OrganizationID, id, true)
}

func (s *recruitmentService) ListCandidates(ctx context.Context, actor domain.Actor, filter repository.CandidateFilter) ([]domain.Candidate, int64, error) {
	return s.candRepo.List(ctx, actor.OrganizationID, filter)
}

func (s *recruitmentService) UpdateCandidate(ctx context.Context, actor domain.Actor, id int64, req *dto.UpdateCandidateRequest) (*domain.Candidate, error) {
	cand, err := s.candRepo.GetByID(ctx, actor.OrganizationID, id, false)
	if err != nil {
		return nil, err
	}

	// Статус через этот метод не меняется
	if req.FullName != nil {
		cand.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		cand.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		cand.Phone = strings.TrimSpace(*req.Phone)
	}
	cand.UpdatedBy = actor.ActorID()

	if err := s.candRepo.Update(ctx, cand); err != nil {
		return nil, err
	}
	return cand, nil
}

func (s *recruitmentService) DeleteCandidate(ctx context.Context, actor domain.Actor, id int64) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.candRepo.Delete(ctx, actor.OrganizationID, id)
	})
}

func (s *recruitmentService) SetCandidateStatus(ctx context.Context, actor domain.Actor, id int64, req *dto.CandidateStatusRequest) (*domain.Candidate, error) {
	status, err := domain.ParseCandidateStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return s.sync.SetCandidateStatus(ctx, actor, id, status, strings.TrimSpace(req.Reason))
}

func (s *recruitmentService) RecomputeCandidate(ctx context.Context, actor domain.Actor, id int64) (*domain.Candidate, error) {
	return s.sync.RecomputeCandidate(ctx, actor, actor.OrganizationID, id)
}

// ---- Заявки ----

func (s *recruitmentService) CreateApplication(ctx context.Context, actor domain.Actor, req *dto.CreateApplicationRequest) (*domain.Application, error) {
	orgID := actor.OrganizationID

	var app *domain.Application
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.candRepo.GetByID(ctx, orgID, req.CandidateID, false); err != nil {
			return err
		}

		job, err := s.jobRepo.GetByID(ctx, orgID, req.JobPositionID)
		if err != nil {
			return err
		}
		if job.Status != domain.JobPositionOpen {
			return domain.ErrJobPositionClosed
		}

		app = &domain.Application{
			OrganizationID: orgID,
			CandidateID:    req.CandidateID,
			JobPositionID:  req.JobPositionID,
			Status:         domain.ApplicationApplied,
			CreatedBy:      actor.ActorID(),
			UpdatedBy:      actor.ActorID(),
		}
		if err := s.appRepo.Create(ctx, app); err != nil {
			return err
		}

		return s.sync.SyncCandidate(ctx, actor, orgID, app.CandidateID)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *recruitmentService) GetApplication(ctx context.Context, actor domain.Actor, id int64) (*domain.Application, error) {
	return s.appRepo.GetByID(ctx, actor.OrganizationID, id, true)
}

func (s *recruitmentService) ListApplications(ctx context.Context, actor domain.Actor, filter repository.ApplicationFilter) ([]domain.Application, int64, error) {
	return s.appRepo.List(ctx, actor.OrganizationID, filter)
}

func (s *recruitmentService) SetApplicationStatus(ctx context.Context, actor domain.Actor, id int64, req *dto.ApplicationStatusRequest) (*domain.Application, error) {
	status, err := domain.ParseApplicationStatus(req.Status)
	if err != nil {
		return nil, err
	}
	return s.sync.SetApplicationStatus(ctx, actor, id, status, strings.TrimSpace(req.Reason))
}

func (s *recruitmentService) DeleteApplication(ctx context.Context, actor domain.Actor, id int64) error {
	orgID := actor.OrganizationID

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		app, err := s.appRepo.GetByID(ctx, orgID, id, false)
		if err != nil {
			return err
		}
		if err := s.appRepo.Delete(ctx, orgID, id); err != nil {
			return err
		}
		return s.sync.SyncCandidate(ctx, actor, orgID, app.CandidateID)
	})
}

// ---- Собеседования ----

func (s *recruitmentService) ScheduleInterview(ctx context.Context, actor domain.Actor, req *dto.ScheduleInterviewRequest) (*domain.InterviewSchedule, error) {
	orgID := actor.OrganizationID

	var iv *domain.InterviewSchedule
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.appRepo.GetByID(ctx, orgID, req.ApplicationID, false); err != nil {
			return err
		}

		iv = &domain.InterviewSchedule{
			OrganizationID: orgID,
			ApplicationID:  req.ApplicationID,
			RoundName:      strings.TrimSpace(req.RoundName),
			ScheduledAt:    req.ScheduledAt,
			InterviewerID:  req.InterviewerID,
			Status:         domain.InterviewScheduled,
			CreatedBy:      actor.ActorID(),
			UpdatedBy:      actor.ActorID(),
		}
		if err := s.ivRepo.Create(ctx, iv); err != nil {
			return err
		}

		return s.sync.OnInterviewScheduled(ctx, actor, iv)
	})
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *recruitmentService) CompleteInterview(ctx context.Context, actor domain.Actor, id int64, req *dto.CompleteInterviewRequest) (*domain.InterviewSchedule, error) {
	result, err := domain.ParseInterviewResult(req.Result)
	if err != nil {
		return nil, err
	}

	var iv *domain.InterviewSchedule
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		iv, err = s.openInterview(ctx, actor.OrganizationID, id)
		if err != nil {
			return err
		}

		iv.Status = domain.InterviewCompleted
		iv.Result = &result
		iv.Feedback = strings.TrimSpace(req.Feedback)
		iv.UpdatedBy = actor.ActorID()
		if err := s.ivRepo.Update(ctx, iv); err != nil {
			return err
		}

		return s.sync.OnInterviewCompleted(ctx, actor, iv)
	})
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *recruitmentService) CancelInterview(ctx context.Context, actor domain.Actor, id int64, req *dto.CancelInterviewRequest) (*domain.InterviewSchedule, error) {
	var iv *domain.InterviewSchedule
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		iv, err = s.openInterview(ctx, actor.OrganizationID, id)
		if err != nil {
			return err
		}

		old := iv.Status
		iv.Status = domain.InterviewCancelled
		iv.UpdatedBy = actor.ActorID()
		if err := s.ivRepo.Update(ctx, iv); err != nil {
			return err
		}

		return s.sync.OnInterviewCancelled(ctx, actor, iv, old, strings.TrimSpace(req.Reason))
	})
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *recruitmentService) GetInterview(ctx context.Context, actor domain.Actor, id int64) (*domain.InterviewSchedule, error) {
	return s.ivRepo.GetByID(ctx, actor.OrganizationID, id)
}

func (s *recruitmentService) ListInterviews(ctx context.Context, actor domain.Actor, applicationID *int64) ([]domain.InterviewSchedule, error) {
	return s.ivRepo.List(ctx, actor.OrganizationID, applicationID)
}

// openInterview возвращает собеседование, которое ещё можно завершить или отменить
func (s *recruitmentService) openInterview(ctx context.Context, orgID, id int64) (*domain.InterviewSchedule, error) {
	iv, err := s.ivRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if iv.Status != domain.InterviewScheduled && iv.Status != domain.InterviewRescheduled {
		return nil, domain.ErrInterviewNotOpen
	}
	return iv, nil
}
