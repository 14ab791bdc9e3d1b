package domain

import "fmt"

// CandidateStatus - статус кандидата
type CandidateStatus string

const (
	CandidateNew       CandidateStatus = "New"
	CandidateInProcess CandidateStatus = "In Process"
	CandidateSelected  CandidateStatus = "Selected"
	CandidateRejected  CandidateStatus = "Rejected"
	CandidateOnHold    CandidateStatus = "On Hold"
)

// ParseCandidateStatus разбирает строку в статус кандидата
func ParseCandidateStatus(s string) (CandidateStatus, error) {
	switch st := CandidateStatus(s); st {
	case CandidateNew, CandidateInProcess, CandidateSelected, CandidateRejected, CandidateOnHold:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown candidate status %q", ErrInvalidStatus, s)
}

// ApplicationStatus - статус заявки
type ApplicationStatus string

const (
	ApplicationApplied            ApplicationStatus = "Applied"
	ApplicationShortlisted        ApplicationStatus = "Shortlisted"
	ApplicationInterviewScheduled ApplicationStatus = "Interview Scheduled"
	ApplicationSelected           ApplicationStatus = "Selected"
	ApplicationRejected           ApplicationStatus = "Rejected"
)

// ParseApplicationStatus разбирает строку в статус заявки
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch st := ApplicationStatus(s); st {
	case ApplicationApplied, ApplicationShortlisted, ApplicationInterviewScheduled, ApplicationSelected, ApplicationRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown application status %q", ErrInvalidStatus, s)
}

// IsTerminal сообщает, что автоматические правила больше не меняют статус
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationSelected || s == ApplicationRejected
}

// IsActive - заявка ещё в работе
func (s ApplicationStatus) IsActive() bool {
	return s == ApplicationApplied || s == ApplicationShortlisted || s == ApplicationInterviewScheduled
}

// InterviewStatus - статус собеседования
type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "Scheduled"
	InterviewCompleted   InterviewStatus = "Completed"
	InterviewCancelled   InterviewStatus = "Cancelled"
	InterviewRescheduled InterviewStatus = "Rescheduled"
)

// ParseInterviewStatus разбирает строку в статус собеседования
func ParseInterviewStatus(s string) (InterviewStatus, error) {
	switch st := InterviewStatus(s); st {
	case InterviewScheduled, InterviewCompleted, InterviewCancelled, InterviewRescheduled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown interview status %q", ErrInvalidStatus, s)
}

// InterviewResult - итог собеседования
type InterviewResult string

const (
	ResultPass   InterviewResult = "Pass"
	ResultFail   InterviewResult = "Fail"
	ResultOnHold InterviewResult = "On Hold"
)

// ParseInterviewResult разбирает строку в итог собеседования
func ParseInterviewResult(s string) (InterviewResult, error) {
	switch r := InterviewResult(s); r {
	case ResultPass, ResultFail, ResultOnHold:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown interview result %q", ErrInvalidStatus, s)
}

// JobPositionStatus - статус вакансии
type JobPositionStatus string

const (
	JobPositionOpen   JobPositionStatus = "Open"
	JobPositionClosed JobPositionStatus = "Closed"
)

// EntityType - тип сущности в журнале смены статусов
type EntityType string

const (
	EntityCandidate   EntityType = "Candidate"
	EntityApplication EntityType = "Application"
	EntityInterview   EntityType = "Interview"
)

// ParseEntityType разбирает строку в тип сущности журнала
func ParseEntityType(s string) (EntityType, error) {
	switch t := EntityType(s); t {
	case EntityCandidate, EntityApplication, EntityInterview:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown entity type %q", ErrInvalidStatus, s)
}
