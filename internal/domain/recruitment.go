package domain

import "strings"

// FinalRoundPassThreshold - после стольких пройденных раундов заявка считается одобренной
const FinalRoundPassThreshold = 3

// IsFinalRound определяет, был ли пройденный раунд финальным.
// passedCount уже учитывает текущее собеседование.
func IsFinalRound(roundName string, passedCount int64) bool {
	name := strings.ToLower(roundName)
	if strings.Contains(name, "final") || strings.Contains(name, "hr") {
		return true
	}
	return passedCount >= FinalRoundPassThreshold
}

// StatusAfterScheduling возвращает статус заявки после назначения собеседования.
// Второе значение false, если статус не меняется.
func StatusAfterScheduling(current ApplicationStatus) (ApplicationStatus, bool) {
	if current == ApplicationInterviewScheduled || current.IsTerminal() {
		return current, false
	}
	return ApplicationInterviewScheduled, true
}

// StatusAfterResult возвращает статус заявки после завершённого собеседования.
// Fail отклоняет заявку в любом статусе; Pass не выводит заявку из
// терминального статуса; On Hold ничего не меняет.
func StatusAfterResult(current ApplicationStatus, result InterviewResult, finalRound bool) (ApplicationStatus, bool) {
	next := current
	switch result {
	case ResultFail:
		next = ApplicationRejected
	case ResultPass:
		if current.IsTerminal() {
			return current, false
		}
		next = ApplicationShortlisted
		if finalRound {
			next = ApplicationSelected
		}
	case ResultOnHold:
		return current, false
	}
	return next, next != current
}

// DeriveCandidateStatus вычисляет статус кандидата по статусам всех его заявок.
// Правила проверяются по порядку, срабатывает первое подходящее.
// Второе значение false, если статус принудительно не определяется.
func DeriveCandidateStatus(statuses []ApplicationStatus) (CandidateStatus, bool) {
	if len(statuses) == 0 {
		return "", false
	}

	allRejected := true
	anyActive := false
	for _, s := range statuses {
		if s == ApplicationSelected {
			return CandidateSelected, true
		}
		if s != ApplicationRejected {
			allRejected = false
		}
		if s.IsActive() {
			anyActive = true
		}
	}

	if allRejected {
		return CandidateRejected, true
	}
	if anyActive {
		return CandidateInProcess, true
	}
	return "", false
}
