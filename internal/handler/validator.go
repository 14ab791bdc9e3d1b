package handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hr-admin-api/internal/domain"
)

// NewValidator создаёт валидатор с тегами для закрытых перечислений статусов.
// Вызывается один раз при старте; ошибка регистрации тега приводит к панике.
func NewValidator() *validator.Validate {
	v := validator.New()

	enums := map[string]func(string) error{
		"candidate_status": func(s string) error {
			_, err := domain.ParseCandidateStatus(s)
			return err
		},
		"application_status": func(s string) error {
			_, err := domain.ParseApplicationStatus(s)
			return err
		},
		"interview_result": func(s string) error {
			_, err := domain.ParseInterviewResult(s)
			return err
		},
		"entity_type": func(s string) error {
			_, err := domain.ParseEntityType(s)
			return err
		},
	}

	for tag, parse := range enums {
		parse := parse
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return parse(fl.Field().String()) == nil
		})
		if err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}

	return v
}
