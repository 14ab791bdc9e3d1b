package service

import (
	"context"

	"github.com/hr-admin-api/internal/domain"
	"github.com/hr-admin-api/internal/repository"
)

// OrganizationService определяет интерфейс операций супер-администратора
type OrganizationService interface {
	List(ctx context.Context) ([]domain.Organization, error)
}

type organizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService создаёт новый экземпляр сервиса
func NewOrganizationService(orgRepo repository.OrganizationRepository) OrganizationService {
	return &organizationService{orgRepo: orgRepo}
}

func (s *organizationService) List(ctx context.Context) ([]domain.Organization, error) {
	return s.orgRepo.List(ctx)
}
