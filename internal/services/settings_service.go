package services

import (
	"github.com/shopspring/decimal"

	"shop_backend/internal/models"
	"shop_backend/internal/repository"
)

type SettingsService interface {
	Get() (*models.Settings, error)
	UpdateShippingCost(cost decimal.Decimal) (*models.Settings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) Get() (*models.Settings, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, ErrSettingsMissing
	}
	return settings, nil
}

func (s *settingsService) UpdateShippingCost(cost decimal.Decimal) (*models.Settings, error) {
	if err := s.settingsRepo.UpdateShippingCost(cost); err != nil {
		return nil, err
	}
	return s.Get()
}
