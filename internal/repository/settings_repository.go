package repository

import (
	"errors"

	"shop_backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Ensure creates the singleton row when missing. Run once at startup.
	Ensure(defaultShipping decimal.Decimal) error
	Get() (*models.Settings, error)
	UpdateShippingCost(cost decimal.Decimal) error
	UpdateUSDRate(rate decimal.Decimal) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Ensure(defaultShipping decimal.Decimal) error {
	settings := models.Settings{ID: models.SettingsID, ShippingCost: defaultShipping}
	return r.db.Where("id = ?", models.SettingsID).FirstOrCreate(&settings).Error
}

func (r *settingsRepository) Get() (*models.Settings, error) {
	var settings models.Settings
	err := r.db.First(&settings, models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) UpdateShippingCost(cost decimal.Decimal) error {
	return r.db.Model(&models.Settings{}).Where("id = ?", models.SettingsID).
		Update("shipping_cost", cost).Error
}

func (r *settingsRepository) UpdateUSDRate(rate decimal.Decimal) error {
	return r.db.Model(&models.Settings{}).Where("id = ?", models.SettingsID).
		Update("usd_rate", rate).Error
}
