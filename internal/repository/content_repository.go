package repository

import (
	"errors"

	"shop_backend/internal/models"

	"gorm.io/gorm"
)

type ContentRepository interface {
	CreateBanner(banner *models.Banner) error
	GetBanner(id uint) (*models.Banner, error)
	GetBannersByType(bannerType models.BannerType) ([]models.Banner, error)
	UpdateBanner(banner *models.Banner) error
	DeleteBanner(id uint) error

	CreateBrand(brand *models.Brand) error
	GetBrand(id uint) (*models.Brand, error)
	GetBrands() ([]models.Brand, error)
	UpdateBrand(brand *models.Brand) error
	DeleteBrand(id uint) error

	CreateSection(section *models.Section) error
	GetSectionByCode(code string) (*models.Section, error)
	GetSections() ([]models.Section, error)
	SetSectionProducts(section *models.Section, products []models.Product) error
	DeleteSection(id uint) error

	CreateContact(contact *models.Contact) error
	GetContacts() ([]models.Contact, error)
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) CreateBanner(banner *models.Banner) error {
	return r.db.Create(banner).Error
}

func (r *contentRepository) GetBanner(id uint) (*models.Banner, error) {
	var banner models.Banner
	err := r.db.First(&banner, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *contentRepository) GetBannersByType(bannerType models.BannerType) ([]models.Banner, error) {
	var banners []models.Banner
	err := r.db.Where("banner_type = ?", string(bannerType)).Order(`"order" asc`).Find(&banners).Error
	return banners, err
}

func (r *contentRepository) UpdateBanner(banner *models.Banner) error {
	return r.db.Save(banner).Error
}

func (r *contentRepository) DeleteBanner(id uint) error {
	return r.db.Delete(&models.Banner{}, id).Error
}

func (r *contentRepository) CreateBrand(brand *models.Brand) error {
	return r.db.Create(brand).Error
}

func (r *contentRepository) GetBrand(id uint) (*models.Brand, error) {
	var brand models.Brand
	err := r.db.First(&brand, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *contentRepository) GetBrands() ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.Order(`"order" asc`).Find(&brands).Error
	return brands, err
}

func (r *contentRepository) UpdateBrand(brand *models.Brand) error {
	return r.db.Save(brand).Error
}

func (r *contentRepository) DeleteBrand(id uint) error {
	return r.db.Delete(&models.Brand{}, id).Error
}

func (r *contentRepository) CreateSection(section *models.Section) error {
	return r.db.Create(section).Error
}

func (r *contentRepository) GetSectionByCode(code string) (*models.Section, error) {
	var section models.Section
	err := r.db.Preload("Products", "on_sale = ? AND quantity > 0", true).
		Where("code = ?", code).First(&section).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *contentRepository) GetSections() ([]models.Section, error) {
	var sections []models.Section
	err := r.db.Preload("Products", "on_sale = ? AND quantity > 0", true).Find(&sections).Error
	return sections, err
}

func (r *contentRepository) SetSectionProducts(section *models.Section, products []models.Product) error {
	return r.db.Model(section).Association("Products").Replace(products)
}

func (r *contentRepository) DeleteSection(id uint) error {
	return r.db.Delete(&models.Section{}, id).Error
}

func (r *contentRepository) CreateContact(contact *models.Contact) error {
	return r.db.Create(contact).Error
}

func (r *contentRepository) GetContacts() ([]models.Contact, error) {
	var contacts []models.Contact
	err := r.db.Order("created_at desc").Find(&contacts).Error
	return contacts, err
}
