package services

import (
	"fmt"

	"shop_backend/internal/models"
	"shop_backend/internal/repository"
)

type BannerInput struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Order       int    `json:"order"`
	Description string `json:"description"`
	BannerType  string `json:"banner_type"`
}

type BrandInput struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Order int    `json:"order"`
}

type SectionInput struct {
	Name       string `json:"name"`
	Code       string `json:"code"`
	ProductIDs []uint `json:"product_ids"`
}

type ContactInput struct {
	FullName     string `json:"full_name"`
	PhoneOrEmail string `json:"phone_or_email"`
	Message      string `json:"message"`
}

type ContentService interface {
	Banners(bannerType models.BannerType) ([]models.Banner, error)
	CreateBanner(in BannerInput, imageURL, imageKey string) (*models.Banner, error)
	UpdateBanner(id uint, in BannerInput) (*models.Banner, error)
	DeleteBanner(id uint) error

	Brands() ([]models.Brand, error)
	CreateBrand(in BrandInput, imageURL, imageKey string) (*models.Brand, error)
	UpdateBrand(id uint, in BrandInput) (*models.Brand, error)
	DeleteBrand(id uint) error

	Sections() ([]models.Section, error)
	GetSection(code string) (*models.Section, error)
	CreateSection(in SectionInput) (*models.Section, error)
	SetSectionProducts(code string, productIDs []uint) (*models.Section, error)
	DeleteSection(code string) error

	SubmitContact(in ContactInput) (*models.Contact, error)
	Contacts() ([]models.Contact, error)
}

type contentService struct {
	contentRepo repository.ContentRepository
	productRepo repository.ProductRepository
	media       MediaStorage
}

func NewContentService(
	contentRepo repository.ContentRepository,
	productRepo repository.ProductRepository,
	media MediaStorage,
) ContentService {
	return &contentService{
		contentRepo: contentRepo,
		productRepo: productRepo,
		media:       media,
	}
}

func (s *contentService) Banners(bannerType models.BannerType) ([]models.Banner, error) {
	if bannerType == "" {
		bannerType = models.BannerDefault
	}
	return s.contentRepo.GetBannersByType(bannerType)
}

func (s *contentService) CreateBanner(in BannerInput, imageURL, imageKey string) (*models.Banner, error) {
	if in.BannerType == "" {
		in.BannerType = string(models.BannerDefault)
	}

	banner := &models.Banner{
		Title:       in.Title,
		Image:       imageURL,
		ObjectKey:   imageKey,
		URL:         in.URL,
		Order:       in.Order,
		Description: in.Description,
		BannerType:  in.BannerType,
	}
	if err := s.contentRepo.CreateBanner(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

// UpdateBanner changes attributes only; replacing the image means deleting
// and re-uploading the banner.
func (s *contentService) UpdateBanner(id uint, in BannerInput) (*models.Banner, error) {
	banner, err := s.contentRepo.GetBanner(id)
	if err != nil {
		return nil, err
	}
	if banner == nil {
		return nil, ErrBannerNotFound
	}

	banner.Title = in.Title
	banner.URL = in.URL
	banner.Order = in.Order
	banner.Description = in.Description
	if in.BannerType != "" {
		banner.BannerType = in.BannerType
	}

	if err := s.contentRepo.UpdateBanner(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *contentService) DeleteBanner(id uint) error {
	banner, err := s.contentRepo.GetBanner(id)
	if err != nil {
		return err
	}
	if banner == nil {
		return ErrBannerNotFound
	}

	if err := s.contentRepo.DeleteBanner(id); err != nil {
		return err
	}
	return s.media.Remove(banner.ObjectKey)
}

func (s *contentService) Brands() ([]models.Brand, error) {
	return s.contentRepo.GetBrands()
}

func (s *contentService) CreateBrand(in BrandInput, imageURL, imageKey string) (*models.Brand, error) {
	brand := &models.Brand{
		Name:      in.Name,
		Image:     imageURL,
		ObjectKey: imageKey,
		URL:       in.URL,
		Order:     in.Order,
	}
	if err := s.contentRepo.CreateBrand(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *contentService) UpdateBrand(id uint, in BrandInput) (*models.Brand, error) {
	brand, err := s.contentRepo.GetBrand(id)
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}

	brand.Name = in.Name
	brand.URL = in.URL
	brand.Order = in.Order

	if err := s.contentRepo.UpdateBrand(brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *contentService) DeleteBrand(id uint) error {
	brand, err := s.contentRepo.GetBrand(id)
	if err != nil {
		return err
	}
	if brand == nil {
		return ErrBrandNotFound
	}

	if err := s.contentRepo.DeleteBrand(id); err != nil {
		return err
	}
	return s.media.Remove(brand.ObjectKey)
}

func (s *contentService) Sections() ([]models.Section, error) {
	return s.contentRepo.GetSections()
}

func (s *contentService) GetSection(code string) (*models.Section, error) {
	section, err := s.contentRepo.GetSectionByCode(code)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, ErrSectionNotFound
	}
	return section, nil
}

func (s *contentService) CreateSection(in SectionInput) (*models.Section, error) {
	section := &models.Section{Name: in.Name, Code: in.Code}
	if err := s.contentRepo.CreateSection(section); err != nil {
		return nil, err
	}

	if len(in.ProductIDs) > 0 {
		products, err := s.resolveProducts(in.ProductIDs)
		if err != nil {
			return nil, err
		}
		if err := s.contentRepo.SetSectionProducts(section, products); err != nil {
			return nil, err
		}
		section.Products = products
	}
	return section, nil
}

func (s *contentService) SetSectionProducts(code string, productIDs []uint) (*models.Section, error) {
	section, err := s.contentRepo.GetSectionByCode(code)
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, ErrSectionNotFound
	}

	products, err := s.resolveProducts(productIDs)
	if err != nil {
		return nil, err
	}
	if err := s.contentRepo.SetSectionProducts(section, products); err != nil {
		return nil, err
	}
	section.Products = products
	return section, nil
}

func (s *contentService) resolveProducts(ids []uint) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		product, err := s.productRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("product %d: %w", id, ErrProductNotFound)
		}
		products = append(products, *product)
	}
	return products, nil
}

func (s *contentService) DeleteSection(code string) error {
	section, err := s.contentRepo.GetSectionByCode(code)
	if err != nil {
		return err
	}
	if section == nil {
		return ErrSectionNotFound
	}
	return s.contentRepo.DeleteSection(section.ID)
}

func (s *contentService) SubmitContact(in ContactInput) (*models.Contact, error) {
	contact := &models.Contact{
		FullName:     in.FullName,
		PhoneOrEmail: in.PhoneOrEmail,
		Message:      in.Message,
	}
	if err := s.contentRepo.CreateContact(contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contentService) Contacts() ([]models.Contact, error) {
	return s.contentRepo.GetContacts()
}
