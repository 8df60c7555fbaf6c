package services

import (
	"shop_backend/internal/models"
	"shop_backend/internal/repository"
	"shop_backend/pkg/slugify"

	"github.com/shopspring/decimal"
)

type CategoryInput struct {
	Title    string `json:"title"`
	ParentID *uint  `json:"parent_id"`
	Order    int    `json:"order"`
	Top      bool   `json:"top"`
}

type ProductInput struct {
	Title       string           `json:"title"`
	Price       decimal.Decimal  `json:"price"`
	PriceUZS    *decimal.Decimal `json:"price_uzs"`
	Discount    int              `json:"discount"`
	Description string           `json:"description"`
	Body        string           `json:"body"`
	VideoURL    string           `json:"video_url"`
	Quantity    int              `json:"quantity"`
	OnSale      bool             `json:"on_sale"`
	IsMany      bool             `json:"is_many"`
	CategoryID  uint             `json:"category_id"`
}

type ProductPatch struct {
	Title       *string          `json:"title"`
	Price       *decimal.Decimal `json:"price"`
	PriceUZS    *decimal.Decimal `json:"price_uzs"`
	Discount    *int             `json:"discount"`
	Description *string          `json:"description"`
	Body        *string          `json:"body"`
	VideoURL    *string          `json:"video_url"`
	Quantity    *int             `json:"quantity"`
	OnSale      *bool            `json:"on_sale"`
	IsMany      *bool            `json:"is_many"`
	CategoryID  *uint            `json:"category_id"`
}

type ProductListInput struct {
	CategorySlug string
	Search       string
	Page         int
	PageSize     int
}

type CatalogService interface {
	TopCategories() ([]models.Category, error)
	AllCategories() ([]models.Category, error)
	GetCategoryBySlug(slug string) (*models.Category, error)
	CreateCategory(in CategoryInput) (*models.Category, error)
	UpdateCategory(id uint, in CategoryInput) (*models.Category, error)
	SetCategoryImage(id uint, url, key string, icon bool) (*models.Category, error)
	DeleteCategory(id uint) error

	ListProducts(in ProductListInput) ([]models.Product, int64, error)
	GetProductBySlug(slug string) (*models.Product, error)
	CreateProduct(in ProductInput) (*models.Product, error)
	UpdateProduct(id uint, patch ProductPatch) (*models.Product, error)
	DeleteProduct(id uint) error

	AddGalleryImage(productID uint, url, key string) (*models.Gallery, error)
	RemoveGalleryImage(galleryID uint) error
	AddCharacteristic(productID uint, title, value string) (*models.ProductCharacteristic, error)
	RemoveCharacteristic(id uint) error
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	media        MediaStorage
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	settingsRepo repository.SettingsRepository,
	media MediaStorage,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		media:        media,
	}
}

func (s *catalogService) TopCategories() ([]models.Category, error) {
	return s.categoryRepo.GetTop()
}

func (s *catalogService) AllCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

func (s *catalogService) GetCategoryBySlug(slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *catalogService) CreateCategory(in CategoryInput) (*models.Category, error) {
	if in.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(*in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCategoryNotFound
		}
	}

	slug, err := slugify.MakeUnique(in.Title, s.categoryRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		Title:    in.Title,
		Slug:     slug,
		Order:    in.Order,
		Top:      in.Top,
		ParentID: in.ParentID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory changes metadata; the slug is fixed at creation so stored
// links stay valid.
func (s *catalogService) UpdateCategory(id uint, in CategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if in.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(*in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCategoryNotFound
		}
	}

	category.Title = in.Title
	category.Order = in.Order
	category.Top = in.Top
	category.ParentID = in.ParentID

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) SetCategoryImage(id uint, url, key string, icon bool) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	// Replacing an image drops the previous object.
	if icon {
		if err := s.media.Remove(category.IconKey); err != nil {
			return nil, err
		}
		category.Icon, category.IconKey = url, key
	} else {
		if err := s.media.Remove(category.ImageKey); err != nil {
			return nil, err
		}
		category.Image, category.ImageKey = url, key
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	count, err := s.categoryRepo.ProductCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return err
	}

	// Lifecycle hook: stored images go away with the row.
	if err := s.media.Remove(category.ImageKey); err != nil {
		return err
	}
	return s.media.Remove(category.IconKey)
}

func (s *catalogService) ListProducts(in ProductListInput) ([]models.Product, int64, error) {
	filter := repository.ProductFilter{
		Search:     in.Search,
		OnSaleOnly: true,
	}

	if in.CategorySlug != "" {
		category, err := s.categoryRepo.GetBySlug(in.CategorySlug)
		if err != nil {
			return nil, 0, err
		}
		if category == nil {
			return nil, 0, ErrCategoryNotFound
		}
		filter.CategoryID = category.ID
	}

	if in.PageSize > 0 {
		filter.Limit = in.PageSize
		if in.Page > 1 {
			filter.Offset = (in.Page - 1) * in.PageSize
		}
	}

	return s.productRepo.List(filter)
}

func (s *catalogService) GetProductBySlug(slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if err := s.productRepo.IncrementViewCount(product.ID); err != nil {
		return nil, err
	}
	product.ViewCount++
	return product, nil
}

func (s *catalogService) CreateProduct(in ProductInput) (*models.Product, error) {
	category, err := s.categoryRepo.GetByID(in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if category.IsRoot() {
		return nil, ErrRootCategory
	}

	slug, err := slugify.MakeUnique(in.Title, s.productRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:       in.Title,
		Slug:        slug,
		Price:       in.Price,
		Discount:    in.Discount,
		Description: in.Description,
		Body:        in.Body,
		VideoURL:    in.VideoURL,
		Quantity:    in.Quantity,
		OnSale:      in.OnSale,
		IsMany:      in.IsMany,
		CategoryID:  in.CategoryID,
	}

	if in.PriceUZS != nil {
		product.PriceUZS = decimal.NewNullDecimal(*in.PriceUZS)
	} else if uzs, err := s.priceInUZS(in.Price); err == nil {
		product.PriceUZS = uzs
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// priceInUZS converts a USD price with the current exchange rate; returns a
// null decimal when no rate has been fetched yet.
func (s *catalogService) priceInUZS(price decimal.Decimal) (decimal.NullDecimal, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if settings == nil || settings.USDRate.Sign() <= 0 {
		return decimal.NullDecimal{}, nil
	}
	return decimal.NewNullDecimal(price.Mul(settings.USDRate).Round(2)), nil
}

func (s *catalogService) UpdateProduct(id uint, patch ProductPatch) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if patch.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(*patch.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		if category.IsRoot() {
			return nil, ErrRootCategory
		}
		product.CategoryID = *patch.CategoryID
	}

	if patch.Title != nil {
		product.Title = *patch.Title
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.PriceUZS != nil {
		product.PriceUZS = decimal.NewNullDecimal(*patch.PriceUZS)
	}
	if patch.Discount != nil {
		product.Discount = *patch.Discount
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Body != nil {
		product.Body = *patch.Body
	}
	if patch.VideoURL != nil {
		product.VideoURL = *patch.VideoURL
	}
	if patch.Quantity != nil {
		product.Quantity = *patch.Quantity
	}
	if patch.OnSale != nil {
		product.OnSale = *patch.OnSale
	}
	if patch.IsMany != nil {
		product.IsMany = *patch.IsMany
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	// PROTECT semantics: products referenced by order line items stay.
	count, err := s.productRepo.OrderItemCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrProductReferenced
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	for _, g := range product.Galleries {
		if err := s.media.Remove(g.ObjectKey); err != nil {
			return err
		}
	}
	return nil
}

func (s *catalogService) AddGalleryImage(productID uint, url, key string) (*models.Gallery, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	gallery := &models.Gallery{ProductID: productID, Image: url, ObjectKey: key}
	if err := s.productRepo.AddGallery(gallery); err != nil {
		return nil, err
	}
	return gallery, nil
}

func (s *catalogService) RemoveGalleryImage(galleryID uint) error {
	gallery, err := s.productRepo.GetGallery(galleryID)
	if err != nil {
		return err
	}
	if gallery == nil {
		return ErrGalleryNotFound
	}

	if err := s.productRepo.DeleteGallery(galleryID); err != nil {
		return err
	}
	return s.media.Remove(gallery.ObjectKey)
}

func (s *catalogService) AddCharacteristic(productID uint, title, value string) (*models.ProductCharacteristic, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	ch := &models.ProductCharacteristic{ProductID: productID, Title: title, Value: value}
	if err := s.productRepo.AddCharacteristic(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *catalogService) RemoveCharacteristic(id uint) error {
	return s.productRepo.DeleteCharacteristic(id)
}
