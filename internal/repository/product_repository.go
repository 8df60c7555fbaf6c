package repository

import (
	"errors"

	"shop_backend/internal/models"

	"gorm.io/gorm"
)

type ProductFilter struct {
	CategoryID uint
	Search     string
	OnSaleOnly bool
	Limit      int
	Offset     int
}

type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id uint) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	List(filter ProductFilter) ([]models.Product, int64, error)
	Update(product *models.Product) error
	Delete(id uint) error
	SlugExists(slug string) (bool, error)
	IncrementViewCount(id uint) error

	// DecrementStock atomically subtracts qty from the product's quantity,
	// guarded so the row is only touched when enough stock remains:
	//   UPDATE ... SET quantity = quantity - qty WHERE id = ? AND quantity >= qty
	// Returns false when the guard rejected the update.
	DecrementStock(id uint, qty int) (bool, error)

	OrderItemCount(id uint) (int64, error)
	AddGallery(gallery *models.Gallery) error
	GetGallery(id uint) (*models.Gallery, error)
	DeleteGallery(id uint) error
	AddCharacteristic(ch *models.ProductCharacteristic) error
	DeleteCharacteristic(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Galleries").Preload("Characteristics").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Galleries").Preload("Characteristics").Preload("Category").
		Where("slug = ?", slug).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(filter ProductFilter) ([]models.Product, int64, error) {
	q := r.db.Model(&models.Product{})
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		q = q.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.OnSaleOnly {
		q = q.Where("on_sale = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := q.Preload("Galleries").Order("created_at desc").Find(&products).Error
	return products, total, err
}

func (r *productRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

func (r *productRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *productRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Product{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *productRepository) DecrementStock(id uint, qty int) (bool, error) {
	tx := r.db.Exec(`
UPDATE products
SET quantity = quantity - @q,
    updated_at = now()
WHERE id = @id
  AND quantity >= @q
`, map[string]any{
		"id": id,
		"q":  qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepository) OrderItemCount(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&count).Error
	return count, err
}

func (r *productRepository) AddGallery(gallery *models.Gallery) error {
	return r.db.Create(gallery).Error
}

func (r *productRepository) GetGallery(id uint) (*models.Gallery, error) {
	var gallery models.Gallery
	err := r.db.First(&gallery, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &gallery, nil
}

func (r *productRepository) DeleteGallery(id uint) error {
	return r.db.Delete(&models.Gallery{}, id).Error
}

func (r *productRepository) AddCharacteristic(ch *models.ProductCharacteristic) error {
	return r.db.Create(ch).Error
}

func (r *productRepository) DeleteCharacteristic(id uint) error {
	return r.db.Delete(&models.ProductCharacteristic{}, id).Error
}
