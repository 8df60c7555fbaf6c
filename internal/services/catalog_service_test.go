package services

import (
	"errors"
	"mime/multipart"
	"testing"

	"github.com/shopspring/decimal"

	"shop_backend/internal/models"
)

type fakeCategoryRepo struct {
	store      *fakeStore
	categories map[uint]*models.Category
	nextID     uint
}

func newFakeCategoryRepo(store *fakeStore) *fakeCategoryRepo {
	return &fakeCategoryRepo{store: store, categories: make(map[uint]*models.Category)}
}

func (r *fakeCategoryRepo) Create(category *models.Category) error {
	r.nextID++
	category.ID = r.nextID
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) GetByID(id uint) (*models.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCategoryRepo) GetBySlug(slug string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepo) GetTop() ([]models.Category, error) {
	var out []models.Category
	for _, c := range r.categories {
		if c.ParentID == nil && c.Top {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) GetAll() ([]models.Category, error) {
	var out []models.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Update(category *models.Category) error {
	cp := *category
	r.categories[category.ID] = &cp
	return nil
}

func (r *fakeCategoryRepo) Delete(id uint) error {
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) SlugExists(slug string) (bool, error) {
	c, err := r.GetBySlug(slug)
	return c != nil, err
}

func (r *fakeCategoryRepo) ProductCount(id uint) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, p := range r.store.products {
		if p.CategoryID == id {
			count++
		}
	}
	return count, nil
}

type fakeMedia struct {
	removed []string
}

func (m *fakeMedia) Upload(file *multipart.FileHeader, folder string) (string, string, error) {
	return "http://media.local/" + folder + "/" + file.Filename, folder + "/" + file.Filename, nil
}

func (m *fakeMedia) Remove(objectKey string) error {
	if objectKey != "" {
		m.removed = append(m.removed, objectKey)
	}
	return nil
}

func newCatalogServiceForTest() (CatalogService, *fakeStore, *fakeCategoryRepo, *fakeMedia, *fakeSettingsRepo) {
	store := newFakeStore()
	categories := newFakeCategoryRepo(store)
	media := &fakeMedia{}
	settings := &fakeSettingsRepo{settings: &models.Settings{
		ID:           models.SettingsID,
		ShippingCost: decimal.NewFromInt(15000),
		USDRate:      decimal.NewFromInt(12500),
	}}
	svc := NewCatalogService(categories, &fakeProductRepo{store: store}, settings, media)
	return svc, store, categories, media, settings
}

func mustCreateCategory(t *testing.T, svc CatalogService, in CategoryInput) *models.Category {
	t.Helper()
	category, err := svc.CreateCategory(in)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	return category
}

func TestCreateCategorySlugs(t *testing.T) {
	svc, _, _, _, _ := newCatalogServiceForTest()

	first := mustCreateCategory(t, svc, CategoryInput{Title: "Home Appliances"})
	if first.Slug != "home-appliances" {
		t.Errorf("slug = %q, want home-appliances", first.Slug)
	}

	// A duplicate title gets a numeric suffix instead of a collision.
	second := mustCreateCategory(t, svc, CategoryInput{Title: "Home Appliances"})
	if second.Slug != "home-appliances-2" {
		t.Errorf("slug = %q, want home-appliances-2", second.Slug)
	}
}

func TestCreateCategoryRejectsMissingParent(t *testing.T) {
	svc, _, _, _, _ := newCatalogServiceForTest()

	missing := uint(42)
	if _, err := svc.CreateCategory(CategoryInput{Title: "Phones", ParentID: &missing}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("err = %v, want ErrCategoryNotFound", err)
	}
}

func TestCreateProductRejectsRootCategory(t *testing.T) {
	svc, _, _, _, _ := newCatalogServiceForTest()

	root := mustCreateCategory(t, svc, CategoryInput{Title: "Electronics"})
	_, err := svc.CreateProduct(ProductInput{Title: "TV", Price: dec("500.00"), CategoryID: root.ID})
	if !errors.Is(err, ErrRootCategory) {
		t.Fatalf("err = %v, want ErrRootCategory", err)
	}
}

func TestCreateProductConvertsPrice(t *testing.T) {
	svc, _, _, _, _ := newCatalogServiceForTest()

	root := mustCreateCategory(t, svc, CategoryInput{Title: "Electronics"})
	child := mustCreateCategory(t, svc, CategoryInput{Title: "TVs", ParentID: &root.ID})

	product, err := svc.CreateProduct(ProductInput{Title: "TV", Price: dec("500.00"), CategoryID: child.ID})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if !product.PriceUZS.Valid {
		t.Fatal("price_uzs not set")
	}
	if !product.PriceUZS.Decimal.Equal(dec("6250000.00")) {
		t.Errorf("price_uzs = %s, want 6250000.00", product.PriceUZS.Decimal)
	}
}

func TestCreateProductExplicitUZSPriceWins(t *testing.T) {
	svc, _, _, _, _ := newCatalogServiceForTest()

	root := mustCreateCategory(t, svc, CategoryInput{Title: "Electronics"})
	child := mustCreateCategory(t, svc, CategoryInput{Title: "TVs", ParentID: &root.ID})

	explicit := dec("7000000.00")
	product, err := svc.CreateProduct(ProductInput{
		Title: "TV", Price: dec("500.00"), PriceUZS: &explicit, CategoryID: child.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if !product.PriceUZS.Decimal.Equal(explicit) {
		t.Errorf("price_uzs = %s, want %s", product.PriceUZS.Decimal, explicit)
	}
}

func TestDeleteCategoryWithProductsFails(t *testing.T) {
	svc, _, _, _, _ := newCatalogServiceForTest()

	root := mustCreateCategory(t, svc, CategoryInput{Title: "Electronics"})
	child := mustCreateCategory(t, svc, CategoryInput{Title: "TVs", ParentID: &root.ID})
	if _, err := svc.CreateProduct(ProductInput{Title: "TV", Price: dec("500.00"), CategoryID: child.ID}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if err := svc.DeleteCategory(child.ID); !errors.Is(err, ErrCategoryInUse) {
		t.Fatalf("err = %v, want ErrCategoryInUse", err)
	}
}

func TestDeleteCategoryRemovesMedia(t *testing.T) {
	svc, _, categories, media, _ := newCatalogServiceForTest()

	category := mustCreateCategory(t, svc, CategoryInput{Title: "Empty"})
	stored := categories.categories[category.ID]
	stored.ImageKey = "categories/img.png"
	stored.IconKey = "categories/icon.png"

	if err := svc.DeleteCategory(category.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if len(media.removed) != 2 {
		t.Errorf("removed %d objects, want 2", len(media.removed))
	}
}

func TestDeleteProductReferencedByOrderFails(t *testing.T) {
	svc, store, _, _, _ := newCatalogServiceForTest()

	root := mustCreateCategory(t, svc, CategoryInput{Title: "Electronics"})
	child := mustCreateCategory(t, svc, CategoryInput{Title: "TVs", ParentID: &root.ID})
	product, err := svc.CreateProduct(ProductInput{Title: "TV", Price: dec("500.00"), CategoryID: child.ID})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	store.addOrder(
		models.Order{Status: models.OrderApproved, UserID: 1},
		[]models.OrderItem{{ProductID: product.ID, Quantity: 1}},
	)

	if err := svc.DeleteProduct(product.ID); !errors.Is(err, ErrProductReferenced) {
		t.Fatalf("err = %v, want ErrProductReferenced", err)
	}
	if _, ok := store.products[product.ID]; !ok {
		t.Error("product was deleted despite order references")
	}
}

func TestGetProductBySlugCountsViews(t *testing.T) {
	svc, store, _, _, _ := newCatalogServiceForTest()

	root := mustCreateCategory(t, svc, CategoryInput{Title: "Electronics"})
	child := mustCreateCategory(t, svc, CategoryInput{Title: "TVs", ParentID: &root.ID})
	product, err := svc.CreateProduct(ProductInput{Title: "Smart TV", Price: dec("500.00"), CategoryID: child.ID})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.GetProductBySlug(product.Slug); err != nil {
			t.Fatalf("GetProductBySlug failed: %v", err)
		}
	}
	if v := store.products[product.ID].ViewCount; v != 3 {
		t.Errorf("view count = %d, want 3", v)
	}

	if _, err := svc.GetProductBySlug("no-such-product"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}
