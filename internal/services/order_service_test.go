package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"shop_backend/internal/models"
	"shop_backend/internal/repository"
)

// fakeStore is an in-memory stand-in for the database shared by the fake
// repositories below.
type fakeStore struct {
	mu        sync.Mutex
	orders    map[uint]*models.Order
	items     map[uint][]models.OrderItem
	products  map[uint]*models.Product
	galleries map[uint]*models.Gallery
	nextID    uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:    make(map[uint]*models.Order),
		items:     make(map[uint][]models.OrderItem),
		products:  make(map[uint]*models.Product),
		galleries: make(map[uint]*models.Gallery),
	}
}

func (s *fakeStore) addProduct(p models.Product) *models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.products[cp.ID] = &cp
	return &cp
}

func (s *fakeStore) addOrder(o models.Order, items []models.OrderItem) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := o
	cp.ID = s.nextID
	s.orders[cp.ID] = &cp
	s.items[cp.ID] = items
	return &cp
}

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) Create(order *models.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextID++
	order.ID = r.store.nextID
	cp := *order
	r.store.orders[order.ID] = &cp
	r.store.items[order.ID] = order.Items
	return nil
}

func (r *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	order, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	cp.Items = r.store.items[id]
	return &cp, nil
}

func (r *fakeOrderRepo) GetByUserID(userID uint) ([]models.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Order
	for _, o := range r.store.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetAll() ([]models.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Order
	for _, o := range r.store.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeOrderRepo) GetItems(orderID uint) ([]models.OrderItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.items[orderID], nil
}

func (r *fakeOrderRepo) markStatus(id uint, from, to models.OrderStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	order, ok := r.store.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

func (r *fakeOrderRepo) MarkApproved(id uint) (bool, error) {
	return r.markStatus(id, models.OrderPending, models.OrderApproved)
}

func (r *fakeOrderRepo) MarkCancelled(id uint) (bool, error) {
	return r.markStatus(id, models.OrderPending, models.OrderCancelled)
}

func (r *fakeOrderRepo) UpdateProcess(id uint, process models.OrderProcess) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if order, ok := r.store.orders[id]; ok {
		order.Process = process
	}
	return nil
}

func (r *fakeOrderRepo) UpdateProvider(id uint, provider models.Provider) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if order, ok := r.store.orders[id]; ok {
		order.Provider = provider
	}
	return nil
}

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(p *models.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextID++
	p.ID = r.store.nextID
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id uint) (*models.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySlug(slug string) (*models.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(f repository.ProductFilter) ([]models.Product, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Product
	for _, p := range r.store.products {
		if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
			continue
		}
		if f.OnSaleOnly && !p.OnSale {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(p *models.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *p
	r.store.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) SlugExists(slug string) (bool, error) {
	p, err := r.GetBySlug(slug)
	return p != nil, err
}

func (r *fakeProductRepo) IncrementViewCount(id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.products[id]; ok {
		p.ViewCount++
	}
	return nil
}

func (r *fakeProductRepo) OrderItemCount(id uint) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, items := range r.store.items {
		for _, item := range items {
			if item.ProductID == id {
				count++
			}
		}
	}
	return count, nil
}

func (r *fakeProductRepo) AddGallery(g *models.Gallery) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextID++
	g.ID = r.store.nextID
	cp := *g
	r.store.galleries[g.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetGallery(id uint) (*models.Gallery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	g, ok := r.store.galleries[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *fakeProductRepo) DeleteGallery(id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.galleries, id)
	return nil
}

func (r *fakeProductRepo) AddCharacteristic(ch *models.ProductCharacteristic) error {
	return nil
}
func (r *fakeProductRepo) DeleteCharacteristic(id uint) error { return nil }

func (r *fakeProductRepo) DecrementStock(id uint, qty int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	return true, nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *models.Settings
}

func (r *fakeSettingsRepo) Ensure(defaultShipping decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		r.settings = &models.Settings{ID: models.SettingsID, ShippingCost: defaultShipping}
	}
	return nil
}

func (r *fakeSettingsRepo) Get() (*models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, nil
	}
	cp := *r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) UpdateShippingCost(cost decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return errors.New("no settings row")
	}
	r.settings.ShippingCost = cost
	return nil
}

func (r *fakeSettingsRepo) UpdateUSDRate(rate decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return errors.New("no settings row")
	}
	r.settings.USDRate = rate
	return nil
}

// fakeTxManager serializes transactions and rolls back order statuses and
// product quantities when the callback fails, mimicking the all-or-nothing
// behavior of a real database transaction.
type fakeTxManager struct {
	txMu  sync.Mutex
	store *fakeStore
}

func (m *fakeTxManager) RunInTx(fn func(tx repository.TxRepos) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.store.mu.Lock()
	quantities := make(map[uint]int, len(m.store.products))
	for id, p := range m.store.products {
		quantities[id] = p.Quantity
	}
	statuses := make(map[uint]models.OrderStatus, len(m.store.orders))
	for id, o := range m.store.orders {
		statuses[id] = o.Status
	}
	m.store.mu.Unlock()

	err := fn(repository.TxRepos{
		Orders:   &fakeOrderRepo{store: m.store},
		Products: &fakeProductRepo{store: m.store},
	})
	if err != nil {
		m.store.mu.Lock()
		for id, q := range quantities {
			m.store.products[id].Quantity = q
		}
		for id, st := range statuses {
			m.store.orders[id].Status = st
		}
		m.store.mu.Unlock()
	}
	return err
}

func newOrderServiceForTest(store *fakeStore, settings *fakeSettingsRepo) OrderService {
	if settings == nil {
		settings = &fakeSettingsRepo{settings: &models.Settings{
			ID:           models.SettingsID,
			ShippingCost: decimal.NewFromInt(15000),
		}}
	}
	return NewOrderService(
		&fakeOrderRepo{store: store},
		&fakeProductRepo{store: store},
		settings,
		&fakeTxManager{store: store},
	)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateOrderComputesTotals(t *testing.T) {
	store := newFakeStore()
	store.addProduct(models.Product{ID: 1, Price: dec("100.00"), Discount: 10, Quantity: 5, OnSale: true, IsMany: true})
	store.addProduct(models.Product{ID: 2, Price: dec("50.00"), Quantity: 5, OnSale: true, IsMany: true})
	svc := newOrderServiceForTest(store, nil)

	order, err := svc.CreateOrder(7, CreateOrderInput{
		Phone: "+998901112233",
		Items: []CreateOrderItemInput{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// 2 x 90.00 discounted + 1 x 50.00 + 15000 shipping.
	want := dec("15230.00")
	if !order.TotalAmount.Equal(want) {
		t.Errorf("total = %s, want %s", order.TotalAmount, want)
	}
	if order.Status != models.OrderPending {
		t.Errorf("status = %s, want %s", order.Status, models.OrderPending)
	}
	if order.OrderType != models.TypeDelivery {
		t.Errorf("order type = %s, want %s", order.OrderType, models.TypeDelivery)
	}
	if order.Provider != models.ProviderCash {
		t.Errorf("provider = %s, want %s", order.Provider, models.ProviderCash)
	}
}

func TestCreateOrderTakeAwaySkipsShipping(t *testing.T) {
	store := newFakeStore()
	store.addProduct(models.Product{ID: 1, Price: dec("100.00"), Quantity: 5, OnSale: true, IsMany: true})
	svc := newOrderServiceForTest(store, nil)

	order, err := svc.CreateOrder(7, CreateOrderInput{
		OrderType: models.TypeTakeAway,
		Items:     []CreateOrderItemInput{{ProductID: 1, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if !order.TotalAmount.Equal(dec("100.00")) {
		t.Errorf("total = %s, want 100.00", order.TotalAmount)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	store := newFakeStore()
	store.addProduct(models.Product{ID: 1, Price: dec("10.00"), Quantity: 5, OnSale: true, IsMany: true})
	store.addProduct(models.Product{ID: 2, Price: dec("10.00"), Quantity: 5, OnSale: false, IsMany: true})
	store.addProduct(models.Product{ID: 3, Price: dec("10.00"), Quantity: 5, OnSale: true, IsMany: false})
	svc := newOrderServiceForTest(store, nil)

	cases := []struct {
		name string
		in   CreateOrderInput
		want error
	}{
		{"empty", CreateOrderInput{}, ErrEmptyOrder},
		{"zero quantity", CreateOrderInput{Items: []CreateOrderItemInput{{ProductID: 1, Quantity: 0}}}, ErrInvalidQuantity},
		{"missing product", CreateOrderInput{Items: []CreateOrderItemInput{{ProductID: 99, Quantity: 1}}}, ErrProductNotFound},
		{"not on sale", CreateOrderInput{Items: []CreateOrderItemInput{{ProductID: 2, Quantity: 1}}}, ErrProductNotOnSale},
		{"single unit only", CreateOrderInput{Items: []CreateOrderItemInput{{ProductID: 3, Quantity: 2}}}, ErrSingleUnitOnly},
		{"bad type", CreateOrderInput{OrderType: "teleport", Items: []CreateOrderItemInput{{ProductID: 1, Quantity: 1}}}, ErrInvalidOrderType},
		{"bad provider", CreateOrderInput{Provider: "bitcoin", Items: []CreateOrderItemInput{{ProductID: 1, Quantity: 1}}}, ErrInvalidProvider},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateOrder(7, tc.in); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestApproveOrderDecrementsStock(t *testing.T) {
	store := newFakeStore()
	store.addProduct(models.Product{ID: 1, Price: dec("10.00"), Quantity: 5, OnSale: true, IsMany: true})
	store.addProduct(models.Product{ID: 2, Price: dec("10.00"), Quantity: 3, OnSale: true, IsMany: true})
	order := store.addOrder(
		models.Order{Status: models.OrderPending, UserID: 7, TotalAmount: dec("50.00")},
		[]models.OrderItem{
			{ProductID: 1, Quantity: 2, Amount: dec("20.00")},
			{ProductID: 2, Quantity: 3, Amount: dec("30.00")},
		},
	)
	svc := newOrderServiceForTest(store, nil)

	approved, err := svc.ApproveOrder(order.ID)
	if err != nil {
		t.Fatalf("ApproveOrder failed: %v", err)
	}
	if approved.Status != models.OrderApproved {
		t.Errorf("status = %s, want %s", approved.Status, models.OrderApproved)
	}
	if q := store.products[1].Quantity; q != 3 {
		t.Errorf("product 1 quantity = %d, want 3", q)
	}
	if q := store.products[2].Quantity; q != 0 {
		t.Errorf("product 2 quantity = %d, want 0", q)
	}
}

func TestApproveOrderInsufficientStockRollsBack(t *testing.T) {
	store := newFakeStore()
	store.addProduct(models.Product{ID: 1, Price: dec("10.00"), Quantity: 5, OnSale: true, IsMany: true})
	store.addProduct(models.Product{ID: 2, Price: dec("10.00"), Quantity: 1, OnSale: true, IsMany: true})
	order := store.addOrder(
		models.Order{Status: models.OrderPending, UserID: 7},
		[]models.OrderItem{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 2},
		},
	)
	svc := newOrderServiceForTest(store, nil)

	_, err := svc.ApproveOrder(order.ID)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// Nothing committed: first product's decrement rolled back with the rest.
	if q := store.products[1].Quantity; q != 5 {
		t.Errorf("product 1 quantity = %d, want 5", q)
	}
	if q := store.products[2].Quantity; q != 1 {
		t.Errorf("product 2 quantity = %d, want 1", q)
	}
	if st := store.orders[order.ID].Status; st != models.OrderPending {
		t.Errorf("status = %s, want %s", st, models.OrderPending)
	}
}

func TestApproveOrderIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addProduct(models.Product{ID: 1, Price: dec("10.00"), Quantity: 5, OnSale: true, IsMany: true})
	order := store.addOrder(
		models.Order{Status: models.OrderPending, UserID: 7},
		[]models.OrderItem{{ProductID: 1, Quantity: 2}},
	)
	svc := newOrderServiceForTest(store, nil)

	if _, err := svc.ApproveOrder(order.ID); err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	again, err := svc.ApproveOrder(order.ID)
	if err != nil {
		t.Fatalf("second approve failed: %v", err)
	}
	if again.Status != models.OrderApproved {
		t.Errorf("status = %s, want %s", again.Status, models.OrderApproved)
	}

	// Stock only committed once.
	if q := store.products[1].Quantity; q != 3 {
		t.Errorf("quantity = %d, want 3", q)
	}
}

func TestApproveCancelledOrderFails(t *testing.T) {
	store := newFakeStore()
	order := store.addOrder(models.Order{Status: models.OrderCancelled, UserID: 7}, nil)
	svc := newOrderServiceForTest(store, nil)

	if _, err := svc.ApproveOrder(order.ID); !errors.Is(err, ErrOrderCancelled) {
		t.Fatalf("err = %v, want ErrOrderCancelled", err)
	}
}

func TestApproveOrderConcurrentOversell(t *testing.T) {
	store := newFakeStore()
	store.addProduct(models.Product{ID: 1, Price: dec("10.00"), Quantity: 1, OnSale: true, IsMany: true})
	first := store.addOrder(
		models.Order{Status: models.OrderPending, UserID: 7},
		[]models.OrderItem{{ProductID: 1, Quantity: 1}},
	)
	second := store.addOrder(
		models.Order{Status: models.OrderPending, UserID: 8},
		[]models.OrderItem{{ProductID: 1, Quantity: 1}},
	)
	svc := newOrderServiceForTest(store, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uint{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = svc.ApproveOrder(id)
		}(i, id)
	}
	wg.Wait()

	var succeeded, outOfStock int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientStock):
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || outOfStock != 1 {
		t.Fatalf("succeeded = %d, out of stock = %d, want exactly one of each", succeeded, outOfStock)
	}
	if q := store.products[1].Quantity; q != 0 {
		t.Errorf("quantity = %d, want 0", q)
	}
}

func TestCancelOrder(t *testing.T) {
	store := newFakeStore()
	order := store.addOrder(models.Order{Status: models.OrderPending, UserID: 7}, nil)
	svc := newOrderServiceForTest(store, nil)

	cancelled, err := svc.CancelOrder(order.ID)
	if err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	if cancelled.Status != models.OrderCancelled {
		t.Errorf("status = %s, want %s", cancelled.Status, models.OrderCancelled)
	}

	// Repeated cancel is a no-op.
	if _, err := svc.CancelOrder(order.ID); err != nil {
		t.Errorf("repeat cancel failed: %v", err)
	}
}

func TestCancelApprovedOrderFails(t *testing.T) {
	store := newFakeStore()
	order := store.addOrder(models.Order{Status: models.OrderApproved, UserID: 7}, nil)
	svc := newOrderServiceForTest(store, nil)

	if _, err := svc.CancelOrder(order.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestAmounts(t *testing.T) {
	store := newFakeStore()
	order := store.addOrder(
		models.Order{Status: models.OrderPending, UserID: 7, TotalAmount: dec("115.00")},
		[]models.OrderItem{
			{ProductID: 1, Quantity: 1, Amount: dec("60.00")},
			{ProductID: 2, Quantity: 2, Amount: dec("40.00")},
		},
	)
	svc := newOrderServiceForTest(store, nil)

	amounts, err := svc.Amounts(order.ID)
	if err != nil {
		t.Fatalf("Amounts failed: %v", err)
	}
	if !amounts.ProductAmount.Equal(dec("100.00")) {
		t.Errorf("product amount = %s, want 100.00", amounts.ProductAmount)
	}
	if !amounts.ShippingAmount.Equal(dec("15.00")) {
		t.Errorf("shipping amount = %s, want 15.00", amounts.ShippingAmount)
	}
}

func TestAmountsNegativeShippingSurfaced(t *testing.T) {
	store := newFakeStore()
	order := store.addOrder(
		models.Order{Status: models.OrderPending, UserID: 7, TotalAmount: dec("50.00")},
		[]models.OrderItem{{ProductID: 1, Quantity: 1, Amount: dec("60.00")}},
	)
	svc := newOrderServiceForTest(store, nil)

	amounts, err := svc.Amounts(order.ID)
	if err != nil {
		t.Fatalf("Amounts failed: %v", err)
	}
	if !amounts.ShippingAmount.Equal(dec("-10.00")) {
		t.Errorf("shipping amount = %s, want -10.00", amounts.ShippingAmount)
	}
}

func TestSetProcess(t *testing.T) {
	store := newFakeStore()
	order := store.addOrder(models.Order{Status: models.OrderApproved, UserID: 7}, nil)
	svc := newOrderServiceForTest(store, nil)

	if err := svc.SetProcess(order.ID, models.ProcessInCourier); err != nil {
		t.Fatalf("SetProcess failed: %v", err)
	}
	if p := store.orders[order.ID].Process; p != models.ProcessInCourier {
		t.Errorf("process = %s, want %s", p, models.ProcessInCourier)
	}

	if err := svc.SetProcess(order.ID, "warp"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}
