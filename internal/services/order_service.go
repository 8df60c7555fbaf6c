package services

import (
	"errors"
	"fmt"
	"strings"

	"shop_backend/internal/models"
	"shop_backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateOrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderInput struct {
	Phone        string                 `json:"phone"`
	CustomerName string                 `json:"customer_name"`
	Address      string                 `json:"address"`
	Longitude    *float64               `json:"longitude"`
	Latitude     *float64               `json:"latitude"`
	OrderType    models.OrderType       `json:"order_type"`
	Provider     models.Provider        `json:"provider"`
	BranchID     *uint                  `json:"branch_id"`
	Items        []CreateOrderItemInput `json:"items"`
}

type OrderService interface {
	CreateOrder(userID uint, in CreateOrderInput) (*models.Order, error)
	GetOrder(id uint) (*models.Order, error)
	GetUserOrders(userID uint) ([]models.Order, error)
	GetAllOrders() ([]models.Order, error)

	// ApproveOrder commits inventory for a pending order: every line item's
	// product quantity is decremented, all-or-nothing, and the order becomes
	// approved. Approving an approved order is a no-op; a cancelled order
	// cannot be approved.
	ApproveOrder(id uint) (*models.Order, error)

	CancelOrder(id uint) (*models.Order, error)
	SetProcess(id uint, process models.OrderProcess) error
	SetProvider(id uint, provider models.Provider) error
	Amounts(id uint) (*models.OrderAmounts, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	tx           repository.TxManager
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	settingsRepo repository.SettingsRepository,
	tx repository.TxManager,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		tx:           tx,
	}
}

func (s *orderService) CreateOrder(userID uint, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	if in.OrderType == "" {
		in.OrderType = models.TypeDelivery
	}
	if _, ok := models.TypeLabels[in.OrderType]; !ok {
		return nil, ErrInvalidOrderType
	}

	if in.Provider == "" {
		in.Provider = models.ProviderCash
	}
	switch in.Provider {
	case models.ProviderClick, models.ProviderPayme, models.ProviderPayze, models.ProviderCash:
	default:
		return nil, ErrInvalidProvider
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	productAmount := decimal.Zero
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		product, err := s.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("product %d: %w", it.ProductID, ErrProductNotFound)
		}
		if !product.OnSale {
			return nil, fmt.Errorf("product %d: %w", it.ProductID, ErrProductNotOnSale)
		}
		if !product.IsMany && it.Quantity > 1 {
			return nil, fmt.Errorf("product %d: %w", it.ProductID, ErrSingleUnitOnly)
		}

		amount := product.DiscountedPrice().Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Amount:    amount,
		})
		productAmount = productAmount.Add(amount)
	}

	total := productAmount
	if in.OrderType == models.TypeDelivery {
		settings, err := s.settingsRepo.Get()
		if err != nil {
			return nil, err
		}
		if settings == nil {
			return nil, ErrSettingsMissing
		}
		total = total.Add(settings.ShippingCost)
	}

	order := &models.Order{
		OrderNumber:  newOrderNumber(),
		Phone:        in.Phone,
		CustomerName: in.CustomerName,
		Address:      in.Address,
		Longitude:    in.Longitude,
		Latitude:     in.Latitude,
		TotalAmount:  total,
		Status:       models.OrderPending,
		Process:      models.ProcessNew,
		OrderType:    in.OrderType,
		Provider:     in.Provider,
		UserID:       userID,
		BranchID:     in.BranchID,
		Items:        items,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

func (s *orderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// errAlreadyApproved aborts the approval transaction without side effects;
// callers translate it to an idempotent success.
var errAlreadyApproved = errors.New("order already approved")

func (s *orderService) ApproveOrder(id uint) (*models.Order, error) {
	err := s.tx.RunInTx(func(tx repository.TxRepos) error {
		// The guarded update fires only on the pending -> approved edge.
		// Under concurrent approval of the same order the database serializes
		// the two updates on the order row; the loser sees zero affected rows.
		flipped, err := tx.Orders.MarkApproved(id)
		if err != nil {
			return err
		}
		if !flipped {
			current, err := tx.Orders.GetByID(id)
			if err != nil {
				return err
			}
			if current == nil {
				return ErrOrderNotFound
			}
			switch current.Status {
			case models.OrderApproved:
				return errAlreadyApproved
			case models.OrderCancelled:
				return ErrOrderCancelled
			default:
				return ErrInvalidTransition
			}
		}

		items, err := tx.Orders.GetItems(id)
		if err != nil {
			return err
		}

		// Validation and decrement are the same guarded statement, so the
		// check cannot race against another order's commit: either the row
		// still has enough stock when the UPDATE locks it, or it fails and
		// the whole transaction (status flip included) rolls back.
		for _, item := range items {
			ok, err := tx.Products.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("product %d: %w", item.ProductID, ErrInsufficientStock)
			}
		}
		return nil
	})

	if err != nil && !errors.Is(err, errAlreadyApproved) {
		return nil, err
	}
	return s.GetOrder(id)
}

func (s *orderService) CancelOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	cancelled, err := s.orderRepo.MarkCancelled(id)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		if order.Status == models.OrderCancelled {
			return order, nil
		}
		// Approved orders have committed inventory; no transition back.
		return nil, ErrInvalidTransition
	}
	return s.GetOrder(id)
}

func (s *orderService) SetProcess(id uint, process models.OrderProcess) error {
	if _, ok := models.ProcessLabels[process]; !ok {
		return ErrInvalidTransition
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return s.orderRepo.UpdateProcess(id, process)
}

func (s *orderService) SetProvider(id uint, provider models.Provider) error {
	switch provider {
	case models.ProviderClick, models.ProviderPayme, models.ProviderPayze, models.ProviderCash:
	default:
		return ErrInvalidProvider
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	return s.orderRepo.UpdateProvider(id, provider)
}

func (s *orderService) Amounts(id uint) (*models.OrderAmounts, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	productAmount := decimal.Zero
	for _, item := range order.Items {
		productAmount = productAmount.Add(item.Amount)
	}

	// Shipping is derived, not stored. A negative result means the stored
	// total is inconsistent with the items; it is surfaced, not clamped.
	return &models.OrderAmounts{
		ProductAmount:  productAmount,
		ShippingAmount: order.TotalAmount.Sub(productAmount),
		TotalAmount:    order.TotalAmount,
	}, nil
}
