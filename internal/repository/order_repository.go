package repository

import (
	"errors"

	"shop_backend/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByUserID(userID uint) ([]models.Order, error)
	GetAll() ([]models.Order, error)
	GetItems(orderID uint) ([]models.OrderItem, error)

	// MarkApproved flips pending -> approved with a guarded update; returns
	// false when the order was not pending at commit time. Same for
	// MarkCancelled. The guard makes the transition edge-triggered: a
	// concurrent or repeated call sees zero affected rows instead of firing
	// the transition twice.
	MarkApproved(id uint) (bool, error)
	MarkCancelled(id uint) (bool, error)

	UpdateProcess(id uint, process models.OrderProcess) error
	UpdateProvider(id uint, provider models.Provider) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("Items.Product").Preload("Branch").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByUserID(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Where("user_id = ?", userID).Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").Order("created_at desc").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetItems(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

func (r *orderRepository) MarkApproved(id uint) (bool, error) {
	return r.markStatus(id, models.OrderPending, models.OrderApproved)
}

func (r *orderRepository) MarkCancelled(id uint) (bool, error) {
	return r.markStatus(id, models.OrderPending, models.OrderCancelled)
}

func (r *orderRepository) markStatus(id uint, from, to models.OrderStatus) (bool, error) {
	tx := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return tx.RowsAffected > 0, tx.Error
}

func (r *orderRepository) UpdateProcess(id uint, process models.OrderProcess) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("process", process).Error
}

func (r *orderRepository) UpdateProvider(id uint, provider models.Provider) error {
	return r.db.Model(&models.Order{}).Where("id = ?", id).Update("provider", provider).Error
}
