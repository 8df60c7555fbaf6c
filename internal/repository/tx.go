package repository

import "gorm.io/gorm"

// TxRepos bundles the repositories the order workflow touches inside one
// database transaction.
type TxRepos struct {
	Orders   OrderRepository
	Products ProductRepository
}

// TxManager runs a function against transaction-scoped repositories. An
// error return rolls the whole transaction back, so multi-row effects (order
// status flip plus per-product stock decrements) are all-or-nothing.
type TxManager interface {
	RunInTx(fn func(tx TxRepos) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) RunInTx(fn func(tx TxRepos) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(TxRepos{
			Orders:   NewOrderRepository(tx),
			Products: NewProductRepository(tx),
		})
	})
}
