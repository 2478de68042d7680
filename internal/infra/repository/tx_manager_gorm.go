package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders      repo.OrderRepository
	orderItems  repo.OrderItemRepository
	trackings   repo.TrackingRepository
	commissions repo.CommissionRepository
	inventory   repo.InventoryRepository
	products    repo.ProductRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository           { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository   { return r.orderItems }
func (r *txReposGorm) Trackings() repo.TrackingRepository     { return r.trackings }
func (r *txReposGorm) Commissions() repo.CommissionRepository { return r.commissions }
func (r *txReposGorm) Inventory() repo.InventoryRepository    { return r.inventory }
func (r *txReposGorm) Products() repo.ProductRepository       { return r.products }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返すと全体rollback。nilならcommit
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:      NewOrderGormRepository(tx),
			orderItems:  NewOrderItemGormRepository(tx),
			trackings:   NewTrackingGormRepository(tx),
			commissions: NewCommissionGormRepository(tx),
			inventory:   NewInventoryGormRepository(tx),
			products:    NewProductGormRepository(tx),
		}
		return fn(r)
	})
}
