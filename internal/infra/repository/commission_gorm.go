package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CommissionGormRepository struct {
	db *gorm.DB
}

func NewCommissionGormRepository(db *gorm.DB) *CommissionGormRepository {
	return &CommissionGormRepository{db: db}
}

func (r *CommissionGormRepository) CreateBulk(ctx context.Context, commissions []model.Commission) error {
	if len(commissions) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&commissions).Error; err != nil {
		return err
	}
	return nil
}

func (r *CommissionGormRepository) ListByOrderItemIDs(ctx context.Context, orderItemIDs []int64) ([]model.Commission, error) {
	if len(orderItemIDs) == 0 {
		return []model.Commission{}, nil
	}
	var list []model.Commission
	err := r.db.WithContext(ctx).
		Where("order_item_id IN ?", orderItemIDs).
		Order("order_item_id asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// order_items⋈commissionsでセラーの売上を集計する。
// 注文数はdistinct order_id、売上は明細小計の合計。
func (r *CommissionGormRepository) SellerEarnings(ctx context.Context, sellerID int64) (repo.SellerEarnings, error) {
	var e repo.SellerEarnings
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(DISTINCT oi.order_id)                          AS total_orders,
			COALESCE(SUM(oi.unit_price * oi.quantity), 0)        AS total_sales,
			COALESCE(SUM(c.amount), 0)                           AS total_commission,
			COALESCE(SUM(oi.unit_price * oi.quantity), 0)
				- COALESCE(SUM(c.amount), 0)                     AS net_earnings
		FROM order_items oi
		JOIN commissions c ON c.order_item_id = oi.id
		WHERE oi.seller_id = ?`, sellerID).
		Scan(&e).Error
	if err != nil {
		return repo.SellerEarnings{}, err
	}
	return e, nil
}
