package repository

import (
	"context"

	"app/internal/domain/model"
)

// セラーの売上集計
type SellerEarnings struct {
	TotalOrders     int64 `json:"total_orders"`
	TotalSales      int64 `json:"total_sales"`
	TotalCommission int64 `json:"total_commission"`
	NetEarnings     int64 `json:"net_earnings"`
}

// 手数料は追記専用。更新・削除のAPIは持たない。
type CommissionRepository interface {
	CreateBulk(ctx context.Context, commissions []model.Commission) error
	ListByOrderItemIDs(ctx context.Context, orderItemIDs []int64) ([]model.Commission, error)

	//order_items⋈commissionsの集計
	SellerEarnings(ctx context.Context, sellerID int64) (SellerEarnings, error)
}
