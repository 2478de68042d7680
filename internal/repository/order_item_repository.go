package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderItemRepository interface {
	//作成後のitems（ID採番済み）を返す。trackingとcommissionの紐付けに使う
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	FindByID(ctx context.Context, orderItemID int64) (model.OrderItem, error)
	ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.OrderItem, int64, error)
}
