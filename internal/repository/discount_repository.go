package repository

import (
	"app/internal/domain/model"
	"context"
	"time"
)

// 割引の保存・取得の約束。
type DiscountRepository interface {
	FindByID(ctx context.Context, discountID int64) (model.Discount, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.Discount, error)

	//asOfを含む期間のうちpercent最大の1件。無ければfound=false
	FindActive(ctx context.Context, productID int64, asOf time.Time) (model.Discount, bool, error)

	//閉区間[start,end]が既存の期間と重なるか。excludeID>0ならその行は除外（更新時の自分自身）
	ExistsOverlapping(ctx context.Context, productID int64, start, end time.Time, excludeID int64) (bool, error)

	Create(ctx context.Context, d model.Discount) (model.Discount, error)
	Update(ctx context.Context, d model.Discount) error
}
