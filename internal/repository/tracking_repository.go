package repository

import (
	"context"

	"app/internal/domain/model"
)

type TrackingRepository interface {
	//注文作成時にPENDINGの行をまとめて作る
	CreateBulk(ctx context.Context, trackings []model.Tracking) error

	FindByOrderItemID(ctx context.Context, orderItemID int64) (model.Tracking, error)
	ListByOrderItemIDs(ctx context.Context, orderItemIDs []int64) ([]model.Tracking, error)

	//status・courier・tracking_numberを上書き
	Update(ctx context.Context, t model.Tracking) error
}
