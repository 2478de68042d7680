package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type TrackingGormRepository struct {
	db *gorm.DB
}

func NewTrackingGormRepository(db *gorm.DB) *TrackingGormRepository {
	return &TrackingGormRepository{db: db}
}

func (r *TrackingGormRepository) CreateBulk(ctx context.Context, trackings []model.Tracking) error {
	if len(trackings) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&trackings).Error; err != nil {
		return err
	}
	return nil
}

func (r *TrackingGormRepository) FindByOrderItemID(ctx context.Context, orderItemID int64) (model.Tracking, error) {
	var t model.Tracking
	err := r.db.WithContext(ctx).Where("order_item_id = ?", orderItemID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Tracking{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Tracking{}, err
	}
	return t, nil
}

func (r *TrackingGormRepository) ListByOrderItemIDs(ctx context.Context, orderItemIDs []int64) ([]model.Tracking, error) {
	if len(orderItemIDs) == 0 {
		return []model.Tracking{}, nil
	}
	var list []model.Tracking
	err := r.db.WithContext(ctx).
		Where("order_item_id IN ?", orderItemIDs).
		Order("order_item_id asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *TrackingGormRepository) Update(ctx context.Context, t model.Tracking) error {
	res := r.db.WithContext(ctx).Model(&model.Tracking{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"status":          t.Status,
		"courier_name":    t.CourierName,
		"tracking_number": t.TrackingNumber,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
