package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type DiscountGormRepository struct {
	db *gorm.DB
}

func NewDiscountGormRepository(db *gorm.DB) *DiscountGormRepository {
	return &DiscountGormRepository{db: db}
}

func (r *DiscountGormRepository) FindByID(ctx context.Context, discountID int64) (model.Discount, error) {
	var d model.Discount
	err := r.db.WithContext(ctx).First(&d, discountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Discount{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Discount{}, err
	}
	return d, nil
}

func (r *DiscountGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.Discount, error) {
	var list []model.Discount
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("start_date asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// asOfを含む期間のうちpercent最大の1件を返す。
// 重複禁止のinvariantがあるので通常1件だが、万一複数あってもpercent順で決める。
func (r *DiscountGormRepository) FindActive(ctx context.Context, productID int64, asOf time.Time) (model.Discount, bool, error) {
	day := model.DateOnly(asOf)

	var d model.Discount
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND percent > 0 AND start_date <= ? AND end_date >= ?",
			productID, day, day).
		Order("percent desc").
		First(&d).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Discount{}, false, nil
	}
	if err != nil {
		return model.Discount{}, false, err
	}
	return d, true, nil
}

// 閉区間の重なり判定: [a,b]と[c,d]は a<=d かつ c<=b のとき重なる
func (r *DiscountGormRepository) ExistsOverlapping(ctx context.Context, productID int64, start, end time.Time, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Discount{}).
		Where("product_id = ? AND start_date <= ? AND ? <= end_date",
			productID, model.DateOnly(end), model.DateOnly(start))

	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DiscountGormRepository) Create(ctx context.Context, d model.Discount) (model.Discount, error) {
	if err := r.db.WithContext(ctx).Create(&d).Error; err != nil {
		return model.Discount{}, err
	}
	return d, nil
}

func (r *DiscountGormRepository) Update(ctx context.Context, d model.Discount) error {
	res := r.db.WithContext(ctx).Model(&model.Discount{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
		"percent":    d.Percent,
		"start_date": model.DateOnly(d.StartDate),
		"end_date":   model.DateOnly(d.EndDate),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
