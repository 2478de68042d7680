package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type DiscountUsecase struct {
	productRepo  repo.ProductRepository
	discountRepo repo.DiscountRepository
}

// DI
func NewDiscountUsecase(productRepo repo.ProductRepository, discountRepo repo.DiscountRepository) *DiscountUsecase {
	return &DiscountUsecase{
		productRepo:  productRepo,
		discountRepo: discountRepo,
	}
}

type DiscountInput struct {
	Percent   int64
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// 追加・更新で共通のチェック。日付は日単位に揃えて返す
func (u *DiscountUsecase) validateInput(in DiscountInput) (start, end time.Time, err error) {
	if in.Percent < 0 || in.Percent > 100 {
		return start, end, NewHTTPError(http.StatusBadRequest, "invalid percent")
	}
	start, err = parseDate(in.StartDate)
	if err != nil {
		return start, end, NewHTTPError(http.StatusBadRequest, "invalid start_date")
	}
	end, err = parseDate(in.EndDate)
	if err != nil {
		return start, end, NewHTTPError(http.StatusBadRequest, "invalid end_date")
	}
	if !start.Before(end) {
		return start, end, NewHTTPError(http.StatusBadRequest, "invalid date range")
	}
	return start, end, nil
}

// 割引を追加。期間は既存と重ねられない（両端を含む判定）
func (u *DiscountUsecase) AddDiscount(ctx context.Context, sellerID int64, productID int64, in DiscountInput) (int64, error) {
	if sellerID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	start, end, err := u.validateInput(in)
	if err != nil {
		return 0, err
	}

	//商品の存在＋所有チェック
	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return 0, NewHTTPError(http.StatusNotFound, "variant not found")
	}
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.SellerID != sellerID {
		return 0, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	overlaps, err := u.discountRepo.ExistsOverlapping(ctx, productID, start, end, 0)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if overlaps {
		return 0, NewHTTPError(http.StatusConflict, "overlapping discount")
	}

	now := time.Now()
	d, err := u.discountRepo.Create(ctx, model.Discount{
		ProductID: productID,
		Percent:   in.Percent,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return d.ID, nil
}

// 割引を更新。重なり判定は自分自身を除いて行う
func (u *DiscountUsecase) UpdateDiscount(ctx context.Context, sellerID int64, discountID int64, in DiscountInput) error {
	if sellerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if discountID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid discount id")
	}

	start, end, err := u.validateInput(in)
	if err != nil {
		return err
	}

	d, err := u.discountRepo.FindByID(ctx, discountID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//所有は商品経由で確認
	p, err := u.productRepo.FindByID(ctx, d.ProductID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "variant not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.SellerID != sellerID {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	overlaps, err := u.discountRepo.ExistsOverlapping(ctx, d.ProductID, start, end, discountID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if overlaps {
		return NewHTTPError(http.StatusConflict, "overlapping discount")
	}

	err = u.discountRepo.Update(ctx, model.Discount{
		ID:        discountID,
		ProductID: d.ProductID,
		Percent:   in.Percent,
		StartDate: start,
		EndDate:   end,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// セラー向けの一覧（期限切れ含む全件）
func (u *DiscountUsecase) ListForProduct(ctx context.Context, sellerID int64, productID int64) ([]model.Discount, error) {
	if sellerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "variant not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.SellerID != sellerID {
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	list, err := u.discountRepo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

// asOf時点で有効な割引。読み取りだけで副作用はない
func (u *DiscountUsecase) ActiveFor(ctx context.Context, productID int64, asOf time.Time) (model.Discount, bool, error) {
	if productID <= 0 {
		return model.Discount{}, false, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	d, found, err := u.discountRepo.FindActive(ctx, productID, asOf)
	if err != nil {
		return model.Discount{}, false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return d, found, nil
}

// basePriceにasOf時点の割引を適用した表示用payload
func (u *DiscountUsecase) ApplyToPrice(ctx context.Context, basePrice int64, productID int64, asOf time.Time) (PricePayload, error) {
	d, found, err := u.ActiveFor(ctx, productID, asOf)
	if err != nil {
		return PricePayload{}, err
	}
	return buildPricePayload(basePrice, d, found), nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return model.DateOnly(t), nil
}
