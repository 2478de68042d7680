package usecase

import (
	"context"
	"net/http"

	repo "app/internal/repository"
)

// 手数料台帳の読み取り側。書き込みは注文作成の中でしか起きない。
type EarningsUsecase struct {
	commissionRepo repo.CommissionRepository
}

func NewEarningsUsecase(commissionRepo repo.CommissionRepository) *EarningsUsecase {
	return &EarningsUsecase{commissionRepo: commissionRepo}
}

func (u *EarningsUsecase) SellerEarnings(ctx context.Context, sellerID int64) (repo.SellerEarnings, error) {
	if sellerID <= 0 {
		return repo.SellerEarnings{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	e, err := u.commissionRepo.SellerEarnings(ctx, sellerID)
	if err != nil {
		return repo.SellerEarnings{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return e, nil
}
