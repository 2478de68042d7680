package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AddressUsecase struct {
	addresses repo.AddressRepository
}

func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

type CreateAddressInput struct {
	Name       string
	PostalCode string
	Country    string
	State      string
	City       string
	Line1      string
	Line2      string
	Phone      string
	IsDefault  bool
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, in CreateAddressInput) (model.Address, error) {
	if userID <= 0 {
		return model.Address{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(in.PostalCode) == "" {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "postal_code required")
	}
	if strings.TrimSpace(in.Country) == "" {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "country required")
	}
	if strings.TrimSpace(in.City) == "" {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "city required")
	}
	if strings.TrimSpace(in.Line1) == "" {
		return model.Address{}, NewHTTPError(http.StatusBadRequest, "line1 required")
	}

	now := time.Now()
	a, err := u.addresses.Create(ctx, model.Address{
		UserID:     userID,
		Name:       strings.TrimSpace(in.Name),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
		State:      strings.TrimSpace(in.State),
		City:       strings.TrimSpace(in.City),
		Line1:      strings.TrimSpace(in.Line1),
		Line2:      strings.TrimSpace(in.Line2),
		Phone:      strings.TrimSpace(in.Phone),
		IsDefault:  in.IsDefault,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return model.Address{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return a, nil
}

func (u *AddressUsecase) ListMine(ctx context.Context, userID int64) ([]model.Address, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}
