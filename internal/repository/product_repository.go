package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Console  string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

// 商品バリアントの永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	ListBySellerID(ctx context.Context, sellerID int64) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	//同じ(seller,name,console,condition)が既にあるか
	ExistsVariant(ctx context.Context, sellerID int64, name, console string, condition model.ProductCondition) (bool, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)

	//conditionと在庫は対象外（在庫はInventoryRepositoryの増減だけで動かす）
	Update(ctx context.Context, p model.Product) error
}
