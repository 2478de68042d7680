package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ProductUsecase struct {
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	discountRepo  repo.DiscountRepository
	audit         AuditSink
	clock         Clock
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	discountRepo repo.DiscountRepository,
	audit AuditSink,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		discountRepo:  discountRepo,
		audit:         audit,
		clock:         clock,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Console  string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

// 表示用の価格。割引が有効ならdiscounted_priceが購入価格
type PricePayload struct {
	OriginalPrice   int64 `json:"original_price"`
	DiscountPercent int64 `json:"discount_percent"`
	DiscountedPrice int64 `json:"discounted_price"`
	HasDiscount     bool  `json:"has_discount"`
}

type ProductOutput struct {
	Product model.Product `json:"product"`
	Price   PricePayload  `json:"price"`
}

type ProductListOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 割引の有無から表示用の価格を組み立てる。
// 商品一覧・詳細とApplyToPriceで同じ組み立てを使う
func buildPricePayload(basePrice int64, d model.Discount, found bool) PricePayload {
	if !found {
		return PricePayload{
			OriginalPrice:   basePrice,
			DiscountedPrice: basePrice,
		}
	}
	return PricePayload{
		OriginalPrice:   basePrice,
		DiscountPercent: d.Percent,
		DiscountedPrice: discountedPrice(basePrice, d.Percent),
		HasDiscount:     true,
	}
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Console:  strings.TrimSpace(in.Console),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//一覧にも割引後の価格を付ける
	now := u.clock.Now()
	outs := make([]ProductOutput, 0, len(items))
	for _, p := range items {
		price, err := u.pricePayload(ctx, p, now)
		if err != nil {
			return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, ProductOutput{Product: p, Price: price})
	}

	return ProductListOutput{
		Items: outs,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !p.IsActive {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	price, err := u.pricePayload(ctx, p, u.clock.Now())
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ProductOutput{Product: p, Price: price}, nil
}

// 有効な割引を探して表示用の価格を組み立てる
func (u *ProductUsecase) pricePayload(ctx context.Context, p model.Product, asOf time.Time) (PricePayload, error) {
	d, found, err := u.discountRepo.FindActive(ctx, p.ID, asOf)
	if err != nil {
		return PricePayload{}, err
	}
	return buildPricePayload(p.Price, d, found), nil
}

type CreateVariantInput struct {
	Name        string
	Console     string
	Condition   string
	Category    string
	Description string
	ImageURL    string
	Price       int64
	Stock       int64
	IsActive    bool
}

// バリアント作成。
// 重複チェック→INSERTの順だが、同時作成のレースはDBのunique indexが最後の砦。
func (u *ProductUsecase) CreateVariant(ctx context.Context, sellerID int64, in CreateVariantInput) (int64, error) {
	if sellerID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	console := strings.TrimSpace(in.Console)
	if name == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if console == "" {
		return 0, NewHTTPError(http.StatusBadRequest, "console required")
	}
	condition := model.ProductCondition(strings.ToUpper(strings.TrimSpace(in.Condition)))
	if !condition.Valid() {
		return 0, NewHTTPError(http.StatusBadRequest, "invalid condition")
	}
	if in.Price < 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock < 0 {
		return 0, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	exists, err := u.productRepo.ExistsVariant(ctx, sellerID, name, console, condition)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return 0, NewHTTPError(http.StatusConflict, "duplicate variant")
	}

	now := time.Now()
	p, err := u.productRepo.Create(ctx, model.Product{
		SellerID:    sellerID,
		Name:        name,
		Console:     console,
		Condition:   condition,
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Price:       in.Price,
		Stock:       in.Stock,
		IsActive:    in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		//チェックの後に同じ組が割り込んだ場合はここで弾かれる
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, NewHTTPError(http.StatusConflict, "duplicate variant")
		}
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p.ID, nil
}

type UpdateVariantInput struct {
	Name        string
	Console     string
	Category    string
	Description string
	ImageURL    string
	Price       int64
	IsActive    bool
}

// 更新できるのは説明系と価格だけ。conditionは作成後不変、在庫は増減APIのみ。
func (u *ProductUsecase) UpdateVariant(ctx context.Context, sellerID int64, productID int64, in UpdateVariantInput) error {
	if sellerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(in.Console) == "" {
		return NewHTTPError(http.StatusBadRequest, "console required")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人の商品は触れない
	if p.SellerID != sellerID {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	err = u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Console:     strings.TrimSpace(in.Console),
		Category:    strings.TrimSpace(in.Category),
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Price:       in.Price,
		IsActive:    in.IsActive,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	//name/consoleは一意キーの一部なので、変更先が既存の組とぶつかることがある
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return NewHTTPError(http.StatusConflict, "duplicate variant")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 手動補充。在庫は上書きせず加算し、履歴と監査を残す
func (u *ProductUsecase) Restock(ctx context.Context, sellerID int64, productID int64, qty int64, reason string) error {
	if sellerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if qty <= 0 {
		return NewHTTPError(http.StatusBadRequest, "qty must be > 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.SellerID != sellerID {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	if err := u.inventoryRepo.IncreaseStock(ctx, productID, qty); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//履歴を作成（差分）
	adj := model.InventoryAdjustment{
		ProductID:   productID,
		ActorUserID: sellerID,
		Delta:       qty,
		Reason:      strings.TrimSpace(reason),
		CreatedAt:   time.Now(),
	}
	if err := u.inventoryRepo.CreateAdjustment(ctx, adj); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//監査はベストエフォート
	u.audit.Record(ctx, model.AuditLog{
		ActorUserID:  sellerID,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   fmt.Sprintf(`{"stock":%d}`, p.Stock),
		AfterJSON:    fmt.Sprintf(`{"stock":%d}`, p.Stock+qty),
		CreatedAt:    time.Now(),
	})

	return nil
}

// セラー自身のバリアント一覧
func (u *ProductUsecase) ListMyVariants(ctx context.Context, sellerID int64) ([]model.Product, error) {
	if sellerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	items, err := u.productRepo.ListBySellerID(ctx, sellerID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}
