package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertHTTPStatus(t *testing.T, err error, wantStatus int) {
	t.Helper()
	if assert.Error(t, err) {
		he, ok := usecase.AsHTTPError(err)
		if assert.True(t, ok, "err=%q is not HTTPError", err.Error()) {
			assert.Equal(t, wantStatus, he.Status)
		}
	}
}

// テストでは日付を固定する
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// 監査を検証しないテスト用
type nopAudit struct{}

func (nopAudit) Record(ctx context.Context, log model.AuditLog) {}

type AuditSinkMock struct{ mock.Mock }

func (m *AuditSinkMock) Record(ctx context.Context, log model.AuditLog) {
	m.Called(ctx, log)
}

// =====================
// Repository mocks
// =====================

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) ListBySellerID(ctx context.Context, sellerID int64) ([]model.Product, error) {
	args := m.Called(ctx, sellerID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ExistsVariant(ctx context.Context, sellerID int64, name, console string, condition model.ProductCondition) (bool, error) {
	args := m.Called(ctx, sellerID, name, console, condition)
	return args.Bool(0), args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type DiscountRepoMock struct{ mock.Mock }

func (m *DiscountRepoMock) FindByID(ctx context.Context, discountID int64) (model.Discount, error) {
	args := m.Called(ctx, discountID)
	d, _ := args.Get(0).(model.Discount)
	return d, args.Error(1)
}

func (m *DiscountRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.Discount, error) {
	args := m.Called(ctx, productID)
	items, _ := args.Get(0).([]model.Discount)
	return items, args.Error(1)
}

func (m *DiscountRepoMock) FindActive(ctx context.Context, productID int64, asOf time.Time) (model.Discount, bool, error) {
	args := m.Called(ctx, productID, asOf)
	d, _ := args.Get(0).(model.Discount)
	return d, args.Bool(1), args.Error(2)
}

func (m *DiscountRepoMock) ExistsOverlapping(ctx context.Context, productID int64, start, end time.Time, excludeID int64) (bool, error) {
	args := m.Called(ctx, productID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *DiscountRepoMock) Create(ctx context.Context, d model.Discount) (model.Discount, error) {
	args := m.Called(ctx, d)
	created, _ := args.Get(0).(model.Discount)
	return created, args.Error(1)
}

func (m *DiscountRepoMock) Update(ctx context.Context, d model.Discount) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, customerID, page, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, customerID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID, items)
	created, _ := args.Get(0).([]model.OrderItem)
	return created, args.Error(1)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) FindByID(ctx context.Context, orderItemID int64) (model.OrderItem, error) {
	args := m.Called(ctx, orderItemID)
	it, _ := args.Get(0).(model.OrderItem)
	return it, args.Error(1)
}

func (m *OrderItemRepoMock) ListBySellerID(ctx context.Context, sellerID int64, page int, limit int) ([]model.OrderItem, int64, error) {
	args := m.Called(ctx, sellerID, page, limit)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Get(1).(int64), args.Error(2)
}

type TrackingRepoMock struct{ mock.Mock }

func (m *TrackingRepoMock) CreateBulk(ctx context.Context, trackings []model.Tracking) error {
	args := m.Called(ctx, trackings)
	return args.Error(0)
}

func (m *TrackingRepoMock) FindByOrderItemID(ctx context.Context, orderItemID int64) (model.Tracking, error) {
	args := m.Called(ctx, orderItemID)
	tr, _ := args.Get(0).(model.Tracking)
	return tr, args.Error(1)
}

func (m *TrackingRepoMock) ListByOrderItemIDs(ctx context.Context, orderItemIDs []int64) ([]model.Tracking, error) {
	args := m.Called(ctx, orderItemIDs)
	items, _ := args.Get(0).([]model.Tracking)
	return items, args.Error(1)
}

func (m *TrackingRepoMock) Update(ctx context.Context, t model.Tracking) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

type CommissionRepoMock struct{ mock.Mock }

func (m *CommissionRepoMock) CreateBulk(ctx context.Context, commissions []model.Commission) error {
	args := m.Called(ctx, commissions)
	return args.Error(0)
}

func (m *CommissionRepoMock) ListByOrderItemIDs(ctx context.Context, orderItemIDs []int64) ([]model.Commission, error) {
	args := m.Called(ctx, orderItemIDs)
	items, _ := args.Get(0).([]model.Commission)
	return items, args.Error(1)
}

func (m *CommissionRepoMock) SellerEarnings(ctx context.Context, sellerID int64) (repo.SellerEarnings, error) {
	args := m.Called(ctx, sellerID)
	e, _ := args.Get(0).(repo.SellerEarnings)
	return e, args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Address)
	return items, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	args := m.Called(ctx, addressID, userID)
	return args.Bool(0), args.Error(1)
}

// =====================
// Tx plumbing
// =====================

// 本物のTxの代わりに同じmockをそのまま返す。
// fnがerrorを返したらrollback相当（何もcommitしない）としてそのまま返す。
type txReposStub struct {
	orders      *OrderRepoMock
	orderItems  *OrderItemRepoMock
	trackings   *TrackingRepoMock
	commissions *CommissionRepoMock
	inventory   *InventoryRepoMock
	products    *ProductRepoMock
}

func (s *txReposStub) Orders() repo.OrderRepository           { return s.orders }
func (s *txReposStub) OrderItems() repo.OrderItemRepository   { return s.orderItems }
func (s *txReposStub) Trackings() repo.TrackingRepository     { return s.trackings }
func (s *txReposStub) Commissions() repo.CommissionRepository { return s.commissions }
func (s *txReposStub) Inventory() repo.InventoryRepository    { return s.inventory }
func (s *txReposStub) Products() repo.ProductRepository       { return s.products }

type txManagerStub struct {
	repos txReposStub
}

func newTxManagerStub() *txManagerStub {
	return &txManagerStub{
		repos: txReposStub{
			orders:      new(OrderRepoMock),
			orderItems:  new(OrderItemRepoMock),
			trackings:   new(TrackingRepoMock),
			commissions: new(CommissionRepoMock),
			inventory:   new(InventoryRepoMock),
			products:    new(ProductRepoMock),
		},
	}
}

func (s *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(&s.repos)
}
