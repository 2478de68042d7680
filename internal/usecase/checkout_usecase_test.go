package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validLines() []usecase.CartLine {
	return []usecase.CartLine{
		{ProductID: 101, SellerID: 10, UnitPrice: 1000, Quantity: 2},
		{ProductID: 102, SellerID: 20, UnitPrice: 1500, Quantity: 1},
	}
}

// =====================
// Validation
// =====================

func TestCheckout_PlaceOrder_EmptyCart(t *testing.T) {
	uc := usecase.NewCheckoutUsecase(newTxManagerStub(), new(AddressRepoMock), nopAudit{}, 5.0)

	_, err := uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{
		AddressID:      5,
		IdempotencyKey: "key-1",
		Lines:          nil,
	})
	assertErrContains(t, err, "cart empty")
	assertHTTPStatus(t, err, 400)
}

func TestCheckout_PlaceOrder_InvalidQuantity(t *testing.T) {
	uc := usecase.NewCheckoutUsecase(newTxManagerStub(), new(AddressRepoMock), nopAudit{}, 5.0)

	_, err := uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{
		AddressID:      5,
		IdempotencyKey: "key-1",
		Lines:          []usecase.CartLine{{ProductID: 101, SellerID: 10, UnitPrice: 1000, Quantity: 0}},
	})
	assertErrContains(t, err, "quantity must be > 0")
}

func TestCheckout_PlaceOrder_MissingIdempotencyKey(t *testing.T) {
	uc := usecase.NewCheckoutUsecase(newTxManagerStub(), new(AddressRepoMock), nopAudit{}, 5.0)

	_, err := uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{
		AddressID: 5,
		Lines:     validLines(),
	})
	assertErrContains(t, err, "invalid idempotency_key")
}

func TestCheckout_PlaceOrder_AddressNotFound(t *testing.T) {
	aRepo := new(AddressRepoMock)
	aRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Address{}, repo.ErrNotFound)

	uc := usecase.NewCheckoutUsecase(newTxManagerStub(), aRepo, nopAudit{}, 5.0)

	_, err := uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{
		AddressID:      5,
		IdempotencyKey: "key-1",
		Lines:          validLines(),
	})
	assertHTTPStatus(t, err, 404)
}

func TestCheckout_PlaceOrder_ForeignAddressForbidden(t *testing.T) {
	aRepo := new(AddressRepoMock)
	aRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Address{ID: 5, UserID: 99}, nil)

	uc := usecase.NewCheckoutUsecase(newTxManagerStub(), aRepo, nopAudit{}, 5.0)

	_, err := uc.PlaceOrder(context.Background(), 1, usecase.PlaceOrderInput{
		AddressID:      5,
		IdempotencyKey: "key-1",
		Lines:          validLines(),
	})
	assertHTTPStatus(t, err, 403)
}

// =====================
// 成功パス：注文＋明細＋追跡＋手数料＋在庫減算が1回で揃う
// =====================

func TestCheckout_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()

	aRepo := new(AddressRepoMock)
	aRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Address{ID: 5, UserID: 1}, nil)

	tx := newTxManagerStub()
	audit := new(AuditSinkMock)

	tx.repos.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)

	// 合計は 1000*2 + 1500*1 = 3500
	tx.repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.CustomerID == 1 &&
			o.AddressID == 5 &&
			o.Status == model.OrderStatusPending &&
			o.TotalAmount == 3500 &&
			o.IdempotencyKey == "key-1"
	})).Return(int64(77), nil)

	tx.repos.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, SellerID: 10, Name: "Chrono Trigger", IsActive: true}, nil)
	tx.repos.products.On("FindByID", mock.Anything, int64(102)).
		Return(model.Product{ID: 102, SellerID: 20, Name: "Mario Kart 64", IsActive: true}, nil)

	tx.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(101), int64(2)).Return(true, nil)
	tx.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(102), int64(1)).Return(true, nil)

	createdItems := []model.OrderItem{
		{ID: 501, OrderID: 77, ProductID: 101, SellerID: 10, ProductNameSnapshot: "Chrono Trigger", UnitPrice: 1000, Quantity: 2},
		{ID: 502, OrderID: 77, ProductID: 102, SellerID: 20, ProductNameSnapshot: "Mario Kart 64", UnitPrice: 1500, Quantity: 1},
	}
	tx.repos.orderItems.On("CreateBulk", mock.Anything, int64(77), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[0].ProductNameSnapshot == "Chrono Trigger" &&
			items[1].ProductNameSnapshot == "Mario Kart 64"
	})).Return(createdItems, nil)

	// 明細ごとにPENDINGの追跡
	tx.repos.trackings.On("CreateBulk", mock.Anything, mock.MatchedBy(func(ts []model.Tracking) bool {
		return len(ts) == 2 &&
			ts[0].OrderItemID == 501 && ts[0].Status == model.TrackingStatusPending &&
			ts[1].OrderItemID == 502 && ts[1].Status == model.TrackingStatusPending
	})).Return(nil)

	// 手数料5%: 2000*0.05=100, 1500*0.05=75
	tx.repos.commissions.On("CreateBulk", mock.Anything, mock.MatchedBy(func(cs []model.Commission) bool {
		return len(cs) == 2 &&
			cs[0].OrderItemID == 501 && cs[0].SellerID == 10 && cs[0].Percent == 5.0 && cs[0].Amount == 100 &&
			cs[1].OrderItemID == 502 && cs[1].SellerID == 20 && cs[1].Percent == 5.0 && cs[1].Amount == 75
	})).Return(nil)

	audit.On("Record", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 1 &&
			l.Action == model.AuditActionPlaceOrder &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == 77
	})).Return()

	uc := usecase.NewCheckoutUsecase(tx, aRepo, audit, 5.0)

	out, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{
		AddressID:      5,
		IdempotencyKey: "key-1",
		Lines:          validLines(),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.ID)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, int64(3500), out.TotalAmount)
	assert.Equal(t, 2, len(out.Items))
	assert.Equal(t, int64(1000), out.Items[0].UnitPrice)

	tx.repos.orders.AssertExpectations(t)
	tx.repos.orderItems.AssertExpectations(t)
	tx.repos.trackings.AssertExpectations(t)
	tx.repos.commissions.AssertExpectations(t)
	tx.repos.inventory.AssertExpectations(t)
	audit.AssertExpectations(t)
}

// =====================
// 在庫不足：2行目で失敗したら全体が失敗し、後続の書き込みは起きない
// =====================

func TestCheckout_PlaceOrder_OutOfStock_SecondLine(t *testing.T) {
	ctx := context.Background()

	aRepo := new(AddressRepoMock)
	aRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Address{ID: 5, UserID: 1}, nil)

	tx := newTxManagerStub()
	audit := new(AuditSinkMock)

	tx.repos.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	tx.repos.orders.On("Create", mock.Anything, mock.AnythingOfType("model.Order")).Return(int64(77), nil)

	tx.repos.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, SellerID: 10, Name: "Chrono Trigger", IsActive: true}, nil)
	tx.repos.products.On("FindByID", mock.Anything, int64(102)).
		Return(model.Product{ID: 102, SellerID: 20, Name: "Mario Kart 64", IsActive: true}, nil)

	tx.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(101), int64(2)).Return(true, nil)
	tx.repos.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(102), int64(1)).Return(false, nil)

	uc := usecase.NewCheckoutUsecase(tx, aRepo, audit, 5.0)

	_, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{
		AddressID:      5,
		IdempotencyKey: "key-1",
		Lines:          validLines(),
	})
	assertHTTPStatus(t, err, 409)
	assertErrContains(t, err, "out of stock: product 102")

	// 明細・追跡・手数料は作られない。監査も残らない
	tx.repos.orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	tx.repos.trackings.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything)
	tx.repos.commissions.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestCheckout_PlaceOrder_InactiveProduct(t *testing.T) {
	ctx := context.Background()

	aRepo := new(AddressRepoMock)
	aRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Address{ID: 5, UserID: 1}, nil)

	tx := newTxManagerStub()
	tx.repos.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").
		Return(model.Order{}, false, nil)
	tx.repos.orders.On("Create", mock.Anything, mock.AnythingOfType("model.Order")).Return(int64(77), nil)
	tx.repos.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, SellerID: 10, IsActive: false}, nil)

	uc := usecase.NewCheckoutUsecase(tx, aRepo, nopAudit{}, 5.0)

	_, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{
		AddressID:      5,
		IdempotencyKey: "key-1",
		Lines:          []usecase.CartLine{{ProductID: 101, SellerID: 10, UnitPrice: 1000, Quantity: 1}},
	})
	assertErrContains(t, err, "invalid cart line for product 101")
}

// =====================
// Idempotency：同じキーなら同じ注文が返り、新しい書き込みは起きない
// =====================

func TestCheckout_PlaceOrder_IdempotentReplay(t *testing.T) {
	ctx := context.Background()

	aRepo := new(AddressRepoMock)
	aRepo.On("FindByID", mock.Anything, int64(5)).Return(model.Address{ID: 5, UserID: 1}, nil)

	tx := newTxManagerStub()

	existing := model.Order{ID: 42, CustomerID: 1, Status: model.OrderStatusPending, TotalAmount: 3500}
	tx.repos.orders.On("FindByIdempotencyKey", mock.Anything, int64(1), "key-1").
		Return(existing, true, nil)
	tx.repos.orderItems.On("ListByOrderID", mock.Anything, int64(42)).
		Return([]model.OrderItem{{ID: 501, OrderID: 42, UnitPrice: 1000, Quantity: 2}}, nil)

	uc := usecase.NewCheckoutUsecase(tx, aRepo, nopAudit{}, 5.0)

	out, err := uc.PlaceOrder(ctx, 1, usecase.PlaceOrderInput{
		AddressID:      5,
		IdempotencyKey: "key-1",
		Lines:          validLines(),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, int64(3500), out.TotalAmount)

	tx.repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	tx.repos.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// 参照系
// =====================

func TestCheckout_GetMyOrderDetail_ForeignOrderHidden(t *testing.T) {
	ctx := context.Background()

	tx := newTxManagerStub()
	tx.repos.orders.On("FindByID", mock.Anything, int64(42)).
		Return(model.Order{ID: 42, CustomerID: 99}, nil)

	uc := usecase.NewCheckoutUsecase(tx, new(AddressRepoMock), nopAudit{}, 5.0)

	_, err := uc.GetMyOrderDetail(ctx, 1, 42)
	// 他人の注文は404扱い
	assertHTTPStatus(t, err, 404)
}

func TestCheckout_GetMyOrderDetail_WithTracking(t *testing.T) {
	ctx := context.Background()

	tx := newTxManagerStub()
	tx.repos.orders.On("FindByID", mock.Anything, int64(42)).
		Return(model.Order{ID: 42, CustomerID: 1, Status: model.OrderStatusShipped, TotalAmount: 2000}, nil)
	tx.repos.orderItems.On("ListByOrderID", mock.Anything, int64(42)).
		Return([]model.OrderItem{{ID: 501, OrderID: 42, ProductNameSnapshot: "Chrono Trigger", UnitPrice: 1000, Quantity: 2}}, nil)
	tx.repos.trackings.On("ListByOrderItemIDs", mock.Anything, []int64{501}).
		Return([]model.Tracking{{OrderItemID: 501, Status: model.TrackingStatusShipped, CourierName: "Yamato", TrackingNumber: "TN-1"}}, nil)

	uc := usecase.NewCheckoutUsecase(tx, new(AddressRepoMock), nopAudit{}, 5.0)

	out, err := uc.GetMyOrderDetail(ctx, 1, 42)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, "SHIPPED", out.Items[0].TrackingStatus)
	assert.Equal(t, "Yamato", out.Items[0].CourierName)
	assert.Equal(t, "TN-1", out.Items[0].TrackingNumber)
}
