package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 注文作成とその読み取り。
// 注文・明細・追跡・手数料・在庫減算は1トランザクションで全部成功か全部失敗。
type CheckoutUsecase struct {
	tx                repo.TransactionManager
	addresses         repo.AddressRepository
	audit             AuditSink
	commissionPercent float64
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	addresses repo.AddressRepository,
	audit AuditSink,
	commissionPercent float64,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:                tx,
		addresses:         addresses,
		audit:             audit,
		commissionPercent: commissionPercent,
	}
}

// カート1行分。カートそのものはセッション側の持ち物で、確定時にここへ渡される
type CartLine struct {
	ProductID int64 `json:"product_id"`
	SellerID  int64 `json:"seller_id"`
	UnitPrice int64 `json:"unit_price"`
	Quantity  int64 `json:"quantity"`
}

type PlaceOrderInput struct {
	AddressID      int64
	IdempotencyKey string
	Lines          []CartLine
}

type OrderItemOutput struct {
	ID             int64  `json:"id"`
	ProductID      int64  `json:"product_id"`
	SellerID       int64  `json:"seller_id"`
	Name           string `json:"name"`
	UnitPrice      int64  `json:"unit_price"`
	Quantity       int64  `json:"quantity"`
	TrackingStatus string `json:"tracking_status,omitempty"`
	CourierName    string `json:"courier_name,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	CustomerID  int64             `json:"customer_id"`
	Status      string            `json:"status"`
	TotalAmount int64             `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemOutput `json:"items"`
}

func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, customerID int64, in PlaceOrderInput) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.AddressID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid address_id")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}
	if len(in.Lines) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	for _, line := range in.Lines {
		if line.ProductID <= 0 || line.SellerID <= 0 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid cart line")
		}
		if line.Quantity <= 0 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "quantity must be > 0")
		}
		if line.UnitPrice < 0 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "unit_price must be >= 0")
		}
	}

	//address_idの存在確認＋所有チェック
	addr, err := u.addresses.FindByID(ctx, in.AddressID)
	if err != nil {
		if err == repo.ErrNotFound {
			return OrderOutput{}, NewHTTPError(http.StatusNotFound, "address not found")
		}
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人の住所なら403
	if addr.UserID != customerID {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var out OrderOutput

	//注文処理はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, customerID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			//既存注文を返す
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = toOrderOutput(existing, items, nil)
			return nil
		}

		//合計は購入時点のスナップショット
		var total int64 = 0
		for _, line := range in.Lines {
			total += line.UnitPrice * line.Quantity
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			CustomerID:     customerID,
			AddressID:      in.AddressID,
			Status:         model.OrderStatusPending,
			TotalAmount:    total,
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			//同時に同じキーが入った場合はもう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, customerID, key)
			if err2 == nil && found2 {
				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				out = toOrderOutput(ex2, items2, nil)
				return nil
			}
			return NewHTTPError(http.StatusConflict, "idempotency conflict")
		}

		//明細はカート順に処理する
		orderItems := make([]model.OrderItem, 0, len(in.Lines))
		for _, line := range in.Lines {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown product %d", line.ProductID))
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive || p.SellerID != line.SellerID {
				return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid cart line for product %d", line.ProductID))
			}

			//在庫減算。足りなければ409で全体rollback
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusConflict, fmt.Sprintf("out of stock: product %d", line.ProductID))
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           line.ProductID,
				SellerID:            line.SellerID,
				ProductNameSnapshot: p.Name,
				UnitPrice:           line.UnitPrice,
				Quantity:            line.Quantity,
				CreatedAt:           now,
			})
		}

		//明細一括作成（ID採番済みで返る）
		createdItems, err := r.OrderItems().CreateBulk(ctx, orderID, orderItems)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//明細ごとにPENDINGの追跡と手数料を作る
		trackings := make([]model.Tracking, 0, len(createdItems))
		commissions := make([]model.Commission, 0, len(createdItems))
		for _, it := range createdItems {
			trackings = append(trackings, model.Tracking{
				OrderItemID: it.ID,
				Status:      model.TrackingStatusPending,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			subtotal := it.UnitPrice * it.Quantity
			commissions = append(commissions, model.Commission{
				OrderItemID: it.ID,
				SellerID:    it.SellerID,
				Percent:     u.commissionPercent,
				Amount:      commissionAmount(subtotal, u.commissionPercent),
				CreatedAt:   now,
			})
		}
		if err := r.Trackings().CreateBulk(ctx, trackings); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Commissions().CreateBulk(ctx, commissions); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:          orderID,
			CustomerID:  customerID,
			AddressID:   in.AddressID,
			Status:      model.OrderStatusPending,
			TotalAmount: total,
			CreatedAt:   now,
		}
		out = toOrderOutput(created, createdItems, nil)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//commit後の監査（ベストエフォート）
	u.audit.Record(ctx, model.AuditLog{
		ActorUserID:  customerID,
		Action:       model.AuditActionPlaceOrder,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   out.ID,
		AfterJSON:    fmt.Sprintf(`{"total_amount":%d,"items":%d}`, out.TotalAmount, len(out.Items)),
		CreatedAt:    time.Now(),
	})

	return out, nil
}

func (u *CheckoutUsecase) ListMyOrders(ctx context.Context, customerID int64) ([]OrderOutput, error) {
	if customerID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//ページングはまずは固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByCustomerID(ctx, customerID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items, nil))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *CheckoutUsecase) GetMyOrderDetail(ctx context.Context, customerID int64, orderID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.CustomerID != customerID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//明細ごとの配送状況も付ける
		ids := make([]int64, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		trackings, err := r.Trackings().ListByOrderItemIDs(ctx, ids)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items, trackings)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem, trackings []model.Tracking) OrderOutput {
	trackingByItem := make(map[int64]model.Tracking, len(trackings))
	for _, t := range trackings {
		trackingByItem[t.OrderItemID] = t
	}

	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		oi := OrderItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			SellerID:  it.SellerID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
		if t, ok := trackingByItem[it.ID]; ok {
			oi.TrackingStatus = string(t.Status)
			oi.CourierName = t.CourierName
			oi.TrackingNumber = t.TrackingNumber
		}
		outItems = append(outItems, oi)
	}

	return OrderOutput{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Items:       outItems,
	}
}
