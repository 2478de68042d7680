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

// 明細ごとの配送追跡の更新と、注文statusへの反映。
type FulfillmentUsecase struct {
	tx    repo.TransactionManager
	audit AuditSink
}

func NewFulfillmentUsecase(tx repo.TransactionManager, audit AuditSink) *FulfillmentUsecase {
	return &FulfillmentUsecase{tx: tx, audit: audit}
}

type UpdateTrackingInput struct {
	Status         string
	CourierName    string
	TrackingNumber string
}

// 追跡を更新し、model.ProjectOrderStatusの対応表で親注文のstatusを上書きする。
// 複数セラー注文では他の明細が別の状態でも最後の更新が丸ごと上書きする。
func (u *FulfillmentUsecase) UpdateTracking(ctx context.Context, sellerID int64, orderItemID int64, in UpdateTrackingInput) error {
	if sellerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid order item id")
	}

	status := model.TrackingStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !status.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	//画面側任せにせずここで必須にする
	courier := strings.TrimSpace(in.CourierName)
	number := strings.TrimSpace(in.TrackingNumber)
	if courier == "" {
		return NewHTTPError(http.StatusBadRequest, "courier_name required")
	}
	if number == "" {
		return NewHTTPError(http.StatusBadRequest, "tracking_number required")
	}

	var beforeStatus, afterStatus model.TrackingStatus
	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		it, err := r.OrderItems().FindByID(ctx, orderItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		//他セラーの明細は触れない
		if it.SellerID != sellerID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		t, err := r.Trackings().FindByOrderItemID(ctx, orderItemID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		beforeStatus = t.Status
		afterStatus = status
		orderID = it.OrderID

		t.Status = status
		t.CourierName = courier
		t.TrackingNumber = number
		if err := r.Trackings().Update(ctx, t); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文全体のstatusへ反映（この1明細が全体を上書きする）
		projected, ok := model.ProjectOrderStatus(status)
		if !ok {
			return NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		if err := r.Orders().UpdateStatus(ctx, it.OrderID, projected); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
	if err != nil {
		return err
	}

	u.audit.Record(ctx, model.AuditLog{
		ActorUserID:  sellerID,
		Action:       model.AuditActionUpdateTracking,
		ResourceType: model.AuditResourceOrderItem,
		ResourceID:   orderItemID,
		BeforeJSON:   fmt.Sprintf(`{"status":%q}`, beforeStatus),
		AfterJSON:    fmt.Sprintf(`{"status":%q,"order_id":%d}`, afterStatus, orderID),
		CreatedAt:    time.Now(),
	})

	return nil
}

type SellerItemOutput struct {
	ID             int64  `json:"id"`
	OrderID        int64  `json:"order_id"`
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	UnitPrice      int64  `json:"unit_price"`
	Quantity       int64  `json:"quantity"`
	TrackingStatus string `json:"tracking_status"`
	CourierName    string `json:"courier_name,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// セラーが受けた明細一覧（配送状況つき）
func (u *FulfillmentUsecase) ListMyLineItems(ctx context.Context, sellerID int64) ([]SellerItemOutput, error) {
	if sellerID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []SellerItemOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, _, err := r.OrderItems().ListBySellerID(ctx, sellerID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		ids := make([]int64, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ID)
		}
		trackings, err := r.Trackings().ListByOrderItemIDs(ctx, ids)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		trackingByItem := make(map[int64]model.Tracking, len(trackings))
		for _, t := range trackings {
			trackingByItem[t.OrderItemID] = t
		}

		outs = make([]SellerItemOutput, 0, len(items))
		for _, it := range items {
			o := SellerItemOutput{
				ID:        it.ID,
				OrderID:   it.OrderID,
				ProductID: it.ProductID,
				Name:      it.ProductNameSnapshot,
				UnitPrice: it.UnitPrice,
				Quantity:  it.Quantity,
			}
			if t, ok := trackingByItem[it.ID]; ok {
				o.TrackingStatus = string(t.Status)
				o.CourierName = t.CourierName
				o.TrackingNumber = t.TrackingNumber
			}
			outs = append(outs, o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}
