package model

import "time"

// 明細ごとの配送ステータス
type TrackingStatus string

const (
	TrackingStatusPending   TrackingStatus = "PENDING"
	TrackingStatusShipped   TrackingStatus = "SHIPPED"
	TrackingStatusInTransit TrackingStatus = "IN_TRANSIT"
	TrackingStatusDelivered TrackingStatus = "DELIVERED"
)

func (s TrackingStatus) Valid() bool {
	switch s {
	case TrackingStatusPending, TrackingStatusShipped,
		TrackingStatusInTransit, TrackingStatusDelivered:
		return true
	default:
		return false
	}
}

// 配送追跡。注文明細と1対1。注文作成時にPENDINGで作られ、
// 以後はその明細のセラーだけが更新する。
type Tracking struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderItemID int64 `gorm:"not null;uniqueIndex" json:"order_item_id"`

	Status TrackingStatus `gorm:"type:varchar(20);not null" json:"status"`

	CourierName    string `gorm:"type:varchar(100)" json:"courier_name"`
	TrackingNumber string `gorm:"type:varchar(100)" json:"tracking_number"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// tracking更新時に注文全体のstatusへ反映する対応表。
// どれか1明細の更新が注文全体を上書きする（複数セラー注文でも最後の更新が勝つ）。
var orderStatusByTracking = map[TrackingStatus]OrderStatus{
	TrackingStatusPending:   OrderStatusPending,
	TrackingStatusShipped:   OrderStatusShipped,
	TrackingStatusInTransit: OrderStatusShipped,
	TrackingStatusDelivered: OrderStatusDelivered,
}

// 対応表にないステータスはfalseを返す
func ProjectOrderStatus(s TrackingStatus) (OrderStatus, bool) {
	st, ok := orderStatusByTracking[s]
	return st, ok
}
