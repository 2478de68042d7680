package model

import "time"

// 注文明細。作成後は一切更新しない。
// 価格・商品名は購入時点のスナップショットを持つ。
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64 `gorm:"not null;index" json:"order_id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`
	SellerID  int64 `gorm:"not null;index" json:"seller_id"`

	ProductNameSnapshot string `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`

	//購入時点の単価（セント）
	UnitPrice int64 `gorm:"not null" json:"unit_price"`
	Quantity  int64 `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
