package model

import "time"

// プラットフォーム手数料。注文明細と1対1。
// 注文作成時に計算して固定し、以後更新も削除もしない（レポート専用）。
type Commission struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderItemID int64 `gorm:"not null;uniqueIndex" json:"order_item_id"`
	SellerID    int64 `gorm:"not null;index" json:"seller_id"`

	//作成時点の全体設定値
	Percent float64 `gorm:"not null" json:"percent"`

	//小計 × percent/100 をセントに丸めたもの
	Amount int64 `gorm:"not null" json:"amount"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
