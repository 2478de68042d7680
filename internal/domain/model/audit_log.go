package model

import "time"

// 在庫更新、注文ステータス更新など。
type AuditAction string

const (
	//在庫を更新した操作。
	AuditActionUpdateStock AuditAction = "UPDATE_STOCK"
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//配送追跡を更新した操作。
	AuditActionUpdateTracking AuditAction = "UPDATE_TRACKING"
	//注文を作成した操作。
	AuditActionPlaceOrder AuditAction = "PLACE_ORDER"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct   AuditResourceType = "product"
	AuditResourceOrder     AuditResourceType = "order"
	AuditResourceOrderItem AuditResourceType = "order_item"
	AuditResourceUser      AuditResourceType = "user"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
// 保存失敗が本体の書き込みを巻き戻すことはない（ベストエフォート）。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
