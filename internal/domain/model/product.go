package model

import "time"

// 商品の状態（コンディション）。作成後は変更不可。
type ProductCondition string

const (
	ConditionMint        ProductCondition = "MINT"
	ConditionUsed        ProductCondition = "USED"
	ConditionRefurbished ProductCondition = "REFURBISHED"
)

// 固定の3種類のみ許可
func (c ProductCondition) Valid() bool {
	switch c {
	case ConditionMint, ConditionUsed, ConditionRefurbished:
		return true
	default:
		return false
	}
}

// 商品バリアント。seller+name+console+conditionの組で1行。
// 同じ組の重複はDBのuniqueIndexでも防ぐ。
type Product struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID int64 `gorm:"not null;index;uniqueIndex:uq_product_variant" json:"seller_id"`

	//タイトル（ゲーム名）
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:uq_product_variant" json:"name"`

	//対応ハード（SNES / PS1 など）
	Console string `gorm:"type:varchar(100);not null;uniqueIndex:uq_product_variant" json:"console"`

	Condition ProductCondition `gorm:"type:varchar(20);not null;uniqueIndex:uq_product_variant" json:"condition"`

	Category    string `gorm:"type:varchar(100)" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"type:varchar(500)" json:"image_url"`

	//価格はセント単位の整数
	Price int64 `gorm:"not null" json:"price"`

	//在庫。上書きせず増減操作だけで更新する
	Stock int64 `gorm:"not null" json:"stock"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
