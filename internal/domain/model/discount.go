package model

import "time"

// 商品ごとの割引。期間は両端を含む（start <= 日付 <= end）。
// 同じ商品の期間は重ねられない。
type Discount struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	//0〜100の整数パーセント
	Percent int64 `gorm:"not null" json:"percent"`

	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 有効判定は保存せず都度計算する（日付∈[start,end] かつ percent>0）
func (d Discount) ActiveAt(date time.Time) bool {
	if d.Percent <= 0 {
		return false
	}
	day := DateOnly(date)
	return !day.Before(DateOnly(d.StartDate)) && !day.After(DateOnly(d.EndDate))
}

// 時刻部分を落として日単位に揃える
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
