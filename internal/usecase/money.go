package usecase

import (
	"math"
	"time"
)

// 現在の時間。テストでは固定日付を入れる
type Clock interface {
	Now() time.Time
}

// セントへの丸めは四捨五入（half away from zero）。
func roundCents(x float64) int64 {
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return int64(math.Ceil(x - 0.5))
}

// basePriceセントにpercent%割引を適用した後の価格（セント）
func discountedPrice(basePrice int64, percent int64) int64 {
	return roundCents(float64(basePrice) * float64(100-percent) / 100.0)
}

// 小計セント × percent% の手数料額（セント）
func commissionAmount(subtotal int64, percent float64) int64 {
	return roundCents(float64(subtotal) * percent / 100.0)
}
