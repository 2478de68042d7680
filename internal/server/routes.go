package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

// Handlersはルート登録に必要なハンドラ一式
type Handlers struct {
	Auth          *handler.AuthHandler
	Product       *handler.ProductHandler
	SellerProduct *handler.SellerProductHandler
	Discount      *handler.DiscountHandler
	Order         *handler.OrderHandler
	Address       *handler.AddressHandler
	Fulfillment   *handler.FulfillmentHandler
	Earnings      *handler.EarningsHandler
	AdminOrder    *handler.AdminOrderHandler
	AdminAudit    *handler.AdminAuditHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.SellerProduct.RegisterRoutes(e, cfg)
	h.Discount.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Address.RegisterRoutes(e, cfg)
	h.Fulfillment.RegisterRoutes(e, cfg)
	h.Earnings.RegisterRoutes(e, cfg)
	h.AdminOrder.RegisterRoutes(e, cfg)
	h.AdminAudit.RegisterRoutes(e, cfg)
}
