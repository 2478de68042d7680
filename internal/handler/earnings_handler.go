package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type EarningsHandler struct {
	uc *usecase.EarningsUsecase
}

func NewEarningsHandler(uc *usecase.EarningsUsecase) *EarningsHandler {
	return &EarningsHandler{uc: uc}
}

func (h *EarningsHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/seller/earnings")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.SellerRoleGuard())

	g.GET("", h.summary)
}

func (h *EarningsHandler) summary(c echo.Context) error {
	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.SellerEarnings(c.Request().Context(), sellerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
