package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type DiscountHandler struct {
	uc *usecase.DiscountUsecase
}

func NewDiscountHandler(uc *usecase.DiscountUsecase) *DiscountHandler {
	return &DiscountHandler{uc: uc}
}

// 日付はYYYY-MM-DD。期間は両端を含む
type DiscountRequest struct {
	Percent   int64  `json:"percent"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *DiscountHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/seller")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.SellerRoleGuard())

	g.GET("/products/:id/discounts", h.list)
	g.POST("/products/:id/discounts", h.create)
	g.PUT("/discounts/:id", h.update)
}

func (h *DiscountHandler) list(c echo.Context) error {
	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.ListForProduct(c.Request().Context(), sellerID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiscountHandler) create(c echo.Context) error {
	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req DiscountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.AddDiscount(c.Request().Context(), sellerID, productID, usecase.DiscountInput{
		Percent:   req.Percent,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"id": id})
}

func (h *DiscountHandler) update(c echo.Context) error {
	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	discountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req DiscountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err = h.uc.UpdateDiscount(c.Request().Context(), sellerID, discountID, usecase.DiscountInput{
		Percent:   req.Percent,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}
