package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// VariantCreateRequest はバリアント作成の入力。
type VariantCreateRequest struct {
	Name        string `json:"name"`
	Console     string `json:"console"`
	Condition   string `json:"condition"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
	IsActive    bool   `json:"is_active"`
}

// VariantUpdateRequest は更新の入力。conditionと在庫は受け付けない。
type VariantUpdateRequest struct {
	Name        string `json:"name"`
	Console     string `json:"console"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price"`
	IsActive    bool   `json:"is_active"`
}

// RestockRequest は在庫補充の入力。
type RestockRequest struct {
	Qty    int64  `json:"qty"`
	Reason string `json:"reason"`
}

// /seller/products をまとめる
type SellerProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewSellerProductHandler(uc *usecase.ProductUsecase) *SellerProductHandler {
	return &SellerProductHandler{uc: uc}
}

func (h *SellerProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/seller/products")

	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.SellerRoleGuard())

	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.POST("/:id/restock", h.restock)
}

func (h *SellerProductHandler) list(c echo.Context) error {
	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyVariants(c.Request().Context(), sellerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SellerProductHandler) create(c echo.Context) error {
	var req VariantCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := h.uc.CreateVariant(
		c.Request().Context(),
		sellerID,
		usecase.CreateVariantInput{
			Name:        req.Name,
			Console:     req.Console,
			Condition:   req.Condition,
			Category:    req.Category,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			Price:       req.Price,
			Stock:       req.Stock,
			IsActive:    req.IsActive,
		},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"id": id})
}

func (h *SellerProductHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req VariantUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	err = h.uc.UpdateVariant(
		c.Request().Context(),
		sellerID,
		id,
		usecase.UpdateVariantInput{
			Name:        req.Name,
			Console:     req.Console,
			Category:    req.Category,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			Price:       req.Price,
			IsActive:    req.IsActive,
		},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *SellerProductHandler) restock(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Restock(c.Request().Context(), sellerID, id, req.Qty, req.Reason); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "restocked"})
}
