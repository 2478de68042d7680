package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type FulfillmentHandler struct {
	uc *usecase.FulfillmentUsecase
}

func NewFulfillmentHandler(uc *usecase.FulfillmentUsecase) *FulfillmentHandler {
	return &FulfillmentHandler{uc: uc}
}

type TrackingUpdateRequest struct {
	Status         string `json:"status"`
	CourierName    string `json:"courier_name"`
	TrackingNumber string `json:"tracking_number"`
}

func (h *FulfillmentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/seller/order-items")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.SellerRoleGuard())

	g.GET("", h.list)
	g.PUT("/:id/tracking", h.updateTracking)
}

func (h *FulfillmentHandler) list(c echo.Context) error {
	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyLineItems(c.Request().Context(), sellerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FulfillmentHandler) updateTracking(c echo.Context) error {
	sellerID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req TrackingUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	err = h.uc.UpdateTracking(c.Request().Context(), sellerID, itemID, usecase.UpdateTrackingInput{
		Status:         req.Status,
		CourierName:    req.CourierName,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}
