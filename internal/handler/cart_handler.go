package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mycoder/solutions_api/internal/middleware"
	"github.com/mycoder/solutions_api/internal/service"
	"github.com/mycoder/solutions_api/internal/utils"
)

// CartHandler handles the cart command surface.
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// ToggleRequest is the body of POST /v1/cart/items/toggle.
type ToggleRequest struct {
	EntryID string `json:"entryId" binding:"required"`
}

// QuantityRequest is the body of PUT /v1/cart/items/:id/quantity.
type QuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// PriceRequest is the body of PUT /v1/cart/items/:id/price.
type PriceRequest struct {
	Price *int `json:"price" binding:"required"`
}

// CreateCart handles POST /v1/cart
func (h *CartHandler) CreateCart(c *gin.Context) {
	result, err := h.cartService.Create(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to create cart")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create cart")
		return
	}
	utils.Success(c, 201, "Cart created", result)
}

// GetCart handles GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.cartService.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	utils.Success(c, 200, "Cart retrieved", view)
}

// ToggleItem handles POST /v1/cart/items/toggle
func (h *CartHandler) ToggleItem(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "entryId is required")
		return
	}

	view, err := h.cartService.Toggle(c.Request.Context(), middleware.GetSessionID(c), req.EntryID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", view)
}

// RemoveItem handles DELETE /v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.cartService.Remove(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", view)
}

// SetQuantity handles PUT /v1/cart/items/:id/quantity
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "quantity is required")
		return
	}

	view, err := h.cartService.SetQuantity(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"), *req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", view)
}

// SetPrice handles PUT /v1/cart/items/:id/price
func (h *CartHandler) SetPrice(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "price is required")
		return
	}

	view, err := h.cartService.SetPrice(c.Request.Context(), middleware.GetSessionID(c), c.Param("id"), *req.Price)
	if err != nil {
		respondCartError(c, err)
		return
	}
	utils.Success(c, 200, "Cart updated", view)
}

// ClearCart handles DELETE /v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	view, err := h.cartService.Clear(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	utils.Success(c, 200, "Cart cleared", view)
}

// Checkout handles POST /v1/cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	quote, err := h.cartService.Checkout(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	utils.Success(c, 200, "Quote generated", quote)
}

func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrCartNotFound):
		utils.Error(c, 404, "CART_NOT_FOUND", "Cart not found or expired")
	case errors.Is(err, utils.ErrEntryNotFound):
		utils.Error(c, 404, "ENTRY_NOT_FOUND", "Catalog entry not found")
	case errors.Is(err, utils.ErrPriceOutOfRange):
		utils.Error(c, 400, "PRICE_OUT_OF_RANGE", err.Error())
	case errors.Is(err, utils.ErrTotalsOverflow):
		utils.Error(c, 400, "TOTALS_OUT_OF_RANGE", "Cart totals would exceed the supported range")
	case errors.Is(err, utils.ErrCartBusy):
		utils.Error(c, 409, "CART_BUSY", "Cart is being updated, retry shortly")
	case errors.Is(err, utils.ErrCartEmpty):
		utils.Error(c, 400, "CART_EMPTY", "Cart is empty")
	default:
		log.Error().Err(err).Str("session_id", middleware.GetSessionID(c)).Msg("Cart command failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update cart")
	}
}
