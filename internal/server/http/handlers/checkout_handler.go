package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler builds order-submission payloads for the caller.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Checkout handles GET /api/tabs/current/checkout.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	payload, ok := h.facade.Checkout()
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, payload)
}
