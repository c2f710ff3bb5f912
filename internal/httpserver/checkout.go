package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"delicias-urbanas/internal/domain"
	"delicias-urbanas/internal/service/schedule"
)

type validatePickupRequest struct {
	PickupTime string `json:"pickupTime"`
}

type checkoutRequest struct {
	CustomerName  string `json:"customerName"`
	Phone         string `json:"phone"`
	PickupTime    string `json:"pickupTime"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"paymentMethod"`
}

// validateCheckout answers the live pickup check of the checkout form.
// An empty time only checks the day.
func (h *handlers) validateCheckout(c *gin.Context) {
	var req validatePickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	var err error
	if req.PickupTime == "" {
		err = h.deps.OrderSvc.CheckDay()
	} else {
		err = h.deps.OrderSvc.ValidatePickup(req.PickupTime)
	}
	c.JSON(http.StatusOK, gin.H{"ok": err == nil, "reason": schedule.Reason(err)})
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	receipt, err := h.deps.OrderSvc.Checkout(c.Request.Context(), sessionID(c), domain.OrderDetails{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		PickupTime:    req.PickupTime,
		Notes:         req.Notes,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (h *handlers) listOrders(c *gin.Context) {
	orders := h.deps.OrderSvc.List(sessionID(c))
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":      orders,
		"activeCount": h.deps.OrderSvc.ActiveCount(sessionID(c)),
	})
}

func (h *handlers) cancelOrder(c *gin.Context) {
	receipt, err := h.deps.OrderSvc.Cancel(c.Request.Context(), sessionID(c), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorBody("order not found"))
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
