package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"delicias-urbanas/internal/domain"
	"delicias-urbanas/internal/service/bundle"
	cartsvc "delicias-urbanas/internal/service/cart"
	productsvc "delicias-urbanas/internal/service/product"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type addBundleRequest struct {
	ProductID  string                    `json:"productId" binding:"required"`
	Selections map[string]map[string]int `json:"selections"`
}

type updateItemRequest struct {
	Delta int `json:"delta"`
}

type cartResponse struct {
	Items           []domain.LineItem `json:"items"`
	Total           int64             `json:"total"`
	Count           int               `json:"count"`
	Recommendations []domain.Product  `json:"recommendations"`
}

func (h *handlers) cartBody(c *gin.Context, cart *cartsvc.Store) (cartResponse, error) {
	recs, err := h.deps.ProductSvc.Recommendations(c.Request.Context(), cart.ProductIDs(), productsvc.DefaultRecommendations)
	if err != nil {
		return cartResponse{}, err
	}
	items := cart.Items()
	if items == nil {
		items = []domain.LineItem{}
	}
	if recs == nil {
		recs = []domain.Product{}
	}
	return cartResponse{Items: items, Total: domain.Total(items), Count: domain.Count(items), Recommendations: recs}, nil
}

func (h *handlers) writeCart(c *gin.Context, status int, cart *cartsvc.Store) {
	body, err := h.cartBody(c, cart)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, body)
}

func (h *handlers) getCart(c *gin.Context) {
	h.writeCart(c, http.StatusOK, h.deps.CartSvc.Cart(sessionID(c)))
}

func (h *handlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	cart := h.deps.CartSvc.Cart(sessionID(c))
	if _, err := cart.AddProduct(*p); err != nil {
		h.respondError(c, err)
		return
	}
	h.writeCart(c, http.StatusOK, cart)
}

// addBundle replays the customer's flavor picks through the allocator and
// adds the confirmed bundle as its own cart line.
func (h *handlers) addBundle(c *gin.Context) {
	var req addBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !p.IsBundle() {
		h.respondError(c, cartsvc.ErrNotCustomizable)
		return
	}
	alloc, err := bundle.FromSelections(p.Customization.Groups, req.Selections)
	if err != nil {
		h.respondError(c, err)
		return
	}
	summary, err := alloc.Confirm()
	if errors.Is(err, bundle.ErrIncomplete) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "Completá la selección de sabores",
			"remaining": alloc.Missing(),
		})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	cart := h.deps.CartSvc.Cart(sessionID(c))
	if _, err := cart.AddCustomized(*p, summary); err != nil {
		h.respondError(c, err)
		return
	}
	h.writeCart(c, http.StatusOK, cart)
}

func (h *handlers) updateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart := h.deps.CartSvc.Cart(sessionID(c))
	if err := cart.UpdateQuantity(c.Param("lineId"), req.Delta); err != nil {
		h.respondError(c, err)
		return
	}
	h.writeCart(c, http.StatusOK, cart)
}

func (h *handlers) removeItem(c *gin.Context) {
	cart := h.deps.CartSvc.Cart(sessionID(c))
	cart.Remove(c.Param("lineId"))
	h.writeCart(c, http.StatusOK, cart)
}
