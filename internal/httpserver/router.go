package httpserver

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"delicias-urbanas/internal/domain"
	cartsvc "delicias-urbanas/internal/service/cart"
	ordersvc "delicias-urbanas/internal/service/order"
	productsvc "delicias-urbanas/internal/service/product"
	"delicias-urbanas/internal/service/schedule"
	"delicias-urbanas/internal/service/session"
)

type ProductService interface {
	Grouped(ctx context.Context, f productsvc.Filter) ([]productsvc.Section, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Recommendations(ctx context.Context, inCart []string, n int) ([]domain.Product, error)
}

type CartService interface {
	Cart(sessionID string) *cartsvc.Store
}

type OrderService interface {
	Checkout(ctx context.Context, sessionID string, details domain.OrderDetails) (*ordersvc.Receipt, error)
	Cancel(ctx context.Context, sessionID, id string) (*ordersvc.Receipt, error)
	List(sessionID string) []domain.Order
	ActiveCount(sessionID string) int
	ValidatePickup(pickup string) error
	CheckDay() error
}

type SessionService interface {
	Issue(ctx context.Context) (session.Session, error)
	Lookup(ctx context.Context, token string) (string, error)
	TTLSeconds() int
}

type StatusSource interface {
	Current() schedule.Status
}

// Deps groups the services the handlers call.
type Deps struct {
	ProductSvc ProductService
	CartSvc    CartService
	OrderSvc   OrderService
	SessionSvc SessionService
	Status     StatusSource
	Shop       ShopInfo
}

func (d Deps) validate() error {
	switch {
	case d.ProductSvc == nil:
		return errors.New("httpserver: product service required")
	case d.CartSvc == nil:
		return errors.New("httpserver: cart service required")
	case d.OrderSvc == nil:
		return errors.New("httpserver: order service required")
	case d.SessionSvc == nil:
		return errors.New("httpserver: session service required")
	case d.Status == nil:
		return errors.New("httpserver: status source required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, checks map[string]Pinger, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), corsMiddleware(corsOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(checks))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	api.GET("/shop", h.shop)
	api.GET("/menu", h.menu)
	api.GET("/menu/:id", h.product)
	api.POST("/sessions", h.createSession)

	sess := api.Group("", sessionMiddleware(deps.SessionSvc))
	sess.GET("/cart", h.getCart)
	sess.POST("/cart/items", h.addItem)
	sess.POST("/cart/bundles", h.addBundle)
	sess.PATCH("/cart/items/:lineId", h.updateItem)
	sess.DELETE("/cart/items/:lineId", h.removeItem)
	sess.POST("/checkout/validate", h.validateCheckout)
	sess.POST("/checkout", h.checkout)
	sess.GET("/orders", h.listOrders)
	sess.POST("/orders/:id/cancel", h.cancelOrder)

	return router, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cors.New(cfg)
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}
