package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"delicias-urbanas/internal/domain"
	"delicias-urbanas/internal/service/bundle"
	cartsvc "delicias-urbanas/internal/service/cart"
)

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

// respondError maps service errors onto status codes. Unexpected errors
// are logged and hidden behind a generic message.
func (h *handlers) respondError(c *gin.Context, err error) {
	var v domain.ValidationError
	switch {
	case errors.As(err, &v):
		c.JSON(http.StatusUnprocessableEntity, errorBody(v.Message))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, cartsvc.ErrNeedsCustomization),
		errors.Is(err, cartsvc.ErrNotCustomizable),
		errors.Is(err, cartsvc.ErrFlavorsRequired),
		errors.Is(err, bundle.ErrUnknownOption),
		errors.Is(err, bundle.ErrUnreachable):
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	default:
		h.logger.Printf("http: %s %s failed err=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, errorBody("internal error"))
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorBody("invalid request: "+err.Error()))
}
