package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"delicias-urbanas/internal/domain"
	productsvc "delicias-urbanas/internal/service/product"
)

func (h *handlers) menu(c *gin.Context) {
	f := productsvc.Filter{Query: c.Query("q")}
	if raw := c.Query("category"); raw != "" {
		cat, ok := domain.ParseCategory(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, errorBody("unknown category"))
			return
		}
		f.Category = cat
	}
	sections, err := h.deps.ProductSvc.Grouped(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

func (h *handlers) product(c *gin.Context) {
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) createSession(c *gin.Context) {
	sess, err := h.deps.SessionSvc.Issue(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token":     sess.Token,
		"tokenType": "Bearer",
		"expiresIn": h.deps.SessionSvc.TTLSeconds(),
		"expiresAt": sess.ExpiresAt,
		"sessionId": sess.SessionID,
	})
}
