package httpserver

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"delicias-urbanas/internal/service/schedule"
)

// ShopInfo is the static part of the shop card.
type ShopInfo struct {
	Name           string `json:"name"`
	Address        string `json:"address"`
	PhoneDisplay   string `json:"phoneDisplay"`
	TransferAlias  string `json:"transferAlias"`
	TransferHolder string `json:"transferHolder"`
	ContactURL     string `json:"contactUrl"`
}

// MapsURL points a maps search at the shop address.
func (s ShopInfo) MapsURL() string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(s.Address+", Argentina")
}

type shopResponse struct {
	ShopInfo
	MapsURL string          `json:"mapsUrl"`
	Hours   string          `json:"hours"`
	Status  schedule.Status `json:"status"`
}

func (h *handlers) shop(c *gin.Context) {
	c.JSON(http.StatusOK, shopResponse{
		ShopInfo: h.deps.Shop,
		MapsURL:  h.deps.Shop.MapsURL(),
		Hours:    schedule.HoursText,
		Status:   h.deps.Status.Current(),
	})
}
