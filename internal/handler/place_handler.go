package handler

import (
	"net/http"

	"github.com/gcoopmansS/Moovle-sub000/internal/geocode"

	"github.com/gin-gonic/gin"
)

// PlaceHandler proxies location autocomplete to the geocoder.
type PlaceHandler struct {
	geocoder *geocode.Client
}

func NewPlaceHandler(geocoder *geocode.Client) *PlaceHandler {
	return &PlaceHandler{geocoder: geocoder}
}

// Search godoc
// @Summary      Search for places
// @Description  Forward geocoding for location autocomplete. Results are cached briefly, so repeated keystrokes don't hammer the upstream geocoder.
// @Tags         places
// @Produce      json
// @Security     BearerAuth
// @Param        q query string true "Free-text place query"
// @Success      200  {object}  map[string][]geocode.Place
// @Failure      502  {object}  ErrorResponse
// @Router       /places/search [get]
func (h *PlaceHandler) Search(c *gin.Context) {
	places, err := h.geocoder.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Geocoder unavailable"})
		return
	}
	if places == nil {
		places = []geocode.Place{}
	}
	c.JSON(http.StatusOK, gin.H{"data": places})
}
