package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/encargos/storefront/internal/domain/geo"
)

// GeoHandler exposes the Cuban province table and the area classifier
type GeoHandler struct {
	BaseHandler
}

// NewGeoHandler creates a new GeoHandler
func NewGeoHandler(base BaseHandler) *GeoHandler {
	return &GeoHandler{BaseHandler: base}
}

// ClassifyResponse is the area tier of a delivery location
type ClassifyResponse struct {
	Province     string       `json:"province"`
	Municipality string       `json:"municipality"`
	AreaType     geo.AreaType `json:"area_type"`
}

// Provinces lists province names
// GET /geo/provinces
func (h *GeoHandler) Provinces(c *gin.Context) {
	c.JSON(http.StatusOK, geo.Provinces())
}

// Municipalities lists the municipalities of a province
// GET /geo/provinces/:province/municipalities
func (h *GeoHandler) Municipalities(c *gin.Context) {
	munis, ok := geo.Municipalities(c.Param("province"))
	if !ok {
		h.NotFound(c, "Provincia desconocida")
		return
	}
	c.JSON(http.StatusOK, munis)
}

// Classify returns city or municipio for ?province=&municipality=.
// Unknown places are not an error; they classify as municipio.
// GET /geo/classify
func (h *GeoHandler) Classify(c *gin.Context) {
	province := c.Query("province")
	municipality := c.Query("municipality")
	c.JSON(http.StatusOK, ClassifyResponse{
		Province:     province,
		Municipality: municipality,
		AreaType:     geo.Classify(province, municipality),
	})
}
