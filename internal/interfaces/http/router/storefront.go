package router

import (
	"github.com/gin-gonic/gin"

	"github.com/encargos/storefront/internal/interfaces/http/handler"
)

// Handlers bundles the gateway handlers mounted under the API prefix
type Handlers struct {
	Encargo  *handler.EncargoHandler
	Checkout *handler.CheckoutHandler
	Geo      *handler.GeoHandler
	System   *handler.SystemHandler
}

// StorefrontRoutes returns the domain groups of the gateway API.
// scrapeLimit guards the routes that make the backend fetch a product page;
// nil leaves them unlimited.
func StorefrontRoutes(h Handlers, scrapeLimit gin.HandlerFunc) []*DomainGroup {
	encargos := NewDomainGroup("encargos", "/encargos")
	resolveHandlers := func(final gin.HandlerFunc) []gin.HandlerFunc {
		if scrapeLimit == nil {
			return []gin.HandlerFunc{final}
		}
		return []gin.HandlerFunc{scrapeLimit, final}
	}
	encargos.POST("/resolve", resolveHandlers(h.Encargo.Resolve)...)
	encargos.POST("/inspect", resolveHandlers(h.Encargo.Inspect)...)
	encargos.POST("/capture", h.Encargo.Capture)
	encargos.GET("/mine", h.Encargo.Mine)
	encargos.POST("/quote", h.Encargo.Quote)

	checkout := NewDomainGroup("checkout", "/checkout")
	checkout.POST("", h.Checkout.Begin)
	checkout.POST("/confirm", h.Checkout.Confirm)

	geo := NewDomainGroup("geo", "/geo")
	geo.GET("/provinces", h.Geo.Provinces)
	geo.GET("/provinces/:province/municipalities", h.Geo.Municipalities)
	geo.GET("/classify", h.Geo.Classify)

	system := NewDomainGroup("system", "/system")
	system.GET("/ping", h.System.Ping)

	return []*DomainGroup{encargos, checkout, geo, system}
}
