package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse_OnlyWrapsAPIRoutes(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("api"))
	})

	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Set("api", "yes")
		c.Next()
	})
	r.Register(NewDomainGroup("test", "/test").GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("api"))
	}))
	r.Setup()

	assert.Equal(t, "yes", serve(engine, http.MethodGet, "/api/v1/test/x").Body.String())
	assert.Equal(t, "", serve(engine, http.MethodGet, "/health").Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("geo", "/geo")
		assert.Equal(t, "geo", g.Name())
		assert.Equal(t, "/geo", g.Prefix())
	})

	t.Run("registers GET and POST routes", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").
			GET("/items", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
			POST("/items", func(c *gin.Context) { c.String(http.StatusCreated, "created") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "list", serve(engine, http.MethodGet, "/api/v1/test/items").Body.String())
		assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/test/items").Code)
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) {
			c.Header("X-Group", "test")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "test", serve(engine, http.MethodGet, "/api/v1/test/items").Header().Get("X-Group"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("geo", "/geo")
		g.Group("provinces", "/provinces").GET("/:province", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("province"))
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "Granma", serve(engine, http.MethodGet, "/api/v1/geo/provinces/Granma").Body.String())
	})
}
