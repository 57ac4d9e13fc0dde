package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	t.Run("defaults to v1", func(t *testing.T) {
		r := NewRouter(gin.New())
		assert.Equal(t, "/api/v1", r.BasePath())
		assert.Empty(t, r.registrars)
	})

	t.Run("with api version", func(t *testing.T) {
		r := NewRouter(gin.New(), WithAPIVersion("v2"))
		assert.Equal(t, "/api/v2", r.BasePath())
	})
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "1")
		c.Next()
	})
	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(group)
	r.Setup()

	t.Run("routes are mounted under the base path", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pong", w.Body.String())
		assert.Equal(t, "1", w.Header().Get("X-Api"))
	})

	t.Run("router middleware does not reach engine routes", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-Api"))
	})
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("catalog", "/collections")
		assert.Equal(t, "catalog", g.Name())
		assert.Equal(t, "/collections", g.Prefix())
	})

	t.Run("every method is routed", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/items")
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g.GET("", ok).POST("", ok).PUT("/:id", ok).PATCH("/:id", ok).DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct {
			method string
			path   string
		}{
			{http.MethodGet, "/api/v1/items"},
			{http.MethodPost, "/api/v1/items"},
			{http.MethodPut, "/api/v1/items/1"},
			{http.MethodPatch, "/api/v1/items/1"},
			{http.MethodDelete, "/api/v1/items/1"},
		}
		for _, tt := range tests {
			t.Run(tt.method, func(t *testing.T) {
				w := httptest.NewRecorder()
				engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
				assert.Equal(t, http.StatusOK, w.Code)
				assert.Equal(t, tt.method, w.Body.String())
			})
		}
	})

	t.Run("group middleware applies to its subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("linkme", "/linkme").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		})
		g.Group("orders", "/orders").GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/linkme/orders", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("routes include subgroups", func(t *testing.T) {
		noop := func(*gin.Context) {}
		g := NewDomainGroup("linkme", "/linkme")
		g.Group("orders", "/orders").GET("", noop).POST("/:id/ship", noop)

		assert.Equal(t, []RouteInfo{
			{Method: http.MethodGet, Path: "/linkme/orders"},
			{Method: http.MethodPost, Path: "/linkme/orders/:id/ship"},
		}, g.Routes())
	})
}

func TestDomainGroups(t *testing.T) {
	groups := DomainGroups(Handlers{})

	declared := make(map[RouteInfo]bool)
	for _, g := range groups {
		for _, route := range g.Routes() {
			assert.False(t, declared[route], "duplicate route %s %s", route.Method, route.Path)
			declared[route] = true
		}
	}

	expected := []RouteInfo{
		{http.MethodGet, "/system/info"},
		{http.MethodPost, "/enseignes"},
		{http.MethodPut, "/enseignes/:id/parent"},
		{http.MethodPut, "/enseignes/:id/members"},
		{http.MethodGet, "/enseignes/:id/stats"},
		{http.MethodPost, "/organisations/:id/archive"},
		{http.MethodPost, "/organisations/:id/unarchive"},
		{http.MethodPut, "/organisations/:id/commercial-terms"},
		{http.MethodGet, "/linkme/affiliates"},
		{http.MethodGet, "/linkme/selections"},
		{http.MethodPost, "/linkme/orders/:id/validate"},
		{http.MethodPut, "/linkme/orders/:id/payment-status"},
		{http.MethodGet, "/linkme/orders/:id/commission"},
		{http.MethodPost, "/invoices/:id/finalize"},
		{http.MethodGet, "/invoices/:id/vat-breakdown"},
		{http.MethodPost, "/invoices/:id/quote"},
		{http.MethodPost, "/invoices/:id/credit-notes"},
		{http.MethodPost, "/credit-notes/:id/finalize"},
		{http.MethodGet, "/credit-notes/:id/pdf"},
		{http.MethodPut, "/collections/:id/products/reorder"},
		{http.MethodPost, "/collections/:id/share"},
		{http.MethodGet, "/contracts/availability"},
		{http.MethodGet, "/contracts/statistics"},
		{http.MethodPost, "/contracts/:id/document"},
		{http.MethodGet, "/insights/predictions"},
		{http.MethodPost, "/insights/run"},
	}
	for _, route := range expected {
		assert.True(t, declared[route], "missing route %s %s", route.Method, route.Path)
	}

	t.Run("routes register on gin without conflicts", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)
		for _, g := range groups {
			r.Register(g)
		}
		require.NotPanics(t, r.Setup)

		registered := make(map[RouteInfo]bool)
		for _, info := range engine.Routes() {
			registered[RouteInfo{Method: info.Method, Path: info.Path}] = true
		}
		for route := range declared {
			assert.True(t, registered[RouteInfo{Method: route.Method, Path: "/api/v1" + route.Path}],
				"not registered %s %s", route.Method, route.Path)
		}
	})
}
