package router

import (
	"github.com/gin-gonic/gin"

	"github.com/storemanager/backend/internal/interfaces/http/handler"
	"github.com/storemanager/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the API handlers wired by the router
type Handlers struct {
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
	Reports  *handler.ReportHandler
	System   *handler.SystemHandler
}

// Guard produces the middleware protecting routes that need a capability
type Guard func(capability middleware.Capability) gin.HandlerFunc

// Router registers the API routes on a gin engine
type Router struct {
	engine     *gin.Engine
	apiVersion string
	handlers   Handlers
	guard      Guard
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithGuard replaces the capability guard. Tests use this to bypass
// authentication.
func WithGuard(guard Guard) RouterOption {
	return func(r *Router) {
		r.guard = guard
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, handlers Handlers, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		handlers:   handlers,
		guard:      middleware.RequireCapability,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Setup registers all routes with the engine. The health endpoint lives
// outside the versioned group so load balancers reach it unauthenticated.
func (r *Router) Setup() {
	if r.handlers.System != nil {
		r.engine.GET("/health", r.handlers.System.Health)
	}

	api := r.engine.Group("/api/" + r.apiVersion)

	if r.handlers.System != nil {
		api.GET("/system/ping", r.handlers.System.Ping)
	}

	if h := r.handlers.Products; h != nil {
		products := api.Group("/products", r.guard(middleware.CapabilityManageProducts))
		products.GET("", h.List)
		products.POST("", h.Create)
		products.POST("/bulk-update", h.BulkUpdate)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
	}

	if h := r.handlers.Orders; h != nil {
		orders := api.Group("/orders", r.guard(middleware.CapabilityManageOrders))
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.PUT("/:id/status", h.UpdateStatus)
		orders.GET("/:id/notes", h.Notes)
		orders.POST("/:id/notes", h.AddNote)
	}

	if h := r.handlers.Reports; h != nil {
		reports := api.Group("/reports")
		reports.GET("/sales", r.guard(middleware.CapabilityManageOrders), h.Sales)
		reports.GET("/bestsellers", r.guard(middleware.CapabilityManageOrders), h.Bestsellers)
		reports.GET("/low-stock", r.guard(middleware.CapabilityManageProducts), h.LowStock)
	}
}
