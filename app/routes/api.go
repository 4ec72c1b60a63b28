package routes

import (
	"github.com/shashiranjanraj/brewandco/app/controllers"
	"github.com/shashiranjanraj/brewandco/app/services"
	"github.com/shashiranjanraj/brewandco/pkg/ctx"
	"github.com/shashiranjanraj/brewandco/pkg/middleware"
	"github.com/shashiranjanraj/brewandco/pkg/rbac"
	"github.com/shashiranjanraj/brewandco/pkg/router"
	"github.com/shashiranjanraj/brewandco/pkg/ws"
	"gorm.io/gorm"
)

// RegisterAPI mounts every /api route. hub may be nil, in which case the
// live order feed is not mounted.
func RegisterAPI(r *router.Router, db *gorm.DB, hub *ws.Hub) {
	authController := controllers.NewAuthController(services.NewAuthService(db))
	catalogController := controllers.NewCatalogController(services.NewCatalogService(db))
	orderController := controllers.NewOrderController(services.NewOrderService(db))
	adminController := controllers.NewAdminController(services.NewAdminService(db))
	healthController := controllers.NewHealthController(db)

	api := r.Group("/api")
	api.Get("/health", "health", ctx.Wrap(healthController.Show))

	auth := api.Group("/auth")
	auth.Post("/register", "auth.register", ctx.Wrap(authController.Register))
	auth.Post("/login", "auth.login", ctx.Wrap(authController.Login))

	customer := api.Group("", middleware.AuthMiddleware, middleware.CustomerOnly)
	customer.Get("/auth/me", "auth.me", ctx.Wrap(authController.Me))
	customer.Put("/auth/profile", "auth.profile", ctx.Wrap(authController.UpdateProfile))
	customer.Post("/orders", "orders.store", ctx.Wrap(orderController.Store))
	customer.Get("/orders/{id}", "orders.show", ctx.Wrap(orderController.Show))
	customer.Get("/user/orders", "orders.index", ctx.Wrap(orderController.Index))

	products := api.Group("/products")
	products.Get("/", "products.index", ctx.Wrap(catalogController.Index))
	products.Get("/popular", "products.popular", ctx.Wrap(catalogController.Popular))
	products.Get("/category/{category}", "products.category", ctx.Wrap(catalogController.Category))
	products.Get("/{id}", "products.show", ctx.Wrap(catalogController.Show))

	api.Post("/admin/login", "admin.login", ctx.Wrap(authController.AdminLogin))

	admin := api.Group("/admin", middleware.AuthMiddleware, rbac.Admin)
	admin.Get("/verify", "admin.verify", ctx.Wrap(authController.AdminVerify))
	admin.Get("/stats", "admin.stats", ctx.Wrap(adminController.Stats))

	admin.Get("/products", "admin.products.index", ctx.Wrap(adminController.Products))
	admin.Post("/products", "admin.products.store", ctx.Wrap(adminController.StoreProduct))
	admin.Put("/products/{id}", "admin.products.update", ctx.Wrap(adminController.UpdateProduct))
	admin.Delete("/products/{id}", "admin.products.destroy", ctx.Wrap(adminController.DestroyProduct))
	admin.Post("/products/{id}/image", "admin.products.image", ctx.Wrap(adminController.UploadProductImage))

	admin.Get("/orders", "admin.orders.index", ctx.Wrap(adminController.Orders))
	admin.Get("/orders/{id}/details", "admin.orders.details", ctx.Wrap(adminController.OrderDetails))
	admin.Put("/orders/{id}/status", "admin.orders.status", ctx.Wrap(adminController.UpdateOrderStatus))

	admin.Get("/users", "admin.users.index", ctx.Wrap(adminController.Users))

	if hub != nil {
		live := api.Group("/admin/orders/live", middleware.QueryTokenAuth, rbac.Admin)
		live.Get("/", "admin.orders.live", hub.ServeHTTP)
	}
}
