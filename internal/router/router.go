// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/gostorefront/storefront-backend/internal/config"
	"github.com/gostorefront/storefront-backend/internal/handlers"
	"github.com/gostorefront/storefront-backend/internal/middleware"
	"github.com/gostorefront/storefront-backend/internal/services"
)

// Setup wires middleware, services and routes into a ready gin engine.
func Setup(cfg *config.Config, db *gorm.DB, cartService *services.CartService) (*gin.Engine, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.Metrics())
	r.Use(middleware.GeneralRateLimit())

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	authService := services.NewAuthService(db, cfg.JWT.AccessTokenTTL)
	catalogService := services.NewCatalogService(db, storageService)
	orderService := services.NewOrderService(db, cartService)
	adminService := services.NewAdminService(db)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(catalogService, storageService)
	categoryHandler := handlers.NewCategoryHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(adminService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded images are served from disk when S3 is not configured.
	if cfg.Upload.LocalDir != "" {
		r.Static("/uploads", cfg.Upload.LocalDir)
	}

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Catalog routes are public; OptionalAuth puts the identity in the
		// request log when a logged-in user browses.
		products := v1.Group("/products")
		products.Use(middleware.OptionalAuth())
		{
			products.GET("", productHandler.List)
			products.GET("/featured", productHandler.Featured)
			products.GET("/slug/:slug", productHandler.GetBySlug)
			products.GET("/:id", productHandler.Get)
		}

		v1.GET("/categories", categoryHandler.List)

		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.Get)
			cart.DELETE("", cartHandler.Clear)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
			cart.POST("/sync", cartHandler.Sync)
		}

		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", middleware.CheckoutRateLimit(), orderHandler.Create)
			orders.GET("/myorders", orderHandler.MyOrders)
			orders.GET("/:id", orderHandler.Get)
			orders.PUT("/:id/cancel", orderHandler.Cancel)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/stats", adminHandler.Dashboard)

			admin.GET("/orders", orderHandler.List)
			admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)

			admin.POST("/products", middleware.UploadRateLimit(), productHandler.Create)
			admin.PUT("/products/:id", middleware.UploadRateLimit(), productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)
			admin.PUT("/products/:id/featured", productHandler.SetFeatured)

			admin.POST("/categories", categoryHandler.Create)
			admin.PUT("/categories/:id", categoryHandler.Update)
			admin.DELETE("/categories/:id", categoryHandler.Delete)

			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}

	return r, nil
}
