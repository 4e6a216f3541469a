// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/handlers"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every API route group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config, log *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(db, cfg, log)
	productHandler := handlers.NewProductHandler(db, log)
	categoryHandler := handlers.NewCategoryHandler(db)
	cartHandler := handlers.NewCartHandler(db, log)
	orderHandler := handlers.NewOrderHandler(db, cfg, log)
	reviewHandler := handlers.NewReviewHandler(db, log)
	vendorHandler := handlers.NewVendorHandler(db, cfg, log)
	adminHandler := handlers.NewAdminHandler(db, cfg, log)

	requireAuth := middleware.AuthMiddleware(cfg)

	// Authentication and account
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.ChangePassword)
		}
	}

	// Public storefront
	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/:id/reviews", reviewHandler.ListProductReviews)
	}

	categories := rg.Group("/categories")
	{
		categories.GET("", categoryHandler.ListCategories)
		categories.GET("/:id", categoryHandler.GetCategory)
	}

	vendors := rg.Group("/vendors")
	{
		vendors.GET("", vendorHandler.ListVendors)
		vendors.GET("/:slug", vendorHandler.GetVendorBySlug)
		vendors.POST("/apply", requireAuth, vendorHandler.Apply)
	}

	// Customer flows
	cart := rg.Group("/cart")
	cart.Use(requireAuth)
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:id", cartHandler.UpdateItem)
		cart.DELETE("/items/:id", cartHandler.RemoveItem)
	}

	orders := rg.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.POST("", orderHandler.CreateOrder)
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/invoice", orderHandler.DownloadInvoice)
	}

	reviews := rg.Group("/reviews")
	reviews.Use(requireAuth)
	{
		reviews.POST("", reviewHandler.SubmitReview)
	}

	// Vendor console
	vendorConsole := rg.Group("/vendor")
	vendorConsole.Use(requireAuth)
	{
		vendorConsole.GET("/store", vendorHandler.GetMyStore)
		vendorConsole.PUT("/store", vendorHandler.UpdateMyStore)
		vendorConsole.GET("/products", productHandler.ListVendorProducts)
		vendorConsole.POST("/products", productHandler.CreateProduct)
		vendorConsole.PUT("/products/:id", productHandler.UpdateProduct)
		vendorConsole.DELETE("/products/:id", productHandler.DeleteProduct)
	}

	// Admin console
	admin := rg.Group("/admin")
	admin.Use(requireAuth, middleware.AdminMiddleware())
	{
		admin.GET("/vendors", adminHandler.ListVendorApplications)
		admin.PUT("/vendors/:id/application", adminHandler.ReviewApplication)
		admin.PUT("/vendors/:id/verified", adminHandler.SetVendorVerified)
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.POST("/counters/reconcile", adminHandler.ReconcileCounters)
	}
}
