package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ooad/textile-shop/internal/handlers"
	"github.com/ooad/textile-shop/internal/handlers/cart"
	"github.com/ooad/textile-shop/internal/metrics"
	"github.com/ooad/textile-shop/internal/service/token"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Products  *handlers.ProductHandler
	Suppliers *handlers.SupplierHandler
	Cart      *cart.CartHandler
	Checkout  *handlers.CheckoutHandler
	Orders    *handlers.OrderHandler
	Complaint *handlers.ComplaintHandler
	Report    *handlers.ReportHandler
	Search    *handlers.SearchHandler
	Wardrobe  *handlers.WardrobeHandler
	Tokens    *token.TokenService
	ImagesDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/metrics", metrics.Handler())

	if d.ImagesDir != "" {
		e.Static("/images", d.ImagesDir)
	}

	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.LogOut)
	auth.POST("/forgot-password", d.Auth.ForgotPassword)
	auth.POST("/forgot-password/verify", d.Auth.ForgotPasswordVerify)
	auth.POST("/reset-password", d.Auth.ResetPassword)

	profile := e.Group("/profile", d.Tokens.AutoRefreshMiddleware)
	profile.GET("", d.Auth.Profile)
	profile.PATCH("", d.Auth.UpdateProfile)
	profile.POST("/complete", d.Auth.CompleteProfile)
	profile.POST("/change-password", d.Auth.ChangePassword)

	products := e.Group("/products")
	products.GET("", d.Products.GetProducts)
	products.GET("/search", d.Search.Search)
	products.GET("/:id", d.Products.GetProduct)

	productsAdmin := products.Group("", d.Tokens.AutoRefreshMiddlewareAdmin)
	productsAdmin.POST("", d.Products.CreateProduct)
	productsAdmin.PATCH("/:id", d.Products.PatchProduct)
	productsAdmin.DELETE("/:id", d.Products.DeleteProduct)

	suppliers := e.Group("/suppliers", d.Tokens.AutoRefreshMiddlewareAdmin)
	suppliers.GET("", d.Suppliers.GetSuppliers)
	suppliers.POST("", d.Suppliers.CreateSupplier)
	suppliers.PATCH("/:id", d.Suppliers.PatchSupplier)
	suppliers.DELETE("/:id", d.Suppliers.DeleteSupplier)

	cartGroup := e.Group("/cart", d.Tokens.AutoRefreshMiddleware)
	cartGroup.GET("", d.Cart.GetCart)
	cartGroup.POST("", d.Cart.AddToCart)
	cartGroup.DELETE("/:id", d.Cart.DeleteFromCart)

	orders := e.Group("/orders", d.Tokens.AutoRefreshMiddleware)
	orders.POST("/checkout", d.Checkout.Checkout)
	orders.GET("/my", d.Orders.GetMyOrders)

	ordersAdmin := e.Group("/admin/orders", d.Tokens.AutoRefreshMiddlewareAdmin)
	ordersAdmin.GET("", d.Orders.GetOrders)
	ordersAdmin.POST("/:id/confirm", d.Orders.ConfirmOrder)

	complaints := e.Group("/complaints", d.Tokens.AutoRefreshMiddleware)
	complaints.POST("", d.Complaint.CreateComplaint)
	complaints.GET("/my", d.Complaint.GetMyComplaints)
	complaints.DELETE("/:id", d.Complaint.DeleteComplaint)

	complaintsAdmin := e.Group("/admin/complaints", d.Tokens.AutoRefreshMiddlewareAdmin)
	complaintsAdmin.GET("", d.Complaint.GetComplaints)

	reports := e.Group("/admin/reports", d.Tokens.AutoRefreshMiddlewareAdmin)
	reports.GET("/dashboard", d.Report.Dashboard)

	wardrobe := e.Group("/wardrobe", d.Tokens.AutoRefreshMiddleware)
	wardrobe.POST("/clothes", d.Wardrobe.UploadCloth)
	wardrobe.GET("/outfits", d.Wardrobe.GetOutfits)
	wardrobe.POST("/favorites", d.Wardrobe.SetFavorite)
	wardrobe.POST("/outfits/like", d.Wardrobe.VoteOutfit(true))
	wardrobe.POST("/outfits/dislike", d.Wardrobe.VoteOutfit(false))
	wardrobe.POST("/share", d.Wardrobe.ShareWardrobe)
	wardrobe.POST("/unshare", d.Wardrobe.UnshareWardrobe)
	wardrobe.GET("/shared/with-me", d.Wardrobe.SharedWithMe)
	wardrobe.GET("/shared/by-me", d.Wardrobe.SharedByMe)
	wardrobe.GET("/shared/items", d.Wardrobe.SharedWardrobeItems)
}
