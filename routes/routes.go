package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guptarajStha/restaurant-web/config"
	"github.com/guptarajStha/restaurant-web/handlers"
	"github.com/guptarajStha/restaurant-web/middleware"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, auth config.AuthConfig) {
	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Restaurant Back-Office API",
		})
	})

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", middleware.PINRequired(auth.RegisterPIN), h.Register)
		public.POST("/auth/login", middleware.PINRequired(auth.LoginPIN), h.Login)

		public.GET("/order-statuses", h.GetStatuses)
	}

	// ── Staff routes ───────────────────────────────────────────────
	api := r.Group("/api")
	api.Use(middleware.AuthRequired(auth.JWTSecret))
	{
		api.GET("/profile", h.GetProfile)

		// Tables
		api.GET("/tables", h.ListTables)
		api.GET("/tables/:id", h.GetTable)
		api.POST("/tables", h.CreateTable)
		api.PUT("/tables/:id", h.UpdateTable)
		api.DELETE("/tables/:id", h.DeleteTable)

		// Item types
		api.GET("/item-types", h.ListItemTypes)
		api.GET("/item-types/:id", h.GetItemType)
		api.POST("/item-types", h.CreateItemType)
		api.PUT("/item-types/:id", h.UpdateItemType)
		api.DELETE("/item-types/:id", h.DeleteItemType)

		// Menu items
		api.GET("/items", h.ListItems)
		api.GET("/items/:id", h.GetItem)
		api.POST("/items", h.CreateItem)
		api.PUT("/items/:id", h.UpdateItem)
		api.DELETE("/items/:id", h.DeleteItem)

		// Orders
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/available", h.AvailableOrders)
		api.GET("/orders/stream", h.StreamOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.POST("/orders", middleware.PINRequired(auth.OrderPIN), h.PlaceOrder)
		api.PUT("/orders/:id/status", h.UpdateOrderStatus)
		api.DELETE("/orders/:id", h.DeleteOrder)

		// Bills
		api.GET("/bills", h.ListBills)
		api.GET("/bills/:id", h.GetBill)
		api.POST("/bills", h.CreateBill)
		api.POST("/bills/merge", h.MergeBills)
		api.PUT("/bills/:id/discount", h.ApplyDiscount)
		api.PUT("/bills/:id/payment", h.UpdatePayment)
		api.DELETE("/bills/:id", h.DeleteBill)

		// Expenses
		api.GET("/expenses", h.ListExpenses)
		api.GET("/expenses/categories", h.ExpenseCategories)
		api.GET("/expenses/:id", h.GetExpense)
		api.POST("/expenses", h.CreateExpense)
		api.PUT("/expenses/:id", h.UpdateExpense)
		api.DELETE("/expenses/:id", h.DeleteExpense)

		// Dashboard
		api.GET("/dashboard/stats", h.DashboardStats)
		api.GET("/dashboard/summary", h.FinancialSummary)
		api.GET("/dashboard/monthly", h.MonthlyFinancials)
	}
}
