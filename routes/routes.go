package routes

import (
	"dinehub-api/handlers"
	"dinehub-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Restaurants, menus and reviews (no auth needed)
		public.GET("/restaurants", handlers.ListRestaurants)
		public.GET("/restaurants/:id", handlers.GetRestaurant)
		public.GET("/restaurants/:id/menu", handlers.GetMenu)
		public.GET("/restaurants/:id/reviews", handlers.GetReviews)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.GET("/events", handlers.StreamEvents)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired())
	{
		// Cart
		customer.GET("/carts", handlers.GetCarts)
		customer.POST("/cart/items", handlers.AddItem)
		customer.PUT("/cart/items", handlers.UpdateQuantity)
		customer.DELETE("/cart/items/:itemId", handlers.RemoveItem)
		customer.DELETE("/carts/:restaurantId", handlers.ClearCart)

		// Orders
		customer.POST("/orders/:id/checkout", handlers.Checkout)
		customer.GET("/orders", handlers.GetMyOrders)
		customer.GET("/orders/:id", handlers.GetOrderDetail)

		// Reviews
		customer.POST("/restaurants/:id/reviews", handlers.CreateReview)
		customer.PUT("/reviews/:id", handlers.UpdateReview)
		customer.DELETE("/reviews/:id", handlers.DeleteReview)

		// Favorites
		customer.GET("/favorites", handlers.GetFavorites)
		customer.POST("/favorites/:id/toggle", handlers.ToggleFavorite)
		customer.PUT("/favorites/order", handlers.ReorderFavorites)
	}

	// ── Staff routes (any employee of the restaurant) ──────────────
	staff := r.Group("/api/staff")
	staff.Use(middleware.AuthRequired(), middleware.StaffRequired())
	{
		staff.GET("/orders", handlers.GetRestaurantOrders)
		staff.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
		staff.PUT("/menu/:itemId/availability", handlers.SetItemAvailability)
	}

	// ── Manager routes (is_admin employees) ────────────────────────
	manager := r.Group("/api/manager")
	manager.Use(middleware.AuthRequired(), middleware.ManagerRequired())
	{
		// Establishment
		manager.GET("/restaurant", handlers.GetMyRestaurant)
		manager.PUT("/restaurant", handlers.UpdateRestaurant)

		// Menu structure
		manager.POST("/food-types", handlers.CreateFoodType)
		manager.DELETE("/food-types/:typeId", handlers.DeleteFoodType)
		manager.POST("/menu", handlers.AddMenuItem)
		manager.PUT("/menu/:itemId", handlers.UpdateMenuItem)
		manager.DELETE("/menu/:itemId", handlers.DeleteMenuItem)
		manager.GET("/allergens", handlers.ListAllergens)
		manager.POST("/allergens", handlers.CreateAllergen)

		// Workers
		manager.GET("/employees", handlers.ListEmployees)
		manager.POST("/employees", handlers.AddEmployee)
		manager.DELETE("/employees/:empId", handlers.RemoveEmployee)
	}
}
