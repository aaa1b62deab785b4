package handlers

import (
	"net/http"
	"strconv"

	"dinehub-api/config"
	"dinehub-api/middleware"
	"dinehub-api/models"
	"dinehub-api/orders"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity"`
}

type CheckoutRequest struct {
	Notes string `json:"notes"`
}

// cartView renders an IN_CART order with a live total computed from
// current menu prices; snapshot prices only exist once placed.
func cartView(order *models.Order) gin.H {
	total := decimal.Zero
	for _, line := range order.Items {
		total = total.Add(line.MenuItem.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return gin.H{
		"order": order,
		"total": total,
	}
}

// AddItem puts a menu item into the caller's cart for that item's
// restaurant; the cart is created by the first add.
func AddItem(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := orders.AddItem(config.DB, customerID, req.MenuItemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(order))
}

// UpdateQuantity sets a cart line's quantity; zero removes the line.
func UpdateQuantity(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := orders.UpdateQuantity(config.DB, customerID, req.MenuItemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(order))
}

// RemoveItem detaches a menu item from the caller's cart.
func RemoveItem(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	menuItemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item id"})
		return
	}
	order, err := orders.RemoveItem(config.DB, customerID, uint(menuItemID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartView(order))
}

// GetCarts lists the caller's open carts — one per restaurant at most,
// several across restaurants.
func GetCarts(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var carts []models.Order
	config.DB.Preload("Items.MenuItem").Preload("Restaurant").
		Where("customer_id = ? AND status = ?", customerID, models.StatusInCart).
		Find(&carts)
	views := make([]gin.H, 0, len(carts))
	for i := range carts {
		views = append(views, cartView(&carts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(carts), "carts": views})
}

// ClearCart deletes the caller's open cart for a restaurant.
func ClearCart(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	restaurantID, err := strconv.ParseUint(c.Param("restaurantId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant id"})
		return
	}
	if err := orders.ClearCart(config.DB, customerID, uint(restaurantID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// Checkout places the cart after re-verifying availability.
func Checkout(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	var req CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	order, err := orders.Checkout(config.DB, customerID, uint(orderID), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "order": order})
}

// GetMyOrders returns the caller's placed orders. Default view is the
// active ones; ?view=all includes carts and terminal states.
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	query := config.DB.Preload("Items.MenuItem").Preload("Restaurant").
		Where("customer_id = ?", customerID)
	if c.Query("view") != "all" {
		query = query.Where("status IN ?", models.ActiveStatuses)
	}
	var result []models.Order
	query.Order("created_at desc").Find(&result)
	c.JSON(http.StatusOK, gin.H{"count": len(result), "orders": result})
}

// GetOrderDetail returns a single order's full detail.
func GetOrderDetail(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	order, err := orders.Load(config.DB, customerID, uint(orderID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
