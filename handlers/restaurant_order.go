package handlers

import (
	"net/http"
	"strconv"

	"dinehub-api/config"
	"dinehub-api/middleware"
	"dinehub-api/models"
	"dinehub-api/orders"

	"github.com/gin-gonic/gin"
)

// GetRestaurantOrders returns the staff view of the restaurant's
// orders. Default is the active queue (placed through ready);
// ?view=all includes terminal states, ?status=X filters to one.
func GetRestaurantOrders(c *gin.Context) {
	p := middleware.GetPrincipal(c)

	query := config.DB.Preload("Items.MenuItem").Preload("Customer").
		Where("restaurant_id = ?", p.RestaurantID).
		Where("status <> ?", models.StatusInCart)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	} else if c.Query("view") != "all" {
		query = query.Where("status IN ?", models.ActiveStatuses)
	}

	var result []models.Order
	query.Order("time_placed desc").Find(&result)

	summary := map[string]int{}
	for _, o := range result {
		summary[string(o.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(result),
		"orders":        result,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order through the staff side of the state
// machine and notifies the owning customer.
func UpdateOrderStatus(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := orders.UpdateStatus(config.DB, p.RestaurantID, uint(orderID), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Order status updated",
		"order_id":       order.ID,
		"current_status": order.Status,
	})
}

// SetItemAvailability flips a menu item's availability. Regular staff
// may do this; it is the one menu mutation that isn't manager-only.
func SetItemAvailability(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	itemID := c.Param("itemId")

	var item models.MenuItem
	if err := config.DB.Preload("FoodType").First(&item, itemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	if item.FoodType.RestaurantID != p.RestaurantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This menu item belongs to another restaurant"})
		return
	}

	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(&item).Update("is_available", *req.IsAvailable)
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated", "item": item})
}
