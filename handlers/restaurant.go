package handlers

import (
	"net/http"

	"dinehub-api/config"
	"dinehub-api/middleware"
	"dinehub-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Manager-only establishment, menu and worker management. All lookups
// are scoped to the manager's own restaurant via the resolved principal.

// GetMyRestaurant fetches the restaurant the caller works for.
func GetMyRestaurant(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	var restaurant models.Restaurant
	err := config.DB.Preload("FoodTypes.MenuItems.Allergens").Preload("Images").
		First(&restaurant, p.RestaurantID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// UpdateRestaurant updates establishment details. Rating is derived and
// deliberately not settable here.
func UpdateRestaurant(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, p.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{
		"name": true, "address": true, "description": true,
		"opening_hours": true, "is_open": true, "latitude": true, "longitude": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&restaurant).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

// ── Food types ──────────────────────────────────────────────────────

type FoodTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

func CreateFoodType(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	var req FoodTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ft := models.FoodType{RestaurantID: p.RestaurantID, Name: req.Name}
	if err := config.DB.Create(&ft).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "food_type": ft})
}

func DeleteFoodType(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	var ft models.FoodType
	if err := config.DB.Where("restaurant_id = ?", p.RestaurantID).First(&ft, c.Param("typeId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	var items int64
	config.DB.Model(&models.MenuItem{}).Where("food_type_id = ?", ft.ID).Count(&items)
	if items > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category still has menu items"})
		return
	}
	config.DB.Delete(&ft)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// ── Menu items ──────────────────────────────────────────────────────

type MenuItemRequest struct {
	FoodTypeID  uint            `json:"food_type_id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	AllergenIDs []uint          `json:"allergen_ids"`
	ImageURL    string          `json:"image_url"`
}

// AddMenuItem adds a new item under one of the restaurant's categories.
func AddMenuItem(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
		return
	}
	var ft models.FoodType
	if err := config.DB.Where("restaurant_id = ?", p.RestaurantID).First(&ft, req.FoodTypeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found for your restaurant"})
		return
	}

	item := models.MenuItem{
		FoodTypeID:  ft.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: true,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add menu item"})
		return
	}
	if len(req.AllergenIDs) > 0 {
		var allergens []models.Allergen
		config.DB.Find(&allergens, req.AllergenIDs)
		config.DB.Model(&item).Association("Allergens").Replace(allergens)
	}
	if req.ImageURL != "" {
		config.DB.Create(&models.Image{URL: req.ImageURL, MenuItemID: &item.ID})
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// loadOwnedItem fetches a menu item and confirms it belongs to the
// caller's restaurant (reached through its food type).
func loadOwnedItem(c *gin.Context, p middleware.Principal) (*models.MenuItem, bool) {
	var item models.MenuItem
	if err := config.DB.Preload("FoodType").First(&item, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return nil, false
	}
	if item.FoodType.RestaurantID != p.RestaurantID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This menu item belongs to another restaurant"})
		return nil, false
	}
	return &item, true
}

// UpdateMenuItem updates item fields; historical order lines keep their
// checkout-time snapshot regardless.
func UpdateMenuItem(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	item, ok := loadOwnedItem(c, p)
	if !ok {
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{"name": true, "description": true, "price": true, "is_available": true, "food_type_id": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(item).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes an item from the menu. Lines in placed orders
// are snapshots and survive the deletion.
func DeleteMenuItem(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	item, ok := loadOwnedItem(c, p)
	if !ok {
		return
	}
	var inCarts int64
	config.DB.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.menu_item_id = ? AND orders.status = ?", item.ID, models.StatusInCart).
		Count(&inCarts)
	if inCarts > 0 {
		// Evict it from open carts first; placed orders keep their lines.
		config.DB.Exec("DELETE FROM order_items WHERE menu_item_id = ? AND order_id IN (SELECT id FROM orders WHERE status = ?)",
			item.ID, models.StatusInCart)
	}
	config.DB.Model(item).Association("Allergens").Clear()
	config.DB.Delete(item)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// ── Allergens ───────────────────────────────────────────────────────

func ListAllergens(c *gin.Context) {
	var allergens []models.Allergen
	config.DB.Order("name asc").Find(&allergens)
	c.JSON(http.StatusOK, gin.H{"allergens": allergens})
}

func CreateAllergen(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allergen := models.Allergen{Name: req.Name}
	if err := config.DB.Where(&allergen).FirstOrCreate(&allergen).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create allergen"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"allergen": allergen})
}

// ── Workers ─────────────────────────────────────────────────────────

type AddEmployeeRequest struct {
	Email   string `json:"email" binding:"required,email"`
	IsAdmin bool   `json:"is_admin"`
}

// ListEmployees returns the restaurant's worker list.
func ListEmployees(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	var employees []models.Employee
	config.DB.Preload("User").Where("restaurant_id = ?", p.RestaurantID).Find(&employees)
	c.JSON(http.StatusOK, gin.H{"count": len(employees), "employees": employees})
}

// AddEmployee makes an existing user staff of the manager's restaurant.
// A user can work for one restaurant only.
func AddEmployee(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	var req AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No user with that email"})
		return
	}
	var existing models.Employee
	if err := config.DB.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already works for a restaurant"})
		return
	}
	emp := models.Employee{UserID: user.ID, RestaurantID: p.RestaurantID, IsAdmin: req.IsAdmin}
	if err := config.DB.Create(&emp).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add employee"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Employee added", "employee": emp})
}

// RemoveEmployee takes a worker off the restaurant. Managers cannot
// remove themselves, so a restaurant never loses its last admin.
func RemoveEmployee(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	var emp models.Employee
	if err := config.DB.Where("restaurant_id = ?", p.RestaurantID).First(&emp, c.Param("empId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}
	if emp.UserID == p.UserID {
		c.JSON(http.StatusConflict, gin.H{"error": "You cannot remove yourself"})
		return
	}
	config.DB.Delete(&emp)
	c.JSON(http.StatusOK, gin.H{"message": "Employee removed"})
}
