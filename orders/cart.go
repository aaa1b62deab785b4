// Package orders owns the cart/order aggregate: the shopping cart is an
// order in IN_CART status, materialized by the first add-item call and
// guarded by a partial unique index so a (customer, restaurant) pair can
// never hold two open carts — even under a double-tap race.
package orders

import (
	"errors"

	"dinehub-api/apperr"
	"dinehub-api/models"

	"gorm.io/gorm"
)

// itemWithRestaurant loads a menu item and resolves its restaurant
// through the food type — menu items carry no restaurant key of their own.
func itemWithRestaurant(tx *gorm.DB, menuItemID uint) (*models.MenuItem, uint, error) {
	var item models.MenuItem
	if err := tx.Preload("FoodType").First(&item, menuItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperr.ErrNotFound
		}
		return nil, 0, err
	}
	return &item, item.FoodType.RestaurantID, nil
}

// locateOrCreateCart finds the customer's open cart for a restaurant or
// creates it, inside the caller's transaction. On a lost create race the
// unique index rejects the insert and the existing row is re-read.
func locateOrCreateCart(tx *gorm.DB, customerID, restaurantID uint) (*models.Order, error) {
	probe := models.Order{
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Status:       models.StatusInCart,
	}
	var order models.Order
	err := tx.Where(&probe).FirstOrCreate(&order).Error
	if err != nil {
		// Concurrent first-add for the same restaurant: the index won,
		// the cart exists now.
		if ferr := tx.Where(&probe).First(&order).Error; ferr == nil {
			return &order, nil
		}
		return nil, err
	}
	return &order, nil
}

// AddItem puts quantity units of a menu item into the caller's cart for
// the item's restaurant, creating the cart if this is the first add.
// Adding an item already in the cart merges quantities.
func AddItem(db *gorm.DB, customerID, menuItemID uint, quantity int) (*models.Order, error) {
	if quantity < 1 {
		return nil, apperr.ErrUnavailable
	}
	var cartID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		item, restaurantID, err := itemWithRestaurant(tx, menuItemID)
		if err != nil {
			return err
		}
		if !item.IsAvailable {
			return apperr.ErrUnavailable
		}
		order, err := locateOrCreateCart(tx, customerID, restaurantID)
		if err != nil {
			return err
		}
		cartID = order.ID

		var line models.OrderItem
		err = tx.Where("order_id = ? AND menu_item_id = ?", order.ID, menuItemID).First(&line).Error
		switch {
		case err == nil:
			return tx.Model(&line).Update("quantity", line.Quantity+quantity).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: menuItemID,
				Quantity:   quantity,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return Load(db, customerID, cartID)
}

// UpdateQuantity sets the stored quantity of a cart line. A quantity of
// zero or less removes the line entirely — quantities never go to zero
// while staying attached.
func UpdateQuantity(db *gorm.DB, customerID, menuItemID uint, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return RemoveItem(db, customerID, menuItemID)
	}
	var cartID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		order, line, err := findCartLine(tx, customerID, menuItemID)
		if err != nil {
			return err
		}
		cartID = order.ID
		return tx.Model(line).Update("quantity", quantity).Error
	})
	if err != nil {
		return nil, err
	}
	return Load(db, customerID, cartID)
}

// RemoveItem detaches a menu item from the caller's cart. An emptied
// cart is kept as an empty IN_CART shell for reuse; it disappears only
// through ClearCart.
func RemoveItem(db *gorm.DB, customerID, menuItemID uint) (*models.Order, error) {
	var cartID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		order, line, err := findCartLine(tx, customerID, menuItemID)
		if err != nil {
			return err
		}
		cartID = order.ID
		return tx.Delete(line).Error
	})
	if err != nil {
		return nil, err
	}
	return Load(db, customerID, cartID)
}

// ClearCart deletes the customer's open cart for a restaurant, lines
// included. Only a cart can be deleted; placed orders are permanent.
func ClearCart(db *gorm.DB, customerID, restaurantID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Where("customer_id = ? AND restaurant_id = ? AND status = ?",
			customerID, restaurantID, models.StatusInCart).First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// findCartLine resolves (customer, menu item) to the line in the
// customer's open cart for that item's restaurant.
func findCartLine(tx *gorm.DB, customerID, menuItemID uint) (*models.Order, *models.OrderItem, error) {
	_, restaurantID, err := itemWithRestaurant(tx, menuItemID)
	if err != nil {
		return nil, nil, err
	}
	var order models.Order
	err = tx.Where("customer_id = ? AND restaurant_id = ? AND status = ?",
		customerID, restaurantID, models.StatusInCart).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.ErrNotFound
		}
		return nil, nil, err
	}
	var line models.OrderItem
	err = tx.Where("order_id = ? AND menu_item_id = ?", order.ID, menuItemID).First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.ErrNotFound
		}
		return nil, nil, err
	}
	return &order, &line, nil
}

// Load returns one of the caller's orders with lines and menu items
// preloaded. Foreign orders surface as not-found, never as someone
// else's data.
func Load(db *gorm.DB, customerID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items.MenuItem").Preload("Restaurant").
		Where("customer_id = ?", customerID).First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}
