package orders

import (
	"errors"
	"time"

	"dinehub-api/apperr"
	"dinehub-api/models"
	"dinehub-api/statemachine"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Checkout places the cart: availability of every line is re-verified
// inside the same transaction that flips the status, so a staff-side
// availability toggle mid-checkout can never produce a placed order
// with unavailable items. On success the line items are frozen as a
// (name, price, quantity) snapshot and the total is stored; later menu
// edits never change a placed order.
func Checkout(db *gorm.DB, customerID, orderID uint, notes string) (*models.Order, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if order.CustomerID != customerID {
			return apperr.ErrForbidden
		}
		if err := statemachine.CanTransition(order.Status, models.StatusPlaced, statemachine.ActorCustomer); err != nil {
			return err
		}

		var lines []models.OrderItem
		if err := tx.Preload("MenuItem").Where("order_id = ?", order.ID).Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.ErrEmptyOrder
		}

		// Items can go stale between cart-add and checkout; report every
		// unavailable one so the customer fixes the cart in one pass.
		var unavailable []string
		for _, line := range lines {
			if !line.MenuItem.IsAvailable {
				unavailable = append(unavailable, line.MenuItem.Name)
			}
		}
		if len(unavailable) > 0 {
			return &apperr.UnavailableItemsError{Names: unavailable}
		}

		total := decimal.Zero
		for _, line := range lines {
			total = total.Add(line.MenuItem.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			snap := map[string]any{
				"name":  line.MenuItem.Name,
				"price": line.MenuItem.Price,
			}
			if err := tx.Model(&models.OrderItem{}).Where("id = ?", line.ID).Updates(snap).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		update := map[string]any{
			"status":      models.StatusPlaced,
			"time_placed": &now,
			"total":       total,
		}
		if notes != "" {
			update["notes"] = notes
		}
		return tx.Model(&order).Updates(update).Error
	})
	if err != nil {
		return nil, err
	}

	order, err := Load(db, customerID, orderID)
	if err != nil {
		return nil, err
	}
	notify(order)
	return order, nil
}
