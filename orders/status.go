package orders

import (
	"errors"
	"fmt"

	"dinehub-api/apperr"
	"dinehub-api/models"
	"dinehub-api/pubsub"
	"dinehub-api/statemachine"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UpdateStatus moves an order through the staff side of the state
// machine. Authorization is restaurant-scoped: any staff member of the
// order's restaurant may move it, regardless of who placed it.
func UpdateStatus(db *gorm.DB, staffRestaurantID, orderID uint, newStatus models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if order.RestaurantID != staffRestaurantID {
			return apperr.ErrForbidden
		}
		if err := statemachine.CanTransition(order.Status, newStatus, statemachine.ActorStaff); err != nil {
			return err
		}
		return tx.Model(&order).Update("status", newStatus).Error
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Items.MenuItem").Preload("Restaurant").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	notify(&order)
	return &order, nil
}

// Snapshot is the fan-out payload. It names the order and its new
// status; watchers re-fetch the full order rather than trusting this
// as the source of truth.
type Snapshot struct {
	Reference    uuid.UUID           `json:"reference"`
	OrderID      uint                `json:"order_id"`
	CustomerID   uint                `json:"customer_id"`
	RestaurantID uint                `json:"restaurant_id"`
	Status       models.OrderStatus  `json:"status"`
	Total        decimal.NullDecimal `json:"total"`
}

// notify fans an order change out to the order's own topic, the owning
// customer, and the restaurant's staff. Cart mutations never notify;
// carts are private to the customer.
func notify(order *models.Order) {
	snap := Snapshot{
		Reference:    order.Reference,
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		RestaurantID: order.RestaurantID,
		Status:       order.Status,
		Total:        order.Total,
	}
	pubsub.Broadcast("order."+order.Reference.String(), snap)
	pubsub.Broadcast(fmt.Sprintf("user.%d", order.CustomerID), snap)
	pubsub.Broadcast(fmt.Sprintf("restaurant.%d", order.RestaurantID), snap)
}
