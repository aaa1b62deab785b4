package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents all possible states of an order, starting from
// the in-cart state the order is born in.
type OrderStatus string

const (
	StatusInCart    OrderStatus = "IN_CART"
	StatusPlaced    OrderStatus = "PLACED"
	StatusAccepted  OrderStatus = "ACCEPTED"
	StatusDeclined  OrderStatus = "DECLINED"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusFulfilled OrderStatus = "FULFILLED"
)

// ActiveStatuses is the default staff/customer list filter: orders that
// are placed but not yet in a terminal state.
var ActiveStatuses = []OrderStatus{StatusPlaced, StatusAccepted, StatusPreparing, StatusReady}

// Order doubles as the shopping cart while Status is IN_CART. The partial
// unique index keeps at most one open cart per (customer, restaurant);
// a customer may still hold open carts for different restaurants.
type Order struct {
	ID           uint                `json:"id" gorm:"primaryKey"`
	Reference    uuid.UUID           `json:"reference" gorm:"type:uuid;uniqueIndex;not null"`
	CustomerID   uint                `json:"customer_id" gorm:"not null;index;uniqueIndex:uniq_open_cart,where:status = 'IN_CART'"`
	Customer     User                `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	RestaurantID uint                `json:"restaurant_id" gorm:"not null;index;uniqueIndex:uniq_open_cart,where:status = 'IN_CART'"`
	Restaurant   Restaurant          `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Status       OrderStatus         `json:"status" gorm:"not null;default:'IN_CART'"`
	Notes        string              `json:"notes"`
	TimePlaced   *time.Time          `json:"time_placed"`
	Total        decimal.NullDecimal `json:"total" gorm:"type:decimal(10,2)"`
	Items        []OrderItem         `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.Reference == uuid.Nil {
		o.Reference = uuid.New()
	}
	return nil
}

// OrderItem is the order↔menu-item association carrying a quantity.
// Name and Price stay empty while the order is a cart; checkout writes
// them as an immutable snapshot so later menu edits never change a
// placed order.
type OrderItem struct {
	ID         uint                `json:"id" gorm:"primaryKey"`
	OrderID    uint                `json:"order_id" gorm:"not null;uniqueIndex:uniq_order_line"`
	MenuItemID uint                `json:"menu_item_id" gorm:"not null;uniqueIndex:uniq_order_line"`
	MenuItem   MenuItem            `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity   int                 `json:"quantity" gorm:"not null;check:quantity >= 1"`
	Name       string              `json:"name"`
	Price      decimal.NullDecimal `json:"price" gorm:"type:decimal(10,2)"`
}
