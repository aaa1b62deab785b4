package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Description  string   `json:"description"`
	OpeningHours string   `json:"opening_hours"`
	IsOpen       bool     `json:"is_open" gorm:"default:true"`
	// Rating is derived: the 2-decimal mean of this restaurant's review
	// ratings, NULL while no reviews exist. Never written directly by
	// handlers; see the rating package.
	Rating    decimal.NullDecimal `json:"rating" gorm:"type:decimal(3,2)"`
	FoodTypes []FoodType          `json:"food_types,omitempty" gorm:"foreignKey:RestaurantID"`
	Images    []Image             `json:"images,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// FoodType is a menu category. Menu items hang off a food type, never
// directly off a restaurant; the restaurant is reached through here.
type FoodType struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null;index"`
	Name         string     `json:"name" gorm:"not null"`
	MenuItems    []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:FoodTypeID"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type MenuItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	FoodTypeID  uint            `json:"food_type_id" gorm:"not null;index"`
	FoodType    FoodType        `json:"food_type,omitempty" gorm:"foreignKey:FoodTypeID"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	IsAvailable bool            `json:"is_available" gorm:"default:true"`
	Allergens   []Allergen      `json:"allergens,omitempty" gorm:"many2many:menu_item_allergens"`
	Image       *Image          `json:"image,omitempty" gorm:"foreignKey:MenuItemID"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Allergen struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// Image holds a display URL only; upload and storage live elsewhere.
type Image struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	URL          string    `json:"url" gorm:"not null"`
	RestaurantID *uint     `json:"restaurant_id,omitempty"`
	MenuItemID   *uint     `json:"menu_item_id,omitempty"`
	ReviewID     *uint     `json:"review_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
