package models

import "time"

// Review: one per (customer, restaurant), enforced by the composite
// unique index so a duplicate insert fails at the storage layer.
type Review struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CustomerID   uint      `json:"customer_id" gorm:"not null;uniqueIndex:uniq_customer_review"`
	Customer     User      `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null;index;uniqueIndex:uniq_customer_review"`
	Rating       int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Title        string    `json:"title" gorm:"not null"`
	Content      string    `json:"content"`
	Images       []Image   `json:"images,omitempty" gorm:"foreignKey:ReviewID"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FavoriteRestaurant carries a dense per-customer rank: after every
// toggle or reorder the ranks for a customer are exactly 1..N.
type FavoriteRestaurant struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	CustomerID   uint       `json:"customer_id" gorm:"not null;index;uniqueIndex:uniq_favorite"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null;uniqueIndex:uniq_favorite"`
	Restaurant   Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Rank         int        `json:"rank" gorm:"not null"`
	CreatedAt    time.Time  `json:"created_at"`
}
