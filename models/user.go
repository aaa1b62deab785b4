package models

import "time"

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Employee ties a user to exactly one restaurant. A user without an
// Employee row acts as a customer; with one, as staff of that restaurant.
// IsAdmin marks managers, who may edit the menu, establishment data and
// the worker list. Regular staff only move orders and flip availability.
type Employee struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	User         User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null;index"`
	Restaurant   Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	IsAdmin      bool       `json:"is_admin" gorm:"default:false"`
	CreatedAt    time.Time  `json:"created_at"`
}
