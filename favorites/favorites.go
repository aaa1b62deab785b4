// Package favorites maintains each customer's ordered list of favorite
// restaurants. Ranks are dense: after every toggle or reorder they are
// exactly 1..N for that customer, no gaps, no duplicates.
package favorites

import (
	"errors"
	"sync"

	"dinehub-api/apperr"
	"dinehub-api/models"

	"gorm.io/gorm"
)

// Mutations serialize per customer so two concurrent removals (or a
// removal racing a drag-reorder) cannot interleave their re-densify
// passes into duplicate ranks.
var (
	locksMu sync.Mutex
	locks   = map[uint]*sync.Mutex{}
)

func customerLock(customerID uint) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()
	l, ok := locks[customerID]
	if !ok {
		l = &sync.Mutex{}
		locks[customerID] = l
	}
	return l
}

// Toggle favorites an unfavorited restaurant at rank N+1, or removes an
// existing favorite and closes the rank gap it leaves.
func Toggle(db *gorm.DB, customerID, restaurantID uint) ([]models.FavoriteRestaurant, error) {
	l := customerLock(customerID)
	l.Lock()
	defer l.Unlock()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Restaurant{}, restaurantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		var fav models.FavoriteRestaurant
		err := tx.Where("customer_id = ? AND restaurant_id = ?", customerID, restaurantID).First(&fav).Error
		switch {
		case err == nil:
			if err := tx.Delete(&fav).Error; err != nil {
				return err
			}
			return densify(tx, customerID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			var count int64
			if err := tx.Model(&models.FavoriteRestaurant{}).
				Where("customer_id = ?", customerID).Count(&count).Error; err != nil {
				return err
			}
			return tx.Create(&models.FavoriteRestaurant{
				CustomerID:   customerID,
				RestaurantID: restaurantID,
				Rank:         int(count) + 1,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return List(db, customerID)
}

// Reorder applies a drag-and-drop result. The submitted IDs must be an
// exact permutation of the customer's current favorites — same count,
// same membership — otherwise nothing is applied. Partial updates that
// only touch the dragged item would leave duplicate or skipped ranks
// under concurrent drags; the whole rank set is rewritten instead.
func Reorder(db *gorm.DB, customerID uint, orderedIDs []uint) ([]models.FavoriteRestaurant, error) {
	l := customerLock(customerID)
	l.Lock()
	defer l.Unlock()

	err := db.Transaction(func(tx *gorm.DB) error {
		var current []models.FavoriteRestaurant
		if err := tx.Where("customer_id = ?", customerID).Find(&current).Error; err != nil {
			return err
		}
		if len(orderedIDs) != len(current) {
			return apperr.ErrConflict
		}
		have := make(map[uint]bool, len(current))
		for _, f := range current {
			have[f.RestaurantID] = true
		}
		seen := make(map[uint]bool, len(orderedIDs))
		for _, id := range orderedIDs {
			if !have[id] || seen[id] {
				return apperr.ErrConflict
			}
			seen[id] = true
		}
		for rank, id := range orderedIDs {
			err := tx.Model(&models.FavoriteRestaurant{}).
				Where("customer_id = ? AND restaurant_id = ?", customerID, id).
				Update("rank", rank+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return List(db, customerID)
}

// List returns the customer's favorites in rank order.
func List(db *gorm.DB, customerID uint) ([]models.FavoriteRestaurant, error) {
	var favs []models.FavoriteRestaurant
	err := db.Preload("Restaurant").
		Where("customer_id = ?", customerID).
		Order("rank asc").Find(&favs).Error
	return favs, err
}

// densify rewrites the customer's ranks as 1..N preserving the current
// order, closing whatever gap a removal left.
func densify(tx *gorm.DB, customerID uint) error {
	var favs []models.FavoriteRestaurant
	if err := tx.Where("customer_id = ?", customerID).Order("rank asc").Find(&favs).Error; err != nil {
		return err
	}
	for i, f := range favs {
		if f.Rank == i+1 {
			continue
		}
		if err := tx.Model(&f).Update("rank", i+1).Error; err != nil {
			return err
		}
	}
	return nil
}
