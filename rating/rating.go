// Package rating keeps Restaurant.Rating in sync with its reviews. The
// field is derived and never edited directly: every review create,
// update or delete recomputes it inside the same transaction as the
// review write, so a stale average is never served.
package rating

import (
	"dinehub-api/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Mean computes the 2-decimal average of the given review ratings.
// Valid is false when no reviews remain — the rating goes back to NULL
// rather than holding a stale average.
func Mean(ratings []int) decimal.NullDecimal {
	if len(ratings) == 0 {
		return decimal.NullDecimal{}
	}
	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromInt(int64(r)))
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(2)
	return decimal.NullDecimal{Decimal: mean, Valid: true}
}

// Recompute reloads the restaurant's review ratings and writes the new
// mean. Call it at the end of every review mutation, on the same tx.
func Recompute(tx *gorm.DB, restaurantID uint) error {
	var ratings []int
	err := tx.Model(&models.Review{}).
		Where("restaurant_id = ?", restaurantID).
		Pluck("rating", &ratings).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Restaurant{}).
		Where("id = ?", restaurantID).
		Update("rating", Mean(ratings)).Error
}
