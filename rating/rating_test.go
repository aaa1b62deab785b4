package rating

import (
	"fmt"
	"sync/atomic"
	"testing"

	"dinehub-api/config"
	"dinehub-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbCounter int64

func getTestDB(t *testing.T) *gorm.DB {
	name := fmt.Sprintf("file:rating_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func TestMean(t *testing.T) {
	m := Mean([]int{5, 3, 4})
	assert.True(t, m.Valid)
	assert.Equal(t, "4", m.Decimal.String())

	m = Mean([]int{5, 4})
	assert.True(t, m.Valid)
	assert.Equal(t, "4.5", m.Decimal.String())

	m = Mean([]int{1, 2})
	assert.Equal(t, "1.5", m.Decimal.String())

	// rounding to two decimals
	m = Mean([]int{5, 5, 4})
	assert.Equal(t, "4.67", m.Decimal.String())

	assert.False(t, Mean(nil).Valid)
}

func TestRecomputeFollowsReviewLifecycle(t *testing.T) {
	db := getTestDB(t)

	restaurant := models.Restaurant{Name: "Trattoria Nonna"}
	require.NoError(t, db.Create(&restaurant).Error)

	users := make([]models.User, 3)
	for i := range users {
		users[i] = models.User{Name: fmt.Sprintf("u%d", i), Email: fmt.Sprintf("u%d@example.com", i), PasswordHash: "x"}
		require.NoError(t, db.Create(&users[i]).Error)
	}

	reviews := []models.Review{
		{CustomerID: users[0].ID, RestaurantID: restaurant.ID, Rating: 5, Title: "great"},
		{CustomerID: users[1].ID, RestaurantID: restaurant.ID, Rating: 3, Title: "okay"},
		{CustomerID: users[2].ID, RestaurantID: restaurant.ID, Rating: 4, Title: "good"},
	}
	for i := range reviews {
		require.NoError(t, db.Create(&reviews[i]).Error)
	}

	require.NoError(t, Recompute(db, restaurant.ID))
	var got models.Restaurant
	require.NoError(t, db.First(&got, restaurant.ID).Error)
	assert.True(t, got.Rating.Valid)
	assert.Equal(t, "4", got.Rating.Decimal.String())

	// delete the 3-star review → mean of {5,4} = 4.5
	require.NoError(t, db.Delete(&reviews[1]).Error)
	require.NoError(t, Recompute(db, restaurant.ID))
	require.NoError(t, db.First(&got, restaurant.ID).Error)
	assert.Equal(t, "4.5", got.Rating.Decimal.String())

	// delete the rest → rating goes back to NULL, no stale average
	require.NoError(t, db.Delete(&reviews[0]).Error)
	require.NoError(t, db.Delete(&reviews[2]).Error)
	require.NoError(t, Recompute(db, restaurant.ID))
	// gorm leaves a reused dest field untouched when the column is NULL,
	// so read into a zeroed struct
	got = models.Restaurant{}
	require.NoError(t, db.First(&got, restaurant.ID).Error)
	assert.False(t, got.Rating.Valid)
}

func TestRecomputeScopedToOneRestaurant(t *testing.T) {
	db := getTestDB(t)

	a := models.Restaurant{Name: "A"}
	b := models.Restaurant{Name: "B"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)
	user := models.User{Name: "u", Email: "u@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, db.Create(&models.Review{CustomerID: user.ID, RestaurantID: a.ID, Rating: 2, Title: "meh"}).Error)
	require.NoError(t, Recompute(db, a.ID))
	require.NoError(t, Recompute(db, b.ID))

	var gotA, gotB models.Restaurant
	require.NoError(t, db.First(&gotA, a.ID).Error)
	require.NoError(t, db.First(&gotB, b.ID).Error)
	assert.Equal(t, "2", gotA.Rating.Decimal.String())
	assert.False(t, gotB.Rating.Valid)
}
