package orders

import (
	"fmt"
	"sync/atomic"
	"testing"

	"dinehub-api/apperr"
	"dinehub-api/config"
	"dinehub-api/models"
	"dinehub-api/pubsub"
	"dinehub-api/statemachine"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbCounter int64

func getTestDB(t *testing.T) *gorm.DB {
	name := fmt.Sprintf("file:orders_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

type fixture struct {
	db         *gorm.DB
	customer   models.User
	restaurant models.Restaurant
	other      models.Restaurant
	burger     models.MenuItem // 10.00 at restaurant
	fries      models.MenuItem // 5.00 at restaurant
	sushi      models.MenuItem // 12.50 at other
}

func newFixture(t *testing.T) *fixture {
	db := getTestDB(t)
	f := &fixture{db: db}

	f.customer = models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&f.customer).Error)

	f.restaurant = models.Restaurant{Name: "Burger Barn"}
	f.other = models.Restaurant{Name: "Sushi Spot"}
	require.NoError(t, db.Create(&f.restaurant).Error)
	require.NoError(t, db.Create(&f.other).Error)

	mains := models.FoodType{RestaurantID: f.restaurant.ID, Name: "Mains"}
	rolls := models.FoodType{RestaurantID: f.other.ID, Name: "Rolls"}
	require.NoError(t, db.Create(&mains).Error)
	require.NoError(t, db.Create(&rolls).Error)

	f.burger = models.MenuItem{FoodTypeID: mains.ID, Name: "Burger", Price: decimal.NewFromFloat(10.00), IsAvailable: true}
	f.fries = models.MenuItem{FoodTypeID: mains.ID, Name: "Fries", Price: decimal.NewFromFloat(5.00), IsAvailable: true}
	f.sushi = models.MenuItem{FoodTypeID: rolls.ID, Name: "Sushi", Price: decimal.NewFromFloat(12.50), IsAvailable: true}
	require.NoError(t, db.Create(&f.burger).Error)
	require.NoError(t, db.Create(&f.fries).Error)
	require.NoError(t, db.Create(&f.sushi).Error)

	return f
}

func (f *fixture) cartCount(t *testing.T, restaurantID uint) int64 {
	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).
		Where("customer_id = ? AND restaurant_id = ? AND status = ?",
			f.customer.ID, restaurantID, models.StatusInCart).
		Count(&n).Error)
	return n
}

func TestAddItemCreatesCartImplicitly(t *testing.T) {
	f := newFixture(t)

	order, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInCart, order.Status)
	assert.Equal(t, f.restaurant.ID, order.RestaurantID)
	assert.Nil(t, order.TimePlaced)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Quantity)
}

func TestAddItemMergesQuantities(t *testing.T) {
	f := newFixture(t)

	_, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)
	order, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)

	// one line with quantity 2, not two lines
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.EqualValues(t, 1, f.cartCount(t, f.restaurant.ID))
}

func TestAtMostOneCartPerRestaurant(t *testing.T) {
	f := newFixture(t)

	first, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)
	second, err := AddItem(f.db, f.customer.ID, f.fries.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.EqualValues(t, 1, f.cartCount(t, f.restaurant.ID))
}

func TestSeparateCartsPerRestaurant(t *testing.T) {
	f := newFixture(t)

	barn, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)
	_, err = AddItem(f.db, f.customer.ID, f.fries.ID, 2)
	require.NoError(t, err)

	spot, err := AddItem(f.db, f.customer.ID, f.sushi.ID, 1)
	require.NoError(t, err)

	assert.NotEqual(t, barn.ID, spot.ID)
	assert.EqualValues(t, 1, f.cartCount(t, f.restaurant.ID))
	assert.EqualValues(t, 1, f.cartCount(t, f.other.ID))

	// the first restaurant's cart is untouched by the second one
	reloaded, err := Load(f.db, f.customer.ID, barn.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 2)
}

func TestAddUnavailableItem(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(&f.burger).Update("is_available", false).Error)

	_, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrUnavailable)

	_, err = AddItem(f.db, f.customer.ID, 9999, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	f := newFixture(t)
	_, err := AddItem(f.db, f.customer.ID, f.burger.ID, 3)
	require.NoError(t, err)

	order, err := UpdateQuantity(f.db, f.customer.ID, f.burger.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, order.Items[0].Quantity)

	order, err = UpdateQuantity(f.db, f.customer.ID, f.burger.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, order.Items)

	// the emptied cart stays around as an IN_CART shell for reuse
	assert.EqualValues(t, 1, f.cartCount(t, f.restaurant.ID))
	reused, err := AddItem(f.db, f.customer.ID, f.fries.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, order.ID, reused.ID)
}

func TestClearCartDeletesOrder(t *testing.T) {
	f := newFixture(t)
	_, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)

	require.NoError(t, ClearCart(f.db, f.customer.ID, f.restaurant.ID))
	assert.EqualValues(t, 0, f.cartCount(t, f.restaurant.ID))

	assert.ErrorIs(t, ClearCart(f.db, f.customer.ID, f.restaurant.ID), apperr.ErrNotFound)
}

func TestCheckoutPlacesOrderWithSnapshot(t *testing.T) {
	f := newFixture(t)
	_, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)
	cart, err := AddItem(f.db, f.customer.ID, f.fries.ID, 2)
	require.NoError(t, err)

	order, err := Checkout(f.db, f.customer.ID, cart.ID, "no onions")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlaced, order.Status)
	assert.NotNil(t, order.TimePlaced)
	assert.Equal(t, "no onions", order.Notes)
	require.True(t, order.Total.Valid)
	assert.True(t, order.Total.Decimal.Equal(decimal.NewFromFloat(20.00)), "total = 10 + 2*5, got %s", order.Total.Decimal)

	for _, line := range order.Items {
		assert.True(t, line.Price.Valid)
		assert.NotEmpty(t, line.Name)
	}
}

func TestPlacedOrderSnapshotIsImmutable(t *testing.T) {
	f := newFixture(t)
	cart, err := AddItem(f.db, f.customer.ID, f.burger.ID, 2)
	require.NoError(t, err)
	placed, err := Checkout(f.db, f.customer.ID, cart.ID, "")
	require.NoError(t, err)

	// catalog changes after checkout must not leak into the order
	require.NoError(t, f.db.Model(&f.burger).Updates(map[string]any{
		"price":        decimal.NewFromFloat(99.99),
		"is_available": false,
	}).Error)

	reloaded, err := Load(f.db, f.customer.ID, placed.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].Price.Decimal.Equal(decimal.NewFromFloat(10.00)))
	assert.Equal(t, "Burger", reloaded.Items[0].Name)
	assert.True(t, reloaded.Total.Decimal.Equal(decimal.NewFromFloat(20.00)))
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	cart, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)
	_, err = RemoveItem(f.db, f.customer.ID, f.burger.ID)
	require.NoError(t, err)

	_, err = Checkout(f.db, f.customer.ID, cart.ID, "")
	assert.ErrorIs(t, err, apperr.ErrEmptyOrder)
}

func TestCheckoutNamesEveryUnavailableItem(t *testing.T) {
	f := newFixture(t)
	extra := models.MenuItem{FoodTypeID: f.burger.FoodTypeID, Name: "Shake", Price: decimal.NewFromFloat(4.00), IsAvailable: true}
	require.NoError(t, f.db.Create(&extra).Error)

	_, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)
	_, err = AddItem(f.db, f.customer.ID, f.fries.ID, 1)
	require.NoError(t, err)
	cart, err := AddItem(f.db, f.customer.ID, extra.ID, 1)
	require.NoError(t, err)

	// both go stale between add and checkout
	require.NoError(t, f.db.Model(&f.burger).Update("is_available", false).Error)
	require.NoError(t, f.db.Model(&extra).Update("is_available", false).Error)

	_, err = Checkout(f.db, f.customer.ID, cart.ID, "")
	var ue *apperr.UnavailableItemsError
	require.ErrorAs(t, err, &ue)
	assert.ElementsMatch(t, []string{"Burger", "Shake"}, ue.Names)

	// checkout failed, the cart is still a cart
	reloaded, err := Load(f.db, f.customer.ID, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInCart, reloaded.Status)
	assert.Nil(t, reloaded.TimePlaced)
}

func TestCheckoutOwnershipAndDoublePlace(t *testing.T) {
	f := newFixture(t)
	cart, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)

	stranger := models.User{Name: "Mallory", Email: "mallory@example.com", PasswordHash: "x"}
	require.NoError(t, f.db.Create(&stranger).Error)
	_, err = Checkout(f.db, stranger.ID, cart.ID, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = Checkout(f.db, f.customer.ID, cart.ID, "")
	require.NoError(t, err)

	// placing twice is an invalid transition, not a silent no-op
	_, err = Checkout(f.db, f.customer.ID, cart.ID, "")
	var te *statemachine.TransitionError
	assert.ErrorAs(t, err, &te)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	cart, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)
	_, err = Checkout(f.db, f.customer.ID, cart.ID, "")
	require.NoError(t, err)

	for _, next := range []models.OrderStatus{
		models.StatusAccepted, models.StatusPreparing, models.StatusReady, models.StatusFulfilled,
	} {
		order, err := UpdateStatus(f.db, f.restaurant.ID, cart.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, order.Status)
	}

	// terminal: no way out of FULFILLED
	_, err = UpdateStatus(f.db, f.restaurant.ID, cart.ID, models.StatusCancelled)
	var te *statemachine.TransitionError
	assert.ErrorAs(t, err, &te)
}

func TestUpdateStatusBackwardRejected(t *testing.T) {
	f := newFixture(t)
	cart, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)
	_, err = Checkout(f.db, f.customer.ID, cart.ID, "")
	require.NoError(t, err)
	_, err = UpdateStatus(f.db, f.restaurant.ID, cart.ID, models.StatusAccepted)
	require.NoError(t, err)
	_, err = UpdateStatus(f.db, f.restaurant.ID, cart.ID, models.StatusPreparing)
	require.NoError(t, err)
	_, err = UpdateStatus(f.db, f.restaurant.ID, cart.ID, models.StatusReady)
	require.NoError(t, err)

	var te *statemachine.TransitionError
	_, err = UpdateStatus(f.db, f.restaurant.ID, cart.ID, models.StatusPreparing)
	assert.ErrorAs(t, err, &te)
}

func TestUpdateStatusForeignRestaurantForbidden(t *testing.T) {
	f := newFixture(t)
	cart, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)
	_, err = Checkout(f.db, f.customer.ID, cart.ID, "")
	require.NoError(t, err)

	// staff of the sushi place cannot touch the burger order
	_, err = UpdateStatus(f.db, f.other.ID, cart.ID, models.StatusAccepted)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestStatusChangeFansOutToWatchers(t *testing.T) {
	f := newFixture(t)
	cart, err := AddItem(f.db, f.customer.ID, f.burger.ID, 1)
	require.NoError(t, err)

	userTopic := fmt.Sprintf("user.%d", f.customer.ID)
	restaurantTopic := fmt.Sprintf("restaurant.%d", f.restaurant.ID)
	ch, cancel := pubsub.Default.Subscribe([]string{userTopic, restaurantTopic})
	defer cancel()

	_, err = Checkout(f.db, f.customer.ID, cart.ID, "")
	require.NoError(t, err)

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		ev := <-ch
		got[ev.Topic] = true
	}
	assert.True(t, got[userTopic])
	assert.True(t, got[restaurantTopic])

	// cart mutations stay private: no events for a plain add
	_, err = AddItem(f.db, f.customer.ID, f.sushi.ID, 1)
	require.NoError(t, err)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %q for a cart mutation", ev.Topic)
	default:
	}
}
