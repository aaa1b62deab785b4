package handlers

import (
	"math"
	"net/http"
	"sort"
	"strconv"

	"dinehub-api/config"
	"dinehub-api/models"
	"dinehub-api/statemachine"

	"github.com/gin-gonic/gin"
)

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ListRestaurants returns restaurants, optionally filtered by name
// search, open-now, and distance from a point. The geo path pre-filters
// with a bounding box in SQL and refines with haversine, sorted nearest
// first.
func ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	query := config.DB

	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if open := c.Query("open"); open == "true" {
		query = query.Where("is_open = ?", true)
	}

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		query.Preload("Images").Find(&restaurants)
		c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
		return
	}

	lat, err1 := strconv.ParseFloat(latStr, 64)
	lon, err2 := strconv.ParseFloat(lonStr, 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon must be numbers"})
		return
	}
	radiusKm := 10.0
	if r := c.Query("radius_km"); r != "" {
		if parsed, err := strconv.ParseFloat(r, 64); err == nil && parsed > 0 {
			radiusKm = parsed
		}
	}

	// Bounding box: 1° latitude ≈ 111 km; longitude shrinks with cos(lat).
	latDelta := radiusKm / 111.0
	lonDelta := radiusKm / (111.0 * math.Max(math.Cos(lat*math.Pi/180), 0.01))
	query = query.Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("latitude BETWEEN ? AND ?", lat-latDelta, lat+latDelta).
		Where("longitude BETWEEN ? AND ?", lon-lonDelta, lon+lonDelta)
	query.Preload("Images").Find(&restaurants)

	type restaurantWithDistance struct {
		models.Restaurant
		DistanceKm float64 `json:"distance_km"`
	}
	var nearby []restaurantWithDistance
	for _, r := range restaurants {
		d := haversineKm(lat, lon, *r.Latitude, *r.Longitude)
		if d <= radiusKm {
			nearby = append(nearby, restaurantWithDistance{Restaurant: r, DistanceKm: math.Round(d*100) / 100})
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })

	c.JSON(http.StatusOK, gin.H{"count": len(nearby), "restaurants": nearby})
}

// GetRestaurant returns a single restaurant with its menu categories.
func GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	err := config.DB.
		Preload("FoodTypes.MenuItems.Allergens").
		Preload("FoodTypes.MenuItems.Image").
		Preload("Images").
		First(&restaurant, c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu returns a restaurant's menu grouped by food type.
func GetMenu(c *gin.Context) {
	restaurantID := c.Param("id")
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	var foodTypes []models.FoodType
	query := config.DB.Where("restaurant_id = ?", restaurantID).
		Preload("MenuItems.Allergens").Preload("MenuItems.Image")
	if c.Query("available") == "true" {
		query = query.Preload("MenuItems", "is_available = ?", true)
	}
	query.Find(&foodTypes)

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant.Name,
		"menu":       foodTypes,
	})
}

// GetReviews returns a restaurant's reviews, newest first.
func GetReviews(c *gin.Context) {
	restaurantID := c.Param("id")
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	var reviews []models.Review
	config.DB.Preload("Customer").Preload("Images").
		Where("restaurant_id = ?", restaurantID).
		Order("created_at desc").Find(&reviews)
	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant.Name,
		"rating":     restaurant.Rating,
		"count":      len(reviews),
		"reviews":    reviews,
	})
}

// GetStateMachineInfo returns the order lifecycle for API consumers.
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.OrderStatus{models.StatusFulfilled, models.StatusDeclined, models.StatusCancelled},
		"description":     "Order lifecycle state machine",
	})
}
