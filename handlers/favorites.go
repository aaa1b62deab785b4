package handlers

import (
	"net/http"
	"strconv"

	"dinehub-api/config"
	"dinehub-api/favorites"
	"dinehub-api/middleware"

	"github.com/gin-gonic/gin"
)

type ReorderFavoritesRequest struct {
	RestaurantIDs []uint `json:"restaurant_ids" binding:"required"`
}

// GetFavorites returns the caller's favorites in rank order.
func GetFavorites(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	favs, err := favorites.List(config.DB, customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(favs), "favorites": favs})
}

// ToggleFavorite adds or removes a restaurant from the caller's
// favorites, keeping ranks dense either way.
func ToggleFavorite(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	restaurantID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant id"})
		return
	}
	favs, err := favorites.Toggle(config.DB, customerID, uint(restaurantID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(favs), "favorites": favs})
}

// ReorderFavorites applies a full drag-and-drop ordering. A submission
// that is not an exact permutation of the current favorites is rejected
// wholesale.
func ReorderFavorites(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var req ReorderFavoritesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	favs, err := favorites.Reorder(config.DB, customerID, req.RestaurantIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(favs), "favorites": favs})
}
