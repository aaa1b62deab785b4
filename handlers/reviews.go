package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"dinehub-api/config"
	"dinehub-api/middleware"
	"dinehub-api/models"
	"dinehub-api/rating"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// isDuplicateKey spots the unique-index violation from the
// (customer, restaurant) review constraint across drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}

// CreateReview adds the caller's review for a restaurant and recomputes
// the restaurant's rating in the same transaction. A second review for
// the same restaurant is a distinct conflict, so the client can send
// the customer to edit their existing review instead of showing a
// generic validation error.
func CreateReview(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	restaurantID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant id"})
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.First(&models.Restaurant{}, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	review := models.Review{
		CustomerID:   customerID,
		RestaurantID: uint(restaurantID),
		Rating:       req.Rating,
		Title:        req.Title,
		Content:      req.Content,
	}
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return rating.Recompute(tx, uint(restaurantID))
	})
	if err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "You have already reviewed this restaurant — edit your existing review instead",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review created", "review": review})
}

// UpdateReview edits the caller's own review and recomputes the rating.
func UpdateReview(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	reviewID := c.Param("id")

	var review models.Review
	if err := config.DB.First(&review, reviewID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if review.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This review does not belong to you"})
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		update := map[string]any{"rating": req.Rating, "title": req.Title, "content": req.Content}
		if err := tx.Model(&review).Updates(update).Error; err != nil {
			return err
		}
		return rating.Recompute(tx, review.RestaurantID)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated", "review": review})
}

// DeleteReview removes the caller's own review; the restaurant's rating
// falls back to NULL when its last review goes.
func DeleteReview(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	reviewID := c.Param("id")

	var review models.Review
	if err := config.DB.First(&review, reviewID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if review.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This review does not belong to you"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return rating.Recompute(tx, review.RestaurantID)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
