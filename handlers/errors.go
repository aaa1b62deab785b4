package handlers

import (
	"errors"
	"net/http"

	"dinehub-api/apperr"
	"dinehub-api/statemachine"

	"github.com/gin-gonic/gin"
)

// respondError maps the domain error taxonomy onto HTTP. Everything
// here is recoverable and surfaced as a message; nothing crashes the
// request loop.
func respondError(c *gin.Context, err error) {
	var unavailable *apperr.UnavailableItemsError
	var transition *statemachine.TransitionError

	switch {
	case errors.As(err, &unavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Some items are no longer available",
			"unavailable_items": unavailable.Names,
		})
	case errors.As(err, &transition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"reason":            transition.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(transition.From),
		})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to do that"})
	case errors.Is(err, apperr.ErrEmptyOrder):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Your cart is empty"})
	case errors.Is(err, apperr.ErrUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "This item is no longer available"})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflicting request"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
