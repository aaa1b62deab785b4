package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"dinehub-api/config"
	"dinehub-api/middleware"
	"dinehub-api/models"
	"dinehub-api/pubsub"

	"github.com/gin-gonic/gin"
)

// topicAllowed gates event subscriptions: customers may watch
// themselves and their own orders, staff may watch their restaurant
// and its orders.
func topicAllowed(p middleware.Principal, topic string) bool {
	switch {
	case strings.HasPrefix(topic, "user."):
		id, err := strconv.ParseUint(strings.TrimPrefix(topic, "user."), 10, 32)
		return err == nil && uint(id) == p.UserID
	case strings.HasPrefix(topic, "restaurant."):
		id, err := strconv.ParseUint(strings.TrimPrefix(topic, "restaurant."), 10, 32)
		return err == nil && p.IsStaff && uint(id) == p.RestaurantID
	case strings.HasPrefix(topic, "order."):
		ref := strings.TrimPrefix(topic, "order.")
		var order models.Order
		if err := config.DB.Where("reference = ?", ref).First(&order).Error; err != nil {
			return false
		}
		if order.CustomerID == p.UserID {
			return true
		}
		return p.IsStaff && order.RestaurantID == p.RestaurantID
	default:
		return false
	}
}

// StreamEvents serves order change signals over SSE. Clients pass
// ?topics=user.1,order.<ref> and re-fetch the order on every event;
// the payload is a signal, not the source of truth.
func StreamEvents(c *gin.Context) {
	p := middleware.GetPrincipal(c)

	raw := c.Query("topics")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topics query parameter required"})
		return
	}
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !topicAllowed(p, t) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to watch topic " + t})
			return
		}
		topics = append(topics, t)
	}
	if len(topics) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid topics"})
		return
	}

	ch, cancel := pubsub.Default.Subscribe(topics)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			data, _ := json.Marshal(ev)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, data)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
