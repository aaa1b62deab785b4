package statemachine

import (
	"fmt"

	"dinehub-api/models"
)

// Actor identifies who is requesting a transition.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorStaff    Actor = "staff"
)

// Transition defines a valid state change and who can perform it.
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

// validTransitions is the authoritative state machine definition.
// Strictly forward-or-cancel: no transition ever moves backward
// (READY can never return to PREPARING).
var validTransitions = []Transition{
	// Customer checks out the cart
	{From: models.StatusInCart, To: models.StatusPlaced, Actor: ActorCustomer},
	// Staff accept or decline a placed order
	{From: models.StatusPlaced, To: models.StatusAccepted, Actor: ActorStaff},
	{From: models.StatusPlaced, To: models.StatusDeclined, Actor: ActorStaff},
	// Kitchen progression
	{From: models.StatusAccepted, To: models.StatusPreparing, Actor: ActorStaff},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: ActorStaff},
	{From: models.StatusReady, To: models.StatusFulfilled, Actor: ActorStaff},
	// Staff may cancel any active, not-yet-ready order
	{From: models.StatusPlaced, To: models.StatusCancelled, Actor: ActorStaff},
	{From: models.StatusAccepted, To: models.StatusCancelled, Actor: ActorStaff},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorStaff},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// TransitionError reports an illegal status change. It is a typed error
// so handlers can distinguish it from authorization or lookup failures.
type TransitionError struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s → %s is not allowed for actor %q", e.From, e.To, e.Actor)
}

// CanTransition checks whether the given actor may move an order from
// one state to another.
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return &TransitionError{From: from, To: to, Actor: actor}
}

// ValidTransitionsFrom returns all valid next states from a given state,
// for error payloads and API docs.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// GetAllTransitions returns the full state machine for documentation.
func GetAllTransitions() []Transition {
	return validTransitions
}
