package statemachine

import (
	"fmt"
	"strings"

	"github.com/guptarajStha/restaurant-web/models"
)

// allStatuses is the authoritative order status vocabulary, in kitchen order
var allStatuses = []models.OrderStatus{
	models.StatusPending,
	models.StatusPreparing,
	models.StatusReady,
	models.StatusDelivered,
	models.StatusCancelled,
}

// Build a lookup set for O(1) validation
var statusSet = func() map[models.OrderStatus]bool {
	m := make(map[models.OrderStatus]bool, len(allStatuses))
	for _, s := range allStatuses {
		m[s] = true
	}
	return m
}()

// Statuses returns every known order status
func Statuses() []models.OrderStatus {
	out := make([]models.OrderStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// IsValid reports whether status belongs to the vocabulary
func IsValid(status models.OrderStatus) bool {
	return statusSet[status]
}

// CanTransition accepts any move between known statuses. Orders are not
// guarded by an edge graph: staff may cancel a pending order or send a
// delivered one back to pending.
func CanTransition(from, to models.OrderStatus) error {
	if !IsValid(to) {
		return fmt.Errorf("invalid status %q, valid statuses are: %s", to, describeAll())
	}
	if from != "" && !IsValid(from) {
		return fmt.Errorf("invalid current status %q", from)
	}
	return nil
}

// ValidTransitionsFrom returns all statuses reachable from status
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	if !IsValid(status) {
		return nil
	}
	return Statuses()
}

// Billable reports whether an order in status may be put on a bill
func Billable(status models.OrderStatus) bool {
	return status == models.StatusReady || status == models.StatusDelivered
}

// Active covers orders still being worked on by the kitchen
func Active(status models.OrderStatus) bool {
	switch status {
	case models.StatusPending, models.StatusPreparing, models.StatusReady:
		return true
	}
	return false
}

// Completed covers orders that left the kitchen one way or another
func Completed(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

func describeAll() string {
	names := make([]string, 0, len(allStatuses))
	for _, s := range allStatuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
