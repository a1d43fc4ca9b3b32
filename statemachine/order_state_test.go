package statemachine

import (
	"testing"

	"github.com/guptarajStha/restaurant-web/models"
)

func TestCanTransitionIsPermissive(t *testing.T) {
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			if err := CanTransition(from, to); err != nil {
				t.Errorf("CanTransition(%s, %s) = %v, want nil", from, to, err)
			}
		}
	}
}

func TestCanTransitionRejectsUnknownTarget(t *testing.T) {
	if err := CanTransition(models.StatusPending, "served"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestBillable(t *testing.T) {
	cases := map[models.OrderStatus]bool{
		models.StatusPending:   false,
		models.StatusPreparing: false,
		models.StatusReady:     true,
		models.StatusDelivered: true,
		models.StatusCancelled: false,
	}
	for status, want := range cases {
		if got := Billable(status); got != want {
			t.Errorf("Billable(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestActiveAndCompletedPartitionStatuses(t *testing.T) {
	for _, s := range Statuses() {
		if Active(s) == Completed(s) {
			t.Errorf("status %s: active=%v completed=%v", s, Active(s), Completed(s))
		}
	}
}

func TestValidTransitionsFromUnknown(t *testing.T) {
	if got := ValidTransitionsFrom("bogus"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
	if got := ValidTransitionsFrom(models.StatusReady); len(got) != 5 {
		t.Fatalf("got %d statuses, want 5", len(got))
	}
}
