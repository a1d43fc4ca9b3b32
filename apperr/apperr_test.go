package apperr

import (
	"errors"
	"fmt"
	"testing"
)

var errSentinel = errors.New("sentinel")

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", Validation("op", "bad input", errSentinel))
	if got := KindOf(err); got != KindValidation {
		t.Fatalf("KindOf = %q, want %q", got, KindValidation)
	}
	if !errors.Is(err, errSentinel) {
		t.Fatal("sentinel lost through wrapping")
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindStore {
		t.Fatalf("KindOf = %q, want %q", got, KindStore)
	}
	if got := KindOf(nil); got != "" {
		t.Fatalf("KindOf(nil) = %q", got)
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{NotFound("orders.Get", "order", "42"), `orders.Get: order "42" not found`},
		{Store("bills.Create", errors.New("disk full")), "bills.Create: store operation failed: disk full"},
		{&Error{Op: "x", Err: errors.New("y")}, "x: y"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("Error() = %q, want %q", got, c.want)
		}
	}
}
