package ordering

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/guptarajStha/restaurant-web/apperr"
	"github.com/guptarajStha/restaurant-web/logger"
	"github.com/guptarajStha/restaurant-web/models"
	"github.com/guptarajStha/restaurant-web/store"
	"github.com/guptarajStha/restaurant-web/store/storetest"
)

type countingNotifier struct{ n int }

func (c *countingNotifier) Notify() { c.n++ }

func newService(t *testing.T) (*Service, *store.Store, *countingNotifier) {
	t.Helper()
	st := storetest.Open(t)
	feed := &countingNotifier{}
	return NewService(FromStore(st), feed, logger.Nop()), st, feed
}

func TestCreateOrderSnapshotsCatalog(t *testing.T) {
	svc, st, feed := newService(t)
	ctx := context.Background()
	table := storetest.Table(t, st, 7)
	burger := storetest.Item(t, st, "Burger", "8.50")
	fries := storetest.Item(t, st, "Fries", "3.25")

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		TableID: table.ID,
		Lines: []LineInput{
			{ItemID: burger.ID, Quantity: 2},
			{ItemID: fries.ID, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if want := decimal.RequireFromString("26.75"); !order.Total.Equal(want) {
		t.Errorf("total = %s, want %s", order.Total, want)
	}
	if order.TableName != "Table 7" {
		t.Errorf("table name = %q", order.TableName)
	}
	if order.Status != models.StatusPending {
		t.Errorf("status = %q", order.Status)
	}
	if feed.n != 1 {
		t.Errorf("feed notified %d times, want 1", feed.n)
	}

	got, err := st.GetTable(ctx, table.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.TableOccupied {
		t.Errorf("table status = %q, want occupied", got.Status)
	}

	// later catalog and table edits do not leak into the stored order
	if err := st.UpdateItem(ctx, burger.ID, store.Patch{"price": decimal.NewFromInt(99), "name": "Mega"}); err != nil {
		t.Fatal(err)
	}
	if err := st.UpdateTable(ctx, table.ID, store.Patch{"number": 70}); err != nil {
		t.Fatal(err)
	}
	stored, err := svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.TableName != "Table 7" {
		t.Errorf("stored table name = %q", stored.TableName)
	}
	if !stored.Total.Equal(models.LinesTotal(stored.Items)) {
		t.Errorf("total %s != lines %s", stored.Total, models.LinesTotal(stored.Items))
	}
	for _, l := range stored.Items {
		if l.ItemName == "Mega" || l.UnitPrice.Equal(decimal.NewFromInt(99)) {
			t.Errorf("line re-read the catalog: %+v", l)
		}
	}
}

func TestCreateOrderDropsUnknownItems(t *testing.T) {
	svc, st, _ := newService(t)
	table := storetest.Table(t, st, 1)
	tea := storetest.Item(t, st, "Tea", "2.00")

	order, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		TableID: table.ID,
		Lines: []LineInput{
			{ItemID: "does-not-exist", Quantity: 5},
			{ItemID: tea.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].ItemID != tea.ID {
		t.Fatalf("items = %+v", order.Items)
	}
	if !order.Total.Equal(decimal.NewFromInt(2)) {
		t.Errorf("total = %s", order.Total)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, st, feed := newService(t)
	table := storetest.Table(t, st, 1)
	tea := storetest.Item(t, st, "Tea", "2.00")

	cases := []struct {
		name string
		in   CreateOrderInput
		kind apperr.Kind
		err  error
	}{
		{"no lines", CreateOrderInput{TableID: table.ID}, apperr.KindValidation, ErrNoLines},
		{"zero quantity", CreateOrderInput{TableID: table.ID, Lines: []LineInput{{ItemID: tea.ID}}}, apperr.KindValidation, ErrBadQuantity},
		{"nothing resolves", CreateOrderInput{TableID: table.ID, Lines: []LineInput{{ItemID: "x", Quantity: 1}}}, apperr.KindValidation, ErrNothingResolved},
		{"missing table", CreateOrderInput{TableID: "nope", Lines: []LineInput{{ItemID: tea.ID, Quantity: 1}}}, apperr.KindNotFound, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), c.in)
			if apperr.KindOf(err) != c.kind {
				t.Fatalf("kind = %q (%v), want %q", apperr.KindOf(err), err, c.kind)
			}
			if c.err != nil && !errors.Is(err, c.err) {
				t.Fatalf("err = %v, want %v", err, c.err)
			}
		})
	}
	if feed.n != 0 {
		t.Errorf("feed notified on failure")
	}
}

func TestUpdateOrderStatusAnyToAny(t *testing.T) {
	svc, st, feed := newService(t)
	ctx := context.Background()
	order := storetest.Order(t, st, storetest.Table(t, st, 2), models.StatusDelivered, "10")

	for _, next := range []models.OrderStatus{models.StatusPending, models.StatusCancelled, models.StatusReady} {
		got, err := svc.UpdateOrderStatus(ctx, order.ID, StatusChange{Status: next})
		if err != nil {
			t.Fatalf("-> %s: %v", next, err)
		}
		if got.Status != next {
			t.Fatalf("status = %s, want %s", got.Status, next)
		}
	}
	if feed.n != 3 {
		t.Errorf("feed notified %d times, want 3", feed.n)
	}

	if _, err := svc.UpdateOrderStatus(ctx, order.ID, StatusChange{Status: "served"}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("unknown status err = %v", err)
	}
	if _, err := svc.UpdateOrderStatus(ctx, "missing", StatusChange{Status: models.StatusReady}); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("missing order err = %v", err)
	}
}

func TestDeleteOrder(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	order := storetest.Order(t, st, storetest.Table(t, st, 2), models.StatusPending, "10")

	if err := svc.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteOrder: %v", err)
	}
	if _, err := svc.GetOrder(ctx, order.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("GetOrder after delete: %v", err)
	}
	if err := svc.DeleteOrder(ctx, order.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestAvailableToBillExcludesBilledOrders(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	table := storetest.Table(t, st, 3)
	ready := storetest.Order(t, st, table, models.StatusReady, "10")
	delivered := storetest.Order(t, st, table, models.StatusDelivered, "12")
	storetest.Order(t, st, table, models.StatusPending, "5")
	billedPaid := storetest.Order(t, st, table, models.StatusReady, "7")
	billedPending := storetest.Order(t, st, table, models.StatusDelivered, "9")

	for _, b := range []*models.Bill{
		{Orders: []models.Order{*billedPaid}, PaymentStatus: models.PaymentPaid, PaymentMethod: models.PaymentCash},
		{Orders: []models.Order{*billedPending}, PaymentStatus: models.PaymentPending},
	} {
		if err := st.CreateBillRecord(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.AvailableToBill(ctx)
	if err != nil {
		t.Fatalf("AvailableToBill: %v", err)
	}
	ids := map[string]bool{}
	for _, o := range got {
		ids[o.ID] = true
	}
	if len(ids) != 2 || !ids[ready.ID] || !ids[delivered.ID] {
		t.Fatalf("available = %v, want only %s and %s", ids, ready.ID, delivered.ID)
	}
}

func TestListOrdersTabs(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	table := storetest.Table(t, st, 4)
	for _, s := range []models.OrderStatus{models.StatusPending, models.StatusReady, models.StatusDelivered, models.StatusCancelled} {
		storetest.Order(t, st, table, s, "1")
	}

	active, err := svc.ListOrders(ctx, ListFilter{Tab: "active"})
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 2 {
		t.Errorf("active = %d, want 2", len(active))
	}

	none, err := svc.ListOrders(ctx, ListFilter{Tab: "completed", Status: models.StatusPending})
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("completed+pending = %d, want 0", len(none))
	}

	if _, err := svc.ListOrders(ctx, ListFilter{Tab: "weird"}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("bad tab err = %v", err)
	}
}

func TestStatusHistoryRecordsEveryTransition(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	clock := time.Date(2026, time.April, 3, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	table := storetest.Table(t, st, 4)
	tea := storetest.Item(t, st, "Tea", "2")
	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		TableID:  table.ID,
		Lines:    []LineInput{{ItemID: tea.ID, Quantity: 1}},
		PlacedBy: "waiter-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	changes := []StatusChange{
		{Status: models.StatusPreparing, ChangedBy: "cook-1"},
		{Status: models.StatusReady, ChangedBy: "cook-1", Note: "pass"},
		{Status: models.StatusDelivered, ChangedBy: "waiter-1"},
	}
	for _, c := range changes {
		if _, err := svc.UpdateOrderStatus(ctx, order.ID, c); err != nil {
			t.Fatalf("-> %s: %v", c.Status, err)
		}
	}

	got, err := svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	type step struct {
		From, To models.OrderStatus
		By, Note string
	}
	var steps []step
	for _, h := range got.History {
		if h.OrderID != order.ID {
			t.Errorf("history row for order %q", h.OrderID)
		}
		steps = append(steps, step{h.FromStatus, h.ToStatus, h.ChangedBy, h.Note})
	}
	want := []step{
		{"", models.StatusPending, "waiter-1", "order placed"},
		{models.StatusPending, models.StatusPreparing, "cook-1", ""},
		{models.StatusPreparing, models.StatusReady, "cook-1", "pass"},
		{models.StatusReady, models.StatusDelivered, "waiter-1", ""},
	}
	if diff := cmp.Diff(want, steps); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}

	if err := svc.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatal(err)
	}
	left, err := st.StatusHistory(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("%d history rows survive the order", len(left))
	}
}

// failingHistory cannot write status history, inside transactions too
type failingHistory struct{ Store }

func (f failingHistory) Tx(ctx context.Context, fn func(Store) error) error {
	return f.Store.Tx(ctx, func(tx Store) error { return fn(failingHistory{tx}) })
}

func (failingHistory) CreateStatusHistory(context.Context, *models.OrderStatusHistory) error {
	return apperr.Store("test.CreateStatusHistory", errors.New("disk full"))
}

func TestUpdateOrderStatusRollsBackWithoutHistory(t *testing.T) {
	st := storetest.Open(t)
	ctx := context.Background()
	svc := NewService(failingHistory{FromStore(st)}, nil, logger.Nop())
	order := storetest.Order(t, st, storetest.Table(t, st, 5), models.StatusPending, "10")

	if _, err := svc.UpdateOrderStatus(ctx, order.ID, StatusChange{Status: models.StatusReady}); !apperr.Is(err, apperr.KindStore) {
		t.Fatalf("err = %v, want a store error", err)
	}
	got, err := st.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("status = %s, want pending after the failed write", got.Status)
	}
}
