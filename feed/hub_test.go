package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/guptarajStha/restaurant-web/logger"
	"github.com/guptarajStha/restaurant-web/models"
)

// fakeSource serves the first n orders of a mutable list
type fakeSource struct {
	mu     sync.Mutex
	orders []models.Order
	limits []int
	err    error
}

func (f *fakeSource) RecentOrders(_ context.Context, limit int) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	n := limit
	if n > len(f.orders) {
		n = len(f.orders)
	}
	return append([]models.Order(nil), f.orders[:n]...), nil
}

func (f *fakeSource) set(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = f.orders[:0]
	for _, id := range ids {
		f.orders = append(f.orders, models.Order{ID: id})
	}
}

func ids(orders []models.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func startHub(t *testing.T, src Source) *Hub {
	t.Helper()
	h := NewHub(src, 0, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return h
}

func collect(h *Hub, limit int) (<-chan []string, func()) {
	out := make(chan []string, 16)
	unsub := h.Subscribe(limit, func(orders []models.Order) {
		out <- ids(orders)
	})
	return out, unsub
}

// waitFor reads snapshots until one equals want
func waitFor(t *testing.T, ch <-chan []string, want []string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	var last []string
	for {
		select {
		case got := <-ch:
			if cmp.Equal(got, want) {
				return
			}
			last = got
		case <-deadline:
			t.Fatalf("no snapshot %v, last saw %v", want, last)
		}
	}
}

func TestSubscribeGetsInitialSnapshot(t *testing.T) {
	src := &fakeSource{}
	src.set("o3", "o2", "o1")
	h := startHub(t, src)

	ch, unsub := collect(h, 2)
	defer unsub()
	waitFor(t, ch, []string{"o3", "o2"})
}

func TestNotifyDeliversReplacementLists(t *testing.T) {
	src := &fakeSource{}
	src.set("o1")
	h := startHub(t, src)

	small, unsubSmall := collect(h, 1)
	defer unsubSmall()
	wide, unsubWide := collect(h, DefaultLimit)
	defer unsubWide()
	waitFor(t, small, []string{"o1"})
	waitFor(t, wide, []string{"o1"})

	src.mu.Lock()
	src.limits = nil
	src.mu.Unlock()

	src.set("o3", "o2", "o1")
	h.Notify()
	waitFor(t, small, []string{"o3"})
	waitFor(t, wide, []string{"o3", "o2", "o1"})

	src.mu.Lock()
	defer src.mu.Unlock()
	for _, l := range src.limits {
		if l != DefaultLimit {
			t.Errorf("queried with limit %d, want one query at the widest limit %d", l, DefaultLimit)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	src := &fakeSource{}
	src.set("o1")
	h := startHub(t, src)

	ch, unsub := collect(h, 5)
	waitFor(t, ch, []string{"o1"})
	unsub()
	unsub()
	if n := h.Subscribers(); n != 0 {
		t.Fatalf("subscribers = %d after unsubscribe", n)
	}

	src.set("o2", "o1")
	h.Notify()
	select {
	case got := <-ch:
		t.Fatalf("snapshot after unsubscribe: %v", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSlowSubscriberSeesLatest(t *testing.T) {
	src := &fakeSource{}
	src.set("o0")
	h := startHub(t, src)

	release := make(chan struct{})
	var mu sync.Mutex
	var seen [][]string
	unsub := h.Subscribe(5, func(orders []models.Order) {
		<-release
		mu.Lock()
		seen = append(seen, ids(orders))
		mu.Unlock()
	})
	defer unsub()

	for i := 1; i <= 5; i++ {
		src.set(fmt.Sprintf("o%d", i))
		h.Notify()
		time.Sleep(5 * time.Millisecond)
	}
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(seen)
		var last []string
		if n > 0 {
			last = seen[n-1]
		}
		mu.Unlock()
		if cmp.Equal(last, []string{"o5"}) {
			if n > 3 {
				t.Errorf("delivered %d snapshots, expected stale ones to be replaced", n)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("latest snapshot never delivered, saw %v", seen)
}

func TestQueryFailureKeepsSubscribers(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}
	h := startHub(t, src)

	ch, unsub := collect(h, 3)
	defer unsub()
	h.Notify()

	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()
	src.set("o1")
	h.Notify()
	waitFor(t, ch, []string{"o1"})
}

type recordingPublisher struct {
	mu       sync.Mutex
	exchange string
	msgs     []amqp.Publishing
}

func (r *recordingPublisher) PublishWithContext(_ context.Context, exchange, _ string, _, _ bool, msg amqp.Publishing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exchange = exchange
	r.msgs = append(r.msgs, msg)
	return nil
}

func TestAMQPBridgePublishesSnapshots(t *testing.T) {
	src := &fakeSource{}
	src.set("o2", "o1")
	h := startHub(t, src)

	pub := &recordingPublisher{}
	bridge := NewAMQPBridge(pub, "", logger.Nop())
	detach := bridge.Attach(h, 10)
	defer detach()

	deadline := time.Now().Add(2 * time.Second)
	for {
		pub.mu.Lock()
		n := len(pub.msgs)
		pub.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("nothing published")
		}
		time.Sleep(5 * time.Millisecond)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if pub.exchange != DefaultExchange {
		t.Errorf("exchange = %q", pub.exchange)
	}
	msg := pub.msgs[0]
	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent {
		t.Errorf("publishing = %+v", msg)
	}
	var snap Snapshot
	if err := json.Unmarshal(msg.Body, &snap); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"o2", "o1"}, ids(snap.Orders)); diff != "" {
		t.Errorf("published orders (-want +got):\n%s", diff)
	}
}
