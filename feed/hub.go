// Package feed pushes the most recent orders to live subscribers. Every change
// to the order set produces a full replacement list, never a delta.
package feed

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/guptarajStha/restaurant-web/models"
)

const DefaultLimit = 10

// Source loads the newest orders, createdAt descending
type Source interface {
	RecentOrders(ctx context.Context, limit int) ([]models.Order, error)
}

type subscriber struct {
	limit int
	fn    func([]models.Order)
	ch    chan []models.Order
	done  chan struct{}
}

// Hub fans order snapshots out to subscribers. Notify is cheap and never
// blocks; Run does the querying and delivery.
type Hub struct {
	src          Source
	log          zerolog.Logger
	defaultLimit int

	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64

	kick chan struct{}
}

func NewHub(src Source, defaultLimit int, log zerolog.Logger) *Hub {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Hub{
		src:          src,
		log:          log,
		defaultLimit: defaultLimit,
		subs:         make(map[uint64]*subscriber),
		kick:         make(chan struct{}, 1),
	}
}

// Notify schedules a broadcast. Bursts of calls collapse into one.
func (h *Hub) Notify() {
	select {
	case h.kick <- struct{}{}:
	default:
	}
}

// Subscribe registers fn for snapshots of the newest limit orders. fn runs on
// a goroutine owned by the subscription and only ever sees the latest list;
// snapshots produced while fn is busy are replaced, not queued. The first
// snapshot arrives on the next broadcast, which Subscribe schedules.
//
// The returned func unsubscribes and may be called more than once.
func (h *Hub) Subscribe(limit int, fn func([]models.Order)) func() {
	if limit <= 0 {
		limit = h.defaultLimit
	}
	sub := &subscriber{
		limit: limit,
		fn:    fn,
		ch:    make(chan []models.Order, 1),
		done:  make(chan struct{}),
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	go sub.loop()
	h.Notify()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(sub.done)
		})
	}
}

// Subscribers reports how many subscriptions are live
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Run broadcasts after each Notify until ctx is done
func (h *Hub) Run(ctx context.Context) {
	h.log.Info().Msg("order feed started")
	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("order feed stopped")
			return
		case <-h.kick:
			h.broadcast(ctx)
		}
	}
}

func (h *Hub) broadcast(ctx context.Context) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	widest := 0
	for _, s := range h.subs {
		subs = append(subs, s)
		if s.limit > widest {
			widest = s.limit
		}
	}
	h.mu.Unlock()

	if len(subs) == 0 {
		return
	}

	orders, err := h.src.RecentOrders(ctx, widest)
	if err != nil {
		// subscribers keep their last snapshot until the next change
		h.log.Error().Err(err).Msg("order feed query failed")
		return
	}
	for _, s := range subs {
		n := s.limit
		if n > len(orders) {
			n = len(orders)
		}
		s.offer(orders[:n:n])
	}
}

// offer replaces any undelivered snapshot with list
func (s *subscriber) offer(list []models.Order) {
	for {
		select {
		case <-s.done:
			return
		case s.ch <- list:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

func (s *subscriber) loop() {
	for {
		select {
		case <-s.done:
			return
		case list := <-s.ch:
			select {
			case <-s.done:
				return
			default:
			}
			s.fn(list)
		}
	}
}
