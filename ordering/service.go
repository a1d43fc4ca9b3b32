package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/guptarajStha/restaurant-web/apperr"
	"github.com/guptarajStha/restaurant-web/models"
	"github.com/guptarajStha/restaurant-web/statemachine"
	"github.com/guptarajStha/restaurant-web/store"
)

var (
	ErrNoLines         = errors.New("order needs at least one line")
	ErrBadQuantity     = errors.New("quantity must be positive")
	ErrNothingResolved = errors.New("none of the order lines matched a menu item")
	ErrUnknownStatus   = errors.New("unknown order status")
	ErrMissingTableID  = errors.New("table id is required")
)

// Store is the slice of persistence the aggregator needs
type Store interface {
	GetTable(ctx context.Context, id string) (*models.Table, error)
	SetTableStatus(ctx context.Context, id string, status models.TableStatus) error
	GetCatalogItem(ctx context.Context, id string) (*models.MenuItem, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error)
	CreateOrderRecord(ctx context.Context, order *models.Order) error
	UpdateOrderRecord(ctx context.Context, id string, patch store.Patch) error
	DeleteOrderRecord(ctx context.Context, id string) error
	CreateStatusHistory(ctx context.Context, h *models.OrderStatusHistory) error
	StatusHistory(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error)
	BilledOrderIDs(ctx context.Context) (map[string]string, error)
	Tx(ctx context.Context, fn func(Store) error) error
}

// FromStore adapts the gorm store, binding transactions to the same interface
func FromStore(s *store.Store) Store {
	return gormStore{s}
}

type gormStore struct {
	*store.Store
}

func (g gormStore) Tx(ctx context.Context, fn func(Store) error) error {
	return g.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormStore{tx})
	})
}

// Notifier is told whenever the order set changes
type Notifier interface {
	Notify()
}

type nopNotifier struct{}

func (nopNotifier) Notify() {}

type LineInput struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type CreateOrderInput struct {
	TableID  string      `json:"table_id"`
	Lines    []LineInput `json:"items"`
	PlacedBy string      `json:"-"` // staff user id
}

// StatusChange is one requested status move and who asked for it
type StatusChange struct {
	Status    models.OrderStatus
	Note      string
	ChangedBy string // staff user id
}

// Service turns menu selections into priced order snapshots
type Service struct {
	store Store
	feed  Notifier
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(s Store, feed Notifier, log zerolog.Logger) *Service {
	if feed == nil {
		feed = nopNotifier{}
	}
	return &Service{store: s, feed: feed, log: log, now: time.Now}
}

// CreateOrder snapshots each line's item name and price from the catalog.
// Lines whose item cannot be found are dropped, not rejected.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	const op = "ordering.CreateOrder"

	if in.TableID == "" {
		return nil, apperr.Validation(op, ErrMissingTableID.Error(), ErrMissingTableID)
	}
	if len(in.Lines) == 0 {
		return nil, apperr.Validation(op, ErrNoLines.Error(), ErrNoLines)
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, apperr.Validation(op, "item "+l.ItemID+": "+ErrBadQuantity.Error(), ErrBadQuantity)
		}
	}

	table, err := s.store.GetTable(ctx, in.TableID)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		item, err := s.store.GetCatalogItem(ctx, l.ItemID)
		if apperr.Is(err, apperr.KindNotFound) {
			s.log.Debug().Str("item_id", l.ItemID).Msg("dropping order line for unknown item")
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.OrderLine{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  l.Quantity,
			UnitPrice: item.Price,
		})
	}
	if len(lines) == 0 {
		return nil, apperr.Validation(op, ErrNothingResolved.Error(), ErrNothingResolved)
	}

	now := s.now()
	order := &models.Order{
		TableID:   table.ID,
		TableName: table.DisplayName(),
		Status:    models.StatusPending,
		Items:     lines,
		Total:     models.LinesTotal(lines),
		CreatedAt: now,
		UpdatedAt: now,
	}

	placed := models.OrderStatusHistory{
		ToStatus:  models.StatusPending,
		ChangedBy: in.PlacedBy,
		Note:      "order placed",
		CreatedAt: now,
	}
	err = s.store.Tx(ctx, func(tx Store) error {
		if err := tx.CreateOrderRecord(ctx, order); err != nil {
			return err
		}
		placed.OrderID = order.ID
		if err := tx.CreateStatusHistory(ctx, &placed); err != nil {
			return err
		}
		return tx.SetTableStatus(ctx, table.ID, models.TableOccupied)
	})
	if err != nil {
		return nil, err
	}
	order.History = []models.OrderStatusHistory{placed}

	s.log.Info().Str("order_id", order.ID).Str("table", order.TableName).
		Str("total", order.Total.StringFixed(2)).Int("lines", len(lines)).Msg("order created")
	s.feed.Notify()
	return order, nil
}

// UpdateOrderStatus moves an order to any known status and appends the move
// to its history in the same transaction
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, change StatusChange) (*models.Order, error) {
	const op = "ordering.UpdateOrderStatus"

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := statemachine.CanTransition(order.Status, change.Status); err != nil {
		return nil, apperr.Validation(op, err.Error(), ErrUnknownStatus)
	}

	now := s.now()
	entry := models.OrderStatusHistory{
		OrderID:    id,
		FromStatus: order.Status,
		ToStatus:   change.Status,
		ChangedBy:  change.ChangedBy,
		Note:       change.Note,
		CreatedAt:  now,
	}
	err = s.store.Tx(ctx, func(tx Store) error {
		if err := tx.UpdateOrderRecord(ctx, id, store.Patch{"status": change.Status, "updated_at": now}); err != nil {
			return err
		}
		return tx.CreateStatusHistory(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}
	order.Status = change.Status
	order.UpdatedAt = now
	if order.History, err = s.store.StatusHistory(ctx, id); err != nil {
		return nil, err
	}

	s.log.Info().Str("order_id", id).Str("from", string(entry.FromStatus)).Str("to", string(entry.ToStatus)).
		Str("changed_by", entry.ChangedBy).Msg("order status updated")
	s.feed.Notify()
	return order, nil
}

// DeleteOrder hard-deletes an order. Bills that already embed it keep their
// snapshot.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	if err := s.store.DeleteOrderRecord(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("order_id", id).Msg("order deleted")
	s.feed.Notify()
	return nil
}

// GetOrder returns the order with its status history
func (s *Service) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.History, err = s.store.StatusHistory(ctx, id); err != nil {
		return nil, err
	}
	return order, nil
}

// ListFilter is the query surface of the order list screen
type ListFilter struct {
	Status  models.OrderStatus
	TableID string
	Tab     string // "", "all", "active", "completed"
	Limit   int
}

func (s *Service) ListOrders(ctx context.Context, f ListFilter) ([]models.Order, error) {
	const op = "ordering.ListOrders"

	statuses := statemachine.Statuses()
	if f.Status != "" {
		if !statemachine.IsValid(f.Status) {
			return nil, apperr.Validation(op, "unknown status "+string(f.Status), ErrUnknownStatus)
		}
		statuses = []models.OrderStatus{f.Status}
	}

	switch f.Tab {
	case "", "all":
	case "active":
		statuses = keepStatuses(statuses, statemachine.Active)
	case "completed":
		statuses = keepStatuses(statuses, statemachine.Completed)
	default:
		return nil, apperr.Validation(op, "unknown tab "+f.Tab, nil)
	}
	if len(statuses) == 0 {
		return []models.Order{}, nil
	}

	filter := store.OrderFilter{TableID: f.TableID, Limit: f.Limit}
	if len(statuses) < len(statemachine.Statuses()) {
		filter.Statuses = statuses
	}
	return s.store.ListOrders(ctx, filter)
}

// AvailableToBill lists ready or delivered orders that no bill embeds yet
func (s *Service) AvailableToBill(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{
		Statuses: []models.OrderStatus{models.StatusReady, models.StatusDelivered},
	})
	if err != nil {
		return nil, err
	}
	billed, err := s.store.BilledOrderIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if _, taken := billed[o.ID]; !taken && statemachine.Billable(o.Status) {
			out = append(out, o)
		}
	}
	return out, nil
}

func keepStatuses(in []models.OrderStatus, keep func(models.OrderStatus) bool) []models.OrderStatus {
	out := make([]models.OrderStatus, 0, len(in))
	for _, st := range in {
		if keep(st) {
			out = append(out, st)
		}
	}
	return out
}
