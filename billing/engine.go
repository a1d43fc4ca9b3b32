package billing

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/guptarajStha/restaurant-web/apperr"
	"github.com/guptarajStha/restaurant-web/models"
	"github.com/guptarajStha/restaurant-web/store"
)

// Store is the persistence the bill engine depends on
type Store interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	SetTableStatus(ctx context.Context, id string, status models.TableStatus) error
	GetBill(ctx context.Context, id string) (*models.Bill, error)
	ListBills(ctx context.Context) ([]models.Bill, error)
	CreateBillRecord(ctx context.Context, bill *models.Bill) error
	UpdateBillRecord(ctx context.Context, id string, patch store.Patch) error
	DeleteBillRecord(ctx context.Context, id string) error
	BilledOrderIDs(ctx context.Context) (map[string]string, error)
	Tx(ctx context.Context, fn func(Store) error) error
}

// FromStore adapts the gorm store to Store
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

// TableRelease says when tables go back to available
type TableRelease string

const (
	ReleaseOnBill    TableRelease = "bill"
	ReleaseOnPayment TableRelease = "payment"
)

type Options struct {
	TaxRate             decimal.Decimal
	ReleaseTablesOn     TableRelease
	MergeDeleteAttempts int
	RetryDelay          time.Duration
}

func DefaultOptions() Options {
	return Options{
		TaxRate:             DefaultTaxRate,
		ReleaseTablesOn:     ReleaseOnBill,
		MergeDeleteAttempts: 3,
		RetryDelay:          100 * time.Millisecond,
	}
}

// Engine creates, discounts, settles and merges bills
type Engine struct {
	store Store
	opts  Options
	log   zerolog.Logger
	now   func() time.Time
}

func NewEngine(s Store, opts Options, log zerolog.Logger) *Engine {
	if opts.MergeDeleteAttempts < 1 {
		opts.MergeDeleteAttempts = 1
	}
	if opts.ReleaseTablesOn == "" {
		opts.ReleaseTablesOn = ReleaseOnBill
	}
	return &Engine{store: s, opts: opts, log: log, now: time.Now}
}

type CreateBillInput struct {
	OrderIDs      []string
	CustomerName  string
	CustomerPhone string
}

// CreateBill embeds snapshots of the given orders into a new pending bill.
// An order that already sits in any bill, paid or not, is rejected.
func (e *Engine) CreateBill(ctx context.Context, in CreateBillInput) (*models.Bill, error) {
	const op = "billing.CreateBill"

	ids := dedupe(in.OrderIDs)
	if len(ids) == 0 {
		return nil, apperr.Validation(op, ErrNoOrders.Error(), ErrNoOrders)
	}

	billed, err := e.store.BilledOrderIDs(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		order, err := e.store.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		if owner, taken := billed[id]; taken {
			return nil, apperr.Validation(op, "order "+id+" is already in bill "+owner, ErrOrderAlreadyBilled)
		}
		orders = append(orders, *order)
	}

	bill := e.newBill(orders, in.CustomerName, in.CustomerPhone)
	err = e.store.Tx(ctx, func(tx Store) error {
		if err := tx.CreateBillRecord(ctx, bill); err != nil {
			return err
		}
		if e.opts.ReleaseTablesOn == ReleaseOnBill {
			return releaseTables(ctx, tx, orders)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().Str("bill_id", bill.ID).Int("orders", len(orders)).
		Str("total", bill.Total.StringFixed(2)).Msg("bill created")
	return bill, nil
}

func (e *Engine) newBill(orders []models.Order, name, phone string) *models.Bill {
	now := e.now()
	subtotal := Subtotal(orders)
	totals := ComputeTotals(subtotal, decimal.Zero, e.opts.TaxRate)
	return &models.Bill{
		Orders:          orders,
		CustomerName:    name,
		CustomerPhone:   phone,
		Subtotal:        totals.Subtotal,
		DiscountType:    models.DiscountNone,
		DiscountValue:   decimal.Zero,
		DiscountPercent: decimal.Zero,
		DiscountAmount:  totals.DiscountAmount,
		Tax:             totals.Tax,
		Total:           totals.Total,
		PaymentStatus:   models.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// releaseTables frees the table of every embedded order. Tables deleted since
// the order was placed are skipped.
func releaseTables(ctx context.Context, s Store, orders []models.Order) error {
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		if o.TableID == "" || seen[o.TableID] {
			continue
		}
		seen[o.TableID] = true
		err := s.SetTableStatus(ctx, o.TableID, models.TableAvailable)
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return err
		}
	}
	return nil
}

type DiscountInput struct {
	Type  models.DiscountType
	Value decimal.Decimal
}

// ApplyDiscount replaces whatever discount the bill had and recomputes totals
func (e *Engine) ApplyDiscount(ctx context.Context, id string, in DiscountInput) (*models.Bill, error) {
	const op = "billing.ApplyDiscount"

	bill, err := e.store.GetBill(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill.Settled() {
		return nil, apperr.Validation(op, ErrBillSettled.Error(), ErrBillSettled)
	}

	subtotal := Subtotal(bill.Orders)
	d, err := ResolveDiscount(subtotal, in.Type, in.Value)
	if err != nil {
		return nil, apperr.Validation(op, err.Error(), err)
	}
	totals := ComputeTotals(subtotal, d.Amount, e.opts.TaxRate)

	now := e.now()
	patch := store.Patch{
		"subtotal":         totals.Subtotal,
		"discount_type":    d.Type,
		"discount_value":   d.Value,
		"discount_percent": d.Percent,
		"discount_amount":  totals.DiscountAmount,
		"tax":              totals.Tax,
		"total":            totals.Total,
		"updated_at":       now,
	}
	if err := e.store.UpdateBillRecord(ctx, id, patch); err != nil {
		return nil, err
	}

	bill.Subtotal = totals.Subtotal
	bill.DiscountType = d.Type
	bill.DiscountValue = d.Value
	bill.DiscountPercent = d.Percent
	bill.DiscountAmount = totals.DiscountAmount
	bill.Tax = totals.Tax
	bill.Total = totals.Total
	bill.UpdatedAt = now

	e.log.Info().Str("bill_id", id).Str("type", string(d.Type)).
		Str("amount", d.Amount.StringFixed(2)).Str("total", bill.Total.StringFixed(2)).Msg("discount applied")
	return bill, nil
}

// UpdatePaymentStatus marks a bill paid or back to pending. Moving to pending
// keeps the recorded method. Repeating the current state changes nothing.
func (e *Engine) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, method models.PaymentMethod) (*models.Bill, error) {
	const op = "billing.UpdatePaymentStatus"

	switch status {
	case models.PaymentPaid:
		if !method.Valid() {
			return nil, apperr.Validation(op, ErrPaymentMethod.Error(), ErrPaymentMethod)
		}
	case models.PaymentPending:
		if method != "" && !method.Valid() {
			return nil, apperr.Validation(op, ErrPaymentMethod.Error(), ErrPaymentMethod)
		}
	default:
		return nil, apperr.Validation(op, ErrUnknownPaymentStatus.Error(), ErrUnknownPaymentStatus)
	}

	bill, err := e.store.GetBill(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := store.Patch{}
	if bill.PaymentStatus != status {
		patch["payment_status"] = status
	}
	if status == models.PaymentPaid && bill.PaymentMethod != method {
		patch["payment_method"] = method
	}
	if len(patch) == 0 {
		return bill, nil
	}

	now := e.now()
	patch["updated_at"] = now
	releasing := status == models.PaymentPaid && !bill.Settled() && e.opts.ReleaseTablesOn == ReleaseOnPayment

	err = e.store.Tx(ctx, func(tx Store) error {
		if err := tx.UpdateBillRecord(ctx, id, patch); err != nil {
			return err
		}
		if releasing {
			return releaseTables(ctx, tx, bill.Orders)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bill.PaymentStatus = status
	if status == models.PaymentPaid {
		bill.PaymentMethod = method
	}
	bill.UpdatedAt = now

	e.log.Info().Str("bill_id", id).Str("status", string(status)).
		Str("method", string(bill.PaymentMethod)).Msg("payment status updated")
	return bill, nil
}

// MergeBills folds pending bills into a fresh bill and deletes the sources.
// Customer details come from the first id. Discounts and payment state of the
// sources are not carried over.
//
// The merged bill is created before any source is deleted. Sources that
// still cannot be deleted after retrying are reported in a
// *PartialFailureError, returned alongside the merged bill.
func (e *Engine) MergeBills(ctx context.Context, ids []string) (*models.Bill, error) {
	const op = "billing.MergeBills"

	ids = dedupe(ids)
	if len(ids) < 2 {
		return nil, apperr.Validation(op, ErrMergeTooFew.Error(), ErrMergeTooFew)
	}

	sources := make([]*models.Bill, 0, len(ids))
	for _, id := range ids {
		b, err := e.store.GetBill(ctx, id)
		if err != nil {
			return nil, err
		}
		if b.PaymentStatus != models.PaymentPending {
			return nil, apperr.Validation(op, "bill "+id+": "+ErrMergeNotPending.Error(), ErrMergeNotPending)
		}
		sources = append(sources, b)
	}

	var orders []models.Order
	for _, b := range sources {
		orders = append(orders, b.Orders...)
	}
	merged := e.newBill(orders, sources[0].CustomerName, sources[0].CustomerPhone)
	if err := e.store.CreateBillRecord(ctx, merged); err != nil {
		return nil, err
	}
	e.log.Info().Str("bill_id", merged.ID).Strs("sources", ids).
		Str("total", merged.Total.StringFixed(2)).Msg("bills merged")

	var failed []FailedDelete
	for _, b := range sources {
		if err := e.deleteWithRetry(ctx, b.ID); err != nil {
			e.log.Error().Err(err).Str("bill_id", b.ID).Str("merged_id", merged.ID).
				Msg("source bill left behind after merge")
			failed = append(failed, FailedDelete{BillID: b.ID, Err: err})
		}
	}
	if len(failed) > 0 {
		return merged, &PartialFailureError{MergedBillID: merged.ID, Failed: failed}
	}
	return merged, nil
}

func (e *Engine) deleteWithRetry(ctx context.Context, id string) error {
	var err error
	for attempt := 1; attempt <= e.opts.MergeDeleteAttempts; attempt++ {
		err = e.store.DeleteBillRecord(ctx, id)
		if err == nil || apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		if attempt == e.opts.MergeDeleteAttempts {
			break
		}
		e.log.Warn().Err(err).Str("bill_id", id).Int("attempt", attempt).Msg("retrying bill delete")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.opts.RetryDelay):
		}
	}
	return err
}

func (e *Engine) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	return e.store.GetBill(ctx, id)
}

// ListBills returns all bills, newest first
func (e *Engine) ListBills(ctx context.Context) ([]models.Bill, error) {
	return e.store.ListBills(ctx)
}

// DeleteBill removes a bill. Its orders become available to bill again.
func (e *Engine) DeleteBill(ctx context.Context, id string) error {
	if err := e.store.DeleteBillRecord(ctx, id); err != nil {
		return err
	}
	e.log.Info().Str("bill_id", id).Msg("bill deleted")
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
