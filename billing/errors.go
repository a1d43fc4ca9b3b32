package billing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guptarajStha/restaurant-web/apperr"
)

var (
	ErrNoOrders             = errors.New("bill needs at least one order")
	ErrOrderAlreadyBilled   = errors.New("order already belongs to a bill")
	ErrDiscountNotPositive  = errors.New("discount must be greater than zero")
	ErrDiscountOverHundred  = errors.New("percentage discount cannot exceed 100")
	ErrUnknownDiscountType  = errors.New("discount type must be percentage or flat")
	ErrBillSettled          = errors.New("bill is already paid")
	ErrUnknownPaymentStatus = errors.New("payment status must be paid or pending")
	ErrPaymentMethod        = errors.New("payment method must be cash, card or online")
	ErrMergeTooFew          = errors.New("merge needs at least two bills")
	ErrMergeNotPending      = errors.New("only pending bills can be merged")
)

// FailedDelete records a source bill the merge could not remove
type FailedDelete struct {
	BillID string
	Err    error
}

// PartialFailureError is returned by MergeBills when the merged bill was
// created but some source bills are still in the store.
type PartialFailureError struct {
	MergedBillID string
	Failed       []FailedDelete
}

func (e *PartialFailureError) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		ids = append(ids, f.BillID)
	}
	return fmt.Sprintf("billing.MergeBills: merged bill %s created but source bills %s were not deleted",
		e.MergedBillID, strings.Join(ids, ", "))
}

func (e *PartialFailureError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}

// ErrorKind implements apperr.Kinded.
func (e *PartialFailureError) ErrorKind() apperr.Kind {
	return apperr.KindPartialFailure
}

// FailedBillIDs lists the sources left behind
func (e *PartialFailureError) FailedBillIDs() []string {
	ids := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		ids = append(ids, f.BillID)
	}
	return ids
}
