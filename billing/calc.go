package billing

import (
	"github.com/shopspring/decimal"

	"github.com/guptarajStha/restaurant-web/models"
)

// DefaultTaxRate is applied to the discounted subtotal. Bills carry no tax
// unless a rate is configured.
var DefaultTaxRate = decimal.Zero

var hundred = decimal.NewFromInt(100)

// Subtotal sums the totals of the embedded orders
func Subtotal(orders []models.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Total)
	}
	return sum
}

// Discount holds the resolved absolute discount for a bill
type Discount struct {
	Type    models.DiscountType
	Value   decimal.Decimal // as entered: percent or currency amount
	Percent decimal.Decimal // zero for flat discounts
	Amount  decimal.Decimal
}

// ResolveDiscount validates a discount request and turns it into an absolute
// amount. Flat amounts are capped at the subtotal so totals never go negative.
func ResolveDiscount(subtotal decimal.Decimal, typ models.DiscountType, value decimal.Decimal) (Discount, error) {
	if !value.IsPositive() {
		return Discount{}, ErrDiscountNotPositive
	}
	switch typ {
	case models.DiscountPercentage:
		if value.GreaterThan(hundred) {
			return Discount{}, ErrDiscountOverHundred
		}
		return Discount{
			Type:    typ,
			Value:   value,
			Percent: value,
			Amount:  subtotal.Mul(value).Div(hundred).Round(2),
		}, nil
	case models.DiscountFlat:
		return Discount{
			Type:    typ,
			Value:   value,
			Percent: decimal.Zero,
			Amount:  decimal.Min(value, subtotal),
		}, nil
	default:
		return Discount{}, ErrUnknownDiscountType
	}
}

// Totals is the derived money state of a bill
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
}

// ComputeTotals applies discount then tax: total = subtotal - discount + tax
func ComputeTotals(subtotal, discount, taxRate decimal.Decimal) Totals {
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(taxRate).Round(2)
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Tax:            tax,
		Total:          taxable.Add(tax),
	}
}
