package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/guptarajStha/restaurant-web/models"
	"github.com/guptarajStha/restaurant-web/store/storetest"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func at(day, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

type fakeIncome []Entry

func (f fakeIncome) Income(_ context.Context, from, to time.Time) ([]Entry, error) {
	var out []Entry
	for _, e := range f {
		if within(e.Date, from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeExpenses struct {
	rows []models.Expense
	err  error
}

func (f fakeExpenses) ListExpensesBetween(_ context.Context, from, to time.Time) ([]models.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Expense
	for _, e := range f.rows {
		if within(e.Date, from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func fixture() *Reporter {
	income := fakeIncome{
		{Date: at(15, 10), Amount: dec("300")},
		{Date: at(1, 0), Amount: dec("200")},
		{Date: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), Amount: dec("1000")},
	}
	expenses := fakeExpenses{rows: []models.Expense{
		{Date: at(15, 9), Amount: dec("40"), Category: "Ingredients"},
		{Date: at(15, 20), Amount: dec("5"), Category: "Utilities"},
		{Date: at(2, 12), Amount: dec("100"), Category: "Rent"},
		{Date: time.Date(2026, time.February, 28, 23, 0, 0, 0, time.UTC), Amount: dec("999"), Category: "Rent"},
	}}
	return NewReporter(income, expenses)
}

func TestSummaryWindows(t *testing.T) {
	now := at(15, 14)
	got, err := fixture().Summary(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}

	// the 20:00 expense is still today, but the month only runs up to now
	want := &Summary{
		TodayIncome:      dec("300"),
		TodayExpenses:    dec("45"),
		TodayNetIncome:   dec("255"),
		MonthlyIncome:    dec("500"),
		MonthlyExpenses:  dec("140"),
		MonthlyNetIncome: dec("360"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary (-want +got):\n%s", diff)
	}
}

func TestSummaryUsesCalendarDayNotRolling24h(t *testing.T) {
	r := NewReporter(fakeIncome{
		{Date: at(14, 23), Amount: dec("80")},
		{Date: at(15, 0), Amount: dec("20")},
	}, fakeExpenses{})

	got, err := r.Summary(context.Background(), at(15, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !got.TodayIncome.Equal(dec("20")) {
		t.Errorf("today income = %s, want 20", got.TodayIncome)
	}
	if !got.MonthlyIncome.Equal(dec("100")) {
		t.Errorf("monthly income = %s, want 100", got.MonthlyIncome)
	}
}

func TestSummaryPropagatesErrors(t *testing.T) {
	boom := errors.New("expenses unavailable")
	r := NewReporter(fakeIncome{}, fakeExpenses{err: boom})
	if _, err := r.Summary(context.Background(), at(15, 14)); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestMonthlyBreakdown(t *testing.T) {
	days, err := fixture().MonthlyBreakdown(context.Background(), at(15, 14))
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 31 {
		t.Fatalf("days = %d, want 31", len(days))
	}
	if days[0].Date != "2026-03-01" || days[30].Date != "2026-03-31" {
		t.Errorf("range = %s..%s", days[0].Date, days[30].Date)
	}

	check := func(i int, income, expenses, net string) {
		t.Helper()
		d := days[i]
		if !d.Income.Equal(dec(income)) || !d.Expenses.Equal(dec(expenses)) || !d.NetIncome.Equal(dec(net)) {
			t.Errorf("%s = %s/%s/%s, want %s/%s/%s", d.Date, d.Income, d.Expenses, d.NetIncome, income, expenses, net)
		}
	}
	check(0, "200", "0", "200")
	check(1, "0", "100", "-100")
	check(14, "300", "45", "255")
	check(20, "0", "0", "0")
}

func TestPaidBillIncome(t *testing.T) {
	st := storetest.Open(t)
	ctx := context.Background()
	now := time.Now().UTC()

	bills := []*models.Bill{
		{Total: dec("50"), PaymentStatus: models.PaymentPaid, PaymentMethod: models.PaymentCash, CreatedAt: now.Add(-time.Minute)},
		{Total: dec("70"), PaymentStatus: models.PaymentPending, CreatedAt: now.Add(-time.Minute)},
		{Total: dec("30"), PaymentStatus: models.PaymentPaid, PaymentMethod: models.PaymentCard, CreatedAt: now.AddDate(0, -2, 0)},
	}
	for _, b := range bills {
		b.UpdatedAt = b.CreatedAt
		if err := st.CreateBillRecord(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := PaidBillIncome{Bills: st}.Income(ctx, now.Add(-time.Hour), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || !entries[0].Amount.Equal(dec("50")) {
		t.Fatalf("entries = %+v, want the single paid bill", entries)
	}
}

func TestSummaryOverStoreWithMixedOffsets(t *testing.T) {
	st := storetest.Open(t)
	ctx := context.Background()
	kathmandu := time.FixedZone("NPT", 5*3600+45*60)

	expenses := []*models.Expense{
		// written in UTC, still 1 March in Kathmandu
		{Amount: dec("40"), Category: "Utilities", Date: time.Date(2026, time.March, 1, 1, 0, 0, 0, kathmandu).UTC()},
		// 28 February locally, even though it is sent with the local offset
		{Amount: dec("7"), Category: "Rent", Date: time.Date(2026, time.February, 28, 23, 30, 0, 0, kathmandu)},
		// later today, after now
		{Amount: dec("3"), Category: "Marketing", Date: time.Date(2026, time.March, 1, 22, 0, 0, 0, kathmandu)},
	}
	for _, e := range expenses {
		if err := st.CreateExpense(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	now := time.Date(2026, time.March, 1, 14, 0, 0, 0, kathmandu)
	r := NewReporter(PaidBillIncome{Bills: st}, st)
	got, err := r.Summary(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.TodayExpenses.Equal(dec("43")) {
		t.Errorf("today expenses = %s, want 43", got.TodayExpenses)
	}
	if !got.MonthlyExpenses.Equal(dec("40")) {
		t.Errorf("monthly expenses = %s, want 40", got.MonthlyExpenses)
	}

	days, err := r.MonthlyBreakdown(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if !days[0].Expenses.Equal(dec("43")) {
		t.Errorf("1 March expenses = %s, want 43", days[0].Expenses)
	}
}

func TestSummaryCountsEntryAtNow(t *testing.T) {
	now := at(15, 14)
	r := NewReporter(fakeIncome{{Date: now, Amount: dec("12")}}, fakeExpenses{})

	got, err := r.Summary(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.TodayIncome.Equal(dec("12")) || !got.MonthlyIncome.Equal(dec("12")) {
		t.Errorf("entry at now: today %s, month %s, want 12 for both", got.TodayIncome, got.MonthlyIncome)
	}
}
