// Package finance reports income against expenses for the dashboard.
package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/guptarajStha/restaurant-web/models"
)

// Entry is one dated amount of income or expense
type Entry struct {
	Date   time.Time
	Amount decimal.Decimal
}

// IncomeProvider yields income entries dated within [from, to]
type IncomeProvider interface {
	Income(ctx context.Context, from, to time.Time) ([]Entry, error)
}

// ExpenseSource is the expense lookup the reports need
type ExpenseSource interface {
	ListExpensesBetween(ctx context.Context, from, to time.Time) ([]models.Expense, error)
}

type BillLister interface {
	ListBills(ctx context.Context) ([]models.Bill, error)
}

// PaidBillIncome counts the total of every paid bill, dated by when the bill
// was created.
type PaidBillIncome struct {
	Bills BillLister
}

func (p PaidBillIncome) Income(ctx context.Context, from, to time.Time) ([]Entry, error) {
	bills, err := p.Bills.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, b := range bills {
		if b.PaymentStatus != models.PaymentPaid || !within(b.CreatedAt, from, to) {
			continue
		}
		out = append(out, Entry{Date: b.CreatedAt, Amount: b.Total})
	}
	return out, nil
}

type Summary struct {
	TodayIncome      decimal.Decimal `json:"today_income"`
	TodayExpenses    decimal.Decimal `json:"today_expenses"`
	TodayNetIncome   decimal.Decimal `json:"today_net_income"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses  decimal.Decimal `json:"monthly_expenses"`
	MonthlyNetIncome decimal.Decimal `json:"monthly_net_income"`
}

type DailyFinancial struct {
	Date      string          `json:"date"`
	Income    decimal.Decimal `json:"income"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetIncome decimal.Decimal `json:"net_income"`
}

type Reporter struct {
	income   IncomeProvider
	expenses ExpenseSource
}

func NewReporter(income IncomeProvider, expenses ExpenseSource) *Reporter {
	return &Reporter{income: income, expenses: expenses}
}

// Summary totals today and month-to-date in now's location. Today is the
// calendar day of now. The month runs from the first at midnight up to now,
// not to the end of the month.
func (r *Reporter) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	dayStart := startOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	monthStart := startOfMonth(now)

	income, expenses, err := r.fetch(ctx, monthStart, dayEnd)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		TodayIncome:     decimal.Zero,
		TodayExpenses:   decimal.Zero,
		MonthlyIncome:   decimal.Zero,
		MonthlyExpenses: decimal.Zero,
	}
	for _, e := range income {
		if sameDay(e.Date, now) {
			s.TodayIncome = s.TodayIncome.Add(e.Amount)
		}
		if within(e.Date, monthStart, now) {
			s.MonthlyIncome = s.MonthlyIncome.Add(e.Amount)
		}
	}
	for _, e := range expenses {
		if sameDay(e.Date, now) {
			s.TodayExpenses = s.TodayExpenses.Add(e.Amount)
		}
		if within(e.Date, monthStart, now) {
			s.MonthlyExpenses = s.MonthlyExpenses.Add(e.Amount)
		}
	}
	s.TodayNetIncome = s.TodayIncome.Sub(s.TodayExpenses)
	s.MonthlyNetIncome = s.MonthlyIncome.Sub(s.MonthlyExpenses)
	return s, nil
}

// MonthlyBreakdown returns one row for every day of now's month, in date
// order, including days that have not happened yet.
func (r *Reporter) MonthlyBreakdown(ctx context.Context, now time.Time) ([]DailyFinancial, error) {
	first := startOfMonth(now)
	next := first.AddDate(0, 1, 0)

	income, expenses, err := r.fetch(ctx, first, next.Add(-time.Nanosecond))
	if err != nil {
		return nil, err
	}

	days := make([]DailyFinancial, 0, 31)
	index := make(map[string]int, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		index[key] = len(days)
		days = append(days, DailyFinancial{
			Date:      key,
			Income:    decimal.Zero,
			Expenses:  decimal.Zero,
			NetIncome: decimal.Zero,
		})
	}

	for _, e := range income {
		if i, ok := index[e.Date.In(now.Location()).Format("2006-01-02")]; ok {
			days[i].Income = days[i].Income.Add(e.Amount)
		}
	}
	for _, e := range expenses {
		if i, ok := index[e.Date.In(now.Location()).Format("2006-01-02")]; ok {
			days[i].Expenses = days[i].Expenses.Add(e.Amount)
		}
	}
	for i := range days {
		days[i].NetIncome = days[i].Income.Sub(days[i].Expenses)
	}
	return days, nil
}

// fetch loads income and expenses for [from, to] concurrently
func (r *Reporter) fetch(ctx context.Context, from, to time.Time) ([]Entry, []Entry, error) {
	var income, expenses []Entry

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := r.income.Income(ctx, from, to)
		if err != nil {
			return err
		}
		income = entries
		return nil
	})
	g.Go(func() error {
		rows, err := r.expenses.ListExpensesBetween(ctx, from, to)
		if err != nil {
			return err
		}
		expenses = make([]Entry, 0, len(rows))
		for _, e := range rows {
			expenses = append(expenses, Entry{Date: e.Date, Amount: e.Amount})
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return income, expenses, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// sameDay compares calendar dates in ref's location
func sameDay(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
