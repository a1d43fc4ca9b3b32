package store

import (
	"context"
	"time"

	"github.com/guptarajStha/restaurant-web/models"
)

func (s *Store) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	if err := s.db.WithContext(ctx).Order("date desc").Find(&expenses).Error; err != nil {
		return nil, translate("store.ListExpenses", "expense", "", err)
	}
	return expenses, nil
}

// storedDate is the form expense dates are written in. sqlite compares
// timestamps as text, which only follows time order when every value shares
// one offset and one precision.
func storedDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// ListExpensesBetween returns expenses dated within [from, to], both inclusive
func (s *Store) ListExpensesBetween(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	var rows []models.Expense
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?", storedDate(from), storedDate(to).Add(time.Second)).
		Order("date desc").
		Find(&rows).Error
	if err != nil {
		return nil, translate("store.ListExpensesBetween", "expense", "", err)
	}

	// the query works on whole seconds
	expenses := rows[:0]
	for _, e := range rows {
		if !e.Date.Before(from) && !e.Date.After(to) {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}

func (s *Store) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	var e models.Expense
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetExpense", "expense", id, err)
	}
	return &e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = newID()
	}
	e.Date = storedDate(e.Date)
	return translate("store.CreateExpense", "expense", e.ID, s.db.WithContext(ctx).Create(e).Error)
}

func (s *Store) UpdateExpense(ctx context.Context, id string, patch Patch) error {
	if d, ok := patch["date"].(time.Time); ok {
		patch["date"] = storedDate(d)
	}
	res := s.db.WithContext(ctx).Model(&models.Expense{}).Where("id = ?", id).Updates(map[string]interface{}(patch))
	return affected("store.UpdateExpense", "expense", id, res)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Expense{})
	return affected("store.DeleteExpense", "expense", id, res)
}
