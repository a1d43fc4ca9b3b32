package store

import (
	"context"

	"github.com/guptarajStha/restaurant-web/models"
)

// ListBills returns every bill, newest first
func (s *Store) ListBills(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&bills).Error; err != nil {
		return nil, translate("store.ListBills", "bill", "", err)
	}
	return bills, nil
}

func (s *Store) GetBill(ctx context.Context, id string) (*models.Bill, error) {
	var bill models.Bill
	if err := s.db.WithContext(ctx).First(&bill, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetBill", "bill", id, err)
	}
	return &bill, nil
}

func (s *Store) CreateBillRecord(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = newID()
	}
	return translate("store.CreateBillRecord", "bill", bill.ID, s.db.WithContext(ctx).Create(bill).Error)
}

func (s *Store) UpdateBillRecord(ctx context.Context, id string, patch Patch) error {
	res := s.db.WithContext(ctx).Model(&models.Bill{}).Where("id = ?", id).Updates(map[string]interface{}(patch))
	return affected("store.UpdateBillRecord", "bill", id, res)
}

func (s *Store) DeleteBillRecord(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Bill{})
	return affected("store.DeleteBillRecord", "bill", id, res)
}

// BilledOrderIDs collects the ids of every order embedded in any bill,
// paid or pending
func (s *Store) BilledOrderIDs(ctx context.Context) (map[string]string, error) {
	bills, err := s.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	owner := make(map[string]string)
	for _, b := range bills {
		for _, id := range b.OrderIDs() {
			owner[id] = b.ID
		}
	}
	return owner, nil
}
