package store

import (
	"context"
	"time"

	"github.com/guptarajStha/restaurant-web/models"
)

func (s *Store) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.WithContext(ctx).Order("number asc").Find(&tables).Error; err != nil {
		return nil, translate("store.ListTables", "table", "", err)
	}
	return tables, nil
}

func (s *Store) GetTable(ctx context.Context, id string) (*models.Table, error) {
	var table models.Table
	if err := s.db.WithContext(ctx).First(&table, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetTable", "table", id, err)
	}
	return &table, nil
}

func (s *Store) CreateTable(ctx context.Context, table *models.Table) error {
	if table.ID == "" {
		table.ID = newID()
	}
	if table.Status == "" {
		table.Status = models.TableAvailable
	}
	return translate("store.CreateTable", "table", table.ID, s.db.WithContext(ctx).Create(table).Error)
}

func (s *Store) UpdateTable(ctx context.Context, id string, patch Patch) error {
	res := s.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", id).Updates(map[string]interface{}(patch))
	return affected("store.UpdateTable", "table", id, res)
}

func (s *Store) SetTableStatus(ctx context.Context, id string, status models.TableStatus) error {
	return s.UpdateTable(ctx, id, Patch{"status": status, "updated_at": time.Now()})
}

func (s *Store) DeleteTable(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Table{})
	return affected("store.DeleteTable", "table", id, res)
}
