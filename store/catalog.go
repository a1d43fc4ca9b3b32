package store

import (
	"context"

	"github.com/guptarajStha/restaurant-web/models"
)

// ── Item types ──────────────────────────────────────────────────────────────

func (s *Store) ListItemTypes(ctx context.Context) ([]models.ItemType, error) {
	var types []models.ItemType
	if err := s.db.WithContext(ctx).Order("name asc").Find(&types).Error; err != nil {
		return nil, translate("store.ListItemTypes", "item type", "", err)
	}
	return types, nil
}

func (s *Store) GetItemType(ctx context.Context, id string) (*models.ItemType, error) {
	var t models.ItemType
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetItemType", "item type", id, err)
	}
	return &t, nil
}

func (s *Store) CreateItemType(ctx context.Context, t *models.ItemType) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return translate("store.CreateItemType", "item type", t.ID, s.db.WithContext(ctx).Create(t).Error)
}

func (s *Store) UpdateItemType(ctx context.Context, id string, patch Patch) error {
	res := s.db.WithContext(ctx).Model(&models.ItemType{}).Where("id = ?", id).Updates(map[string]interface{}(patch))
	return affected("store.UpdateItemType", "item type", id, res)
}

func (s *Store) DeleteItemType(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ItemType{})
	return affected("store.DeleteItemType", "item type", id, res)
}

// ── Menu items ──────────────────────────────────────────────────────────────

// ListItems returns menu items with their category name resolved
func (s *Store) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.db.WithContext(ctx).Order("name asc").Find(&items).Error; err != nil {
		return nil, translate("store.ListItems", "item", "", err)
	}
	types, err := s.ListItemTypes(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}
	for i := range items {
		items[i].TypeName = typeName(names, items[i].TypeID)
	}
	return items, nil
}

// GetCatalogItem resolves a menu item by id; NotFound when absent
func (s *Store) GetCatalogItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetCatalogItem", "item", id, err)
	}
	return &item, nil
}

func (s *Store) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == "" {
		item.ID = newID()
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return translate("store.CreateItem", "item", item.ID, err)
	}
	if t, err := s.GetItemType(ctx, item.TypeID); err == nil {
		item.TypeName = t.Name
	} else {
		item.TypeName = models.UnknownTypeName
	}
	return nil
}

func (s *Store) UpdateItem(ctx context.Context, id string, patch Patch) error {
	res := s.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(map[string]interface{}(patch))
	return affected("store.UpdateItem", "item", id, res)
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MenuItem{})
	return affected("store.DeleteItem", "item", id, res)
}

func typeName(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return models.UnknownTypeName
}
