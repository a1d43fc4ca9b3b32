package store

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/guptarajStha/restaurant-web/models"
)

// OrderFilter narrows ListOrders. Zero fields are ignored.
type OrderFilter struct {
	Statuses []models.OrderStatus
	TableID  string
	Limit    int
}

// ListOrders returns orders with their lines, newest first
func (s *Store) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Preload("Items")
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.TableID != "" {
		query = query.Where("table_id = ?", filter.TableID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, translate("store.ListOrders", "order", "", err)
	}
	return orders, nil
}

// RecentOrders backs the real-time feed
func (s *Store) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	return s.ListOrders(ctx, OrderFilter{Limit: limit})
}

func (s *Store) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetOrder", "order", id, err)
	}
	return &order, nil
}

// CreateOrderRecord inserts the order and its lines, assigning ids
func (s *Store) CreateOrderRecord(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = newID()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = newID()
		}
		order.Items[i].OrderID = order.ID
	}
	return translate("store.CreateOrderRecord", "order", order.ID, s.db.WithContext(ctx).Create(order).Error)
}

func (s *Store) UpdateOrderRecord(ctx context.Context, id string, patch Patch) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}(patch))
	return affected("store.UpdateOrderRecord", "order", id, res)
}

// DeleteOrderRecord removes the order with its lines and status history
func (s *Store) DeleteOrderRecord(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
			return translate("store.DeleteOrderRecord", "order", id, err)
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderStatusHistory{}).Error; err != nil {
			return translate("store.DeleteOrderRecord", "order", id, err)
		}
		return affected("store.DeleteOrderRecord", "order", id, tx.Where("id = ?", id).Delete(&models.Order{}))
	})
}

func (s *Store) CreateStatusHistory(ctx context.Context, h *models.OrderStatusHistory) error {
	if h.ID == "" {
		h.ID = newID()
	}
	return translate("store.CreateStatusHistory", "order status history", h.ID, s.db.WithContext(ctx).Create(h).Error)
}

// StatusHistory returns an order's status changes, oldest first
func (s *Store) StatusHistory(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	var history []models.OrderStatusHistory
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&history).Error
	if err != nil {
		return nil, translate("store.StatusHistory", "order status history", orderID, err)
	}
	// sqlite orders timestamps as text, which misplaces whole seconds
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.Before(history[j].CreatedAt)
	})
	return history, nil
}
