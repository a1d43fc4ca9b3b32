// Package storetest opens throwaway in-memory stores for tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/guptarajStha/restaurant-web/config"
	"github.com/guptarajStha/restaurant-web/models"
	"github.com/guptarajStha/restaurant-web/store"
)

// Open returns a migrated store backed by a private in-memory database
func Open(t testing.TB) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every new connection would see a fresh :memory: database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store.New(db)
}

func Table(t testing.TB, s *store.Store, number int) *models.Table {
	t.Helper()
	table := &models.Table{Number: number, Capacity: 4, Status: models.TableAvailable}
	if err := s.CreateTable(context.Background(), table); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return table
}

func Item(t testing.TB, s *store.Store, name, price string) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{Name: name, Price: decimal.RequireFromString(price), Available: true}
	if err := s.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}

// Order writes an order record directly with a single line totalling total
func Order(t testing.TB, s *store.Store, table *models.Table, status models.OrderStatus, total string) *models.Order {
	t.Helper()
	price := decimal.RequireFromString(total)
	now := time.Now()
	order := &models.Order{
		TableID:   table.ID,
		TableName: table.DisplayName(),
		Status:    status,
		Items: []models.OrderLine{
			{ItemID: "seed-item", ItemName: "Seed", Quantity: 1, UnitPrice: price},
		},
		Total:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateOrderRecord(context.Background(), order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}
