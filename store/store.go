package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/guptarajStha/restaurant-web/apperr"
)

// Store is the gorm-backed persistence layer. One flat table per entity,
// no joins: names are denormalized onto orders and bills when written.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and health checks
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithTx runs fn against a Store bound to a single transaction
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Patch is a column → value map for partial updates
type Patch map[string]interface{}

func newID() string {
	return uuid.NewString()
}

// translate maps gorm failures onto the error taxonomy
func translate(op, what, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(op, what, id)
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Store(op, err)
}

// affected turns a zero-row write into NotFound
func affected(op, what, id string, res *gorm.DB) error {
	if res.Error != nil {
		return apperr.Store(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(op, what, id)
	}
	return nil
}

// Count returns the number of rows for model, e.g. &models.Table{}
func (s *Store) Count(ctx context.Context, model interface{}) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		return 0, apperr.Store("store.Count", err)
	}
	return n, nil
}
