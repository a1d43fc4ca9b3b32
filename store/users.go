package store

import (
	"context"

	"github.com/guptarajStha/restaurant-web/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	return translate("store.CreateUser", "user", u.ID, s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate("store.GetUser", "user", id, err)
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate("store.GetUserByEmail", "user", email, err)
	}
	return &u, nil
}
