// Package repositories implements services.Store on gorm.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/services"
)

var _ services.Store = (*Store)(nil)

// Store hands out gorm-backed repositories sharing one *gorm.DB, which is a
// transaction handle inside Transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and seeders.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Categories() services.CategoryRepository {
	return &CategoryRepository{db: s.db}
}

func (s *Store) Products() services.ProductRepository {
	return &ProductRepository{db: s.db}
}

func (s *Store) Orders() services.OrderRepository {
	return &OrderRepository{db: s.db}
}

func (s *Store) DeliveryCharges() services.DeliveryChargeRepository {
	return &DeliveryChargeRepository{db: s.db}
}

func (s *Store) Users() services.UserRepository {
	return &UserRepository{db: s.db}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx services.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// translate maps gorm's not-found error onto services.ErrNotFound.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", services.ErrNotFound, what)
	}
	return err
}
