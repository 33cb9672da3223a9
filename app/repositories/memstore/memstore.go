// Package memstore is an in-memory services.Store for tests and local
// tooling. It enforces the same unique keys as the SQL schema and rolls a
// failed transaction back by restoring a snapshot.
package memstore

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/services"
)

// ErrDuplicate is returned when a write violates a unique key.
var ErrDuplicate = errors.New("memstore: duplicate key")

type tables struct {
	seq         map[string]uint
	categories  map[uint]models.Category
	products    map[uint]models.Product
	productCats map[uint][]uint
	images      map[uint]models.ProductImage
	variations  map[uint]models.ProductVariation
	orders      map[uint]models.Order
	charges     map[uint]models.DeliveryCharge
	users       map[uint]models.User
}

func newTables() *tables {
	return &tables{
		seq:         make(map[string]uint),
		categories:  make(map[uint]models.Category),
		products:    make(map[uint]models.Product),
		productCats: make(map[uint][]uint),
		images:      make(map[uint]models.ProductImage),
		variations:  make(map[uint]models.ProductVariation),
		orders:      make(map[uint]models.Order),
		charges:     make(map[uint]models.DeliveryCharge),
		users:       make(map[uint]models.User),
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		seq:         maps.Clone(t.seq),
		categories:  maps.Clone(t.categories),
		products:    maps.Clone(t.products),
		productCats: make(map[uint][]uint, len(t.productCats)),
		images:      maps.Clone(t.images),
		variations:  maps.Clone(t.variations),
		orders:      maps.Clone(t.orders),
		charges:     maps.Clone(t.charges),
		users:       maps.Clone(t.users),
	}
	for k, v := range t.productCats {
		c.productCats[k] = append([]uint(nil), v...)
	}
	return c
}

// nextID hands out ids per table, like an auto-increment column.
func (t *tables) nextID(table string) uint {
	t.seq[table]++
	return t.seq[table]
}

var _ services.Store = (*Store)(nil)

// Store implements services.Store. The zero value is not usable; call New.
type Store struct {
	mu   *sync.Mutex
	db   *tables
	inTx bool
}

func New() *Store {
	return &Store{mu: &sync.Mutex{}, db: newTables()}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Categories() services.CategoryRepository           { return categoryRepo{s} }
func (s *Store) Products() services.ProductRepository              { return productRepo{s} }
func (s *Store) Orders() services.OrderRepository                  { return orderRepo{s} }
func (s *Store) DeliveryCharges() services.DeliveryChargeRepository { return chargeRepo{s} }
func (s *Store) Users() services.UserRepository                    { return userRepo{s} }

// Transaction holds the store lock for the duration of fn. Nested calls
// join the outer transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx services.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.db.clone()
	tx := &Store{mu: s.mu, db: s.db, inTx: true}
	if err := fn(tx); err != nil {
		*s.db = *snapshot
		return err
	}
	return nil
}

func notFound(what string) error {
	return errors.Join(services.ErrNotFound, errors.New("memstore: "+what))
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyUint(p *uint) *uint {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyCategory(c models.Category) models.Category {
	c.Name = copyString(c.Name)
	c.ParentID = copyUint(c.ParentID)
	c.Children = nil
	return c
}

func sortedIDs[T any](m map[uint]T, keep func(T) bool) []uint {
	ids := make([]uint, 0, len(m))
	for id, v := range m {
		if keep == nil || keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func touch(created, updated *time.Time) {
	now := time.Now()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}
