package memstore

import (
	"context"
	"slices"
	"sort"

	"github.com/shashiranjanraj/storefront/app/models"
)

type orderRepo struct{ s *Store }

func (r orderRepo) hydrate(o models.Order) models.Order {
	o.ItemsJSON = slices.Clone(o.ItemsJSON)
	o.IdempotencyKey = copyString(o.IdempotencyKey)
	o.BkashTrxID = copyString(o.BkashTrxID)
	if c, ok := r.s.db.charges[o.DeliveryChargeID]; ok {
		o.DeliveryCharge = c
	}
	return o
}

func (r orderRepo) Create(_ context.Context, o *models.Order) error {
	defer r.s.lock()()
	if _, ok := r.s.db.charges[o.DeliveryChargeID]; !ok {
		return notFound("delivery charge")
	}
	for _, other := range r.s.db.orders {
		if o.IdempotencyKey != nil && other.IdempotencyKey != nil && *o.IdempotencyKey == *other.IdempotencyKey {
			return ErrDuplicate
		}
		if o.BkashTrxID != nil && other.BkashTrxID != nil && *o.BkashTrxID == *other.BkashTrxID {
			return ErrDuplicate
		}
	}
	o.ID = r.s.db.nextID("orders")
	touch(&o.CreatedAt, &o.UpdatedAt)

	row := *o
	row.ItemsJSON = slices.Clone(o.ItemsJSON)
	row.IdempotencyKey = copyString(o.IdempotencyKey)
	row.BkashTrxID = copyString(o.BkashTrxID)
	row.DeliveryCharge = models.DeliveryCharge{}
	r.s.db.orders[o.ID] = row
	return nil
}

func (r orderRepo) FindByID(_ context.Context, id uint) (*models.Order, error) {
	defer r.s.lock()()
	o, ok := r.s.db.orders[id]
	if !ok {
		return nil, notFound("order")
	}
	o = r.hydrate(o)
	return &o, nil
}

func (r orderRepo) FindByIdempotencyKey(_ context.Context, key string) (*models.Order, error) {
	defer r.s.lock()()
	for _, o := range r.s.db.orders {
		if o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			o = r.hydrate(o)
			return &o, nil
		}
	}
	return nil, notFound("order")
}

func (r orderRepo) ByPhone(_ context.Context, phone string) ([]models.Order, error) {
	defer r.s.lock()()
	out := []models.Order{}
	for _, o := range r.s.db.orders {
		if o.CustomerPhone == phone {
			out = append(out, r.hydrate(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type chargeRepo struct{ s *Store }

func (r chargeRepo) All(_ context.Context) ([]models.DeliveryCharge, error) {
	defer r.s.lock()()
	out := []models.DeliveryCharge{}
	for _, c := range r.s.db.charges {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zone < out[j].Zone })
	return out, nil
}

func (r chargeRepo) FindByZone(_ context.Context, zone string) (*models.DeliveryCharge, error) {
	defer r.s.lock()()
	for _, c := range r.s.db.charges {
		if c.Zone == zone {
			return &c, nil
		}
	}
	return nil, notFound("delivery charge")
}

func (r chargeRepo) Save(_ context.Context, d *models.DeliveryCharge) error {
	defer r.s.lock()()
	for id, other := range r.s.db.charges {
		if id != d.ID && other.Zone == d.Zone {
			return ErrDuplicate
		}
	}
	if d.ID == 0 {
		d.ID = r.s.db.nextID("charges")
	}
	r.s.db.charges[d.ID] = *d
	return nil
}

type userRepo struct{ s *Store }

func (r userRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.db.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (r userRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.db.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

func (r userRepo) Create(_ context.Context, u *models.User) error {
	defer r.s.lock()()
	for _, other := range r.s.db.users {
		if other.Username == u.Username {
			return ErrDuplicate
		}
	}
	u.ID = r.s.db.nextID("users")
	touch(&u.CreatedAt, &u.UpdatedAt)
	r.s.db.users[u.ID] = *u
	return nil
}
