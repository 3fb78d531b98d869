// Package repotest provides in-memory repositories for tests. Owned-record
// stores apply repository.OwnerFilter.Matches, the same rule the SQL
// predicate encodes.
package repotest

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"invoice_server/internal/model"
	"invoice_server/internal/repository"

	"github.com/google/uuid"
)

// clock hands out strictly increasing timestamps so ordering is stable.
type clock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(c.last) {
		now = c.last.Add(time.Millisecond)
	}
	c.last = now
	return now
}

type Users struct {
	mu   sync.Mutex
	clk  clock
	byID map[string]model.User
	Err  error
}

func NewUsers() *Users {
	return &Users{byID: map[string]model.User{}}
}

func (r *Users) Create(ctx context.Context, u *model.User) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return errors.New("duplicate email")
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = r.clk.next()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = *u
	return nil
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) FindByID(ctx context.Context, id string) (*model.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *Users) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.clk.next()
	r.byID[id] = u
	return nil
}

type Products struct {
	mu   sync.Mutex
	clk  clock
	byID map[string]model.Product
}

func NewProducts() *Products {
	return &Products{byID: map[string]model.Product{}}
}

func (r *Products) Create(ctx context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = r.clk.next()
	p.UpdatedAt = p.CreatedAt
	r.byID[p.ID] = *p
	return nil
}

func (r *Products) List(ctx context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Product{}
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Products) FindByID(ctx context.Context, id string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *Products) Update(ctx context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = r.clk.next()
	r.byID[p.ID] = *p
	return nil
}

func (r *Products) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Products) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type Bills struct {
	mu   sync.Mutex
	clk  clock
	byID map[string]model.Bill
}

func NewBills() *Bills {
	return &Bills{byID: map[string]model.Bill{}}
}

func (r *Bills) Create(ctx context.Context, b *model.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = r.clk.next()
	b.UpdatedAt = b.CreatedAt
	r.byID[b.ID] = *b
	return nil
}

func (r *Bills) List(ctx context.Context, scope repository.OwnerFilter) ([]model.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Bill{}
	for _, b := range r.byID {
		if scope.Matches(b.UserID, b.UserPhone) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Bills) Find(ctx context.Context, id string, scope repository.OwnerFilter) (*model.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok || !scope.Matches(b.UserID, b.UserPhone) {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

// Update checks scope against the stored row, as the SQL WHERE clause does.
func (r *Bills) Update(ctx context.Context, b *model.Bill, scope repository.OwnerFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[b.ID]
	if !ok || !scope.Matches(stored.UserID, stored.UserPhone) {
		return repository.ErrNotFound
	}
	b.UpdatedAt = r.clk.next()
	r.byID[b.ID] = *b
	return nil
}

func (r *Bills) Delete(ctx context.Context, id string, scope repository.OwnerFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok || !scope.Matches(stored.UserID, stored.UserPhone) {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type BottleOrders struct {
	mu   sync.Mutex
	clk  clock
	byID map[string]model.BottleOrder
}

func NewBottleOrders() *BottleOrders {
	return &BottleOrders{byID: map[string]model.BottleOrder{}}
}

func (r *BottleOrders) Create(ctx context.Context, o *model.BottleOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = r.clk.next()
	o.UpdatedAt = o.CreatedAt
	r.byID[o.ID] = *o
	return nil
}

func (r *BottleOrders) List(ctx context.Context, scope repository.OwnerFilter) ([]model.BottleOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.BottleOrder{}
	for _, o := range r.byID {
		if scope.Matches(o.UserID, o.UserPhone) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *BottleOrders) Find(ctx context.Context, id string, scope repository.OwnerFilter) (*model.BottleOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.byID[id]
	if !ok || !scope.Matches(o.UserID, o.UserPhone) {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *BottleOrders) Update(ctx context.Context, o *model.BottleOrder, scope repository.OwnerFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[o.ID]
	if !ok || !scope.Matches(stored.UserID, stored.UserPhone) {
		return repository.ErrNotFound
	}
	o.UpdatedAt = r.clk.next()
	r.byID[o.ID] = *o
	return nil
}

func (r *BottleOrders) Delete(ctx context.Context, id string, scope repository.OwnerFilter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok || !scope.Matches(stored.UserID, stored.UserPhone) {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type Company struct {
	mu      sync.Mutex
	clk     clock
	details *model.CompanyDetails
}

func NewCompany() *Company {
	return &Company{}
}

func (r *Company) Get(ctx context.Context) (*model.CompanyDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.details == nil {
		return nil, repository.ErrNotFound
	}
	c := *r.details
	return &c, nil
}

func (r *Company) Save(ctx context.Context, c *model.CompanyDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clk.next()
	if r.details == nil || r.details.CreatedAt == nil {
		c.CreatedAt = &now
	} else {
		c.CreatedAt = r.details.CreatedAt
	}
	c.UpdatedAt = &now
	saved := *c
	r.details = &saved
	return nil
}

var (
	_ repository.UserRepository        = (*Users)(nil)
	_ repository.ProductRepository     = (*Products)(nil)
	_ repository.BillRepository        = (*Bills)(nil)
	_ repository.BottleOrderRepository = (*BottleOrders)(nil)
	_ repository.CompanyRepository     = (*Company)(nil)
)
