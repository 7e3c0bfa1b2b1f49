package service

import (
	"context"
	"database/sql"
	"sort"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

// memoryStore backs the mock repositories with plain maps. Calls are counted
// so tests can assert on query shapes.
type memoryStore struct {
	categories map[int64]*domain.Category
	products   map[int64]*domain.Product
	discounts  []domain.Discount
	nextID     int64

	discountBatchCalls int
	categoryListCalls  int
	txCalls            int
	lastTxOptions      *sql.TxOptions
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		categories: make(map[int64]*domain.Category),
		products:   make(map[int64]*domain.Product),
	}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) repositories() repository.Repositories {
	return repository.Repositories{
		Categories: &mockCategoryRepository{m},
		Products:   &mockProductRepository{m},
		Discounts:  &mockDiscountRepository{m},
	}
}

func (m *memoryStore) Run(ctx context.Context, opts *sql.TxOptions, fn func(repos repository.Repositories) error) error {
	m.txCalls++
	m.lastTxOptions = opts
	return fn(m.repositories())
}

type mockCategoryRepository struct{ s *memoryStore }

func (r *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			return repository.ErrCategoryAlreadyExists
		}
	}
	c.ID = r.s.id()
	stored := *c
	r.s.categories[c.ID] = &stored
	return nil
}

func (r *mockCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := r.s.categories[c.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	stored := *c
	r.s.categories[c.ID] = &stored
	return nil
}

func (r *mockCategoryRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(r.s.categories, id)
	for _, c := range r.s.categories {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
		}
	}
	return nil
}

func (r *mockCategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	found := *c
	return &found, nil
}

func (r *mockCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	for _, c := range r.s.categories {
		if c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	r.s.categoryListCalls++
	out := make([]*domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockCategoryRepository) Ancestors(ctx context.Context, id int64) ([]int64, error) {
	var chain []int64
	seen := map[int64]bool{id: true}
	current := r.s.categories[id]
	for current != nil && current.ParentID != nil && !seen[*current.ParentID] {
		chain = append(chain, *current.ParentID)
		seen[*current.ParentID] = true
		current = r.s.categories[*current.ParentID]
	}
	return chain, nil
}

type mockProductRepository struct{ s *memoryStore }

func (r *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	for _, existing := range r.s.products {
		if existing.Name == p.Name {
			return repository.ErrProductAlreadyExists
		}
	}
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return repository.ErrCategoryNotFound
	}
	p.ID = r.s.id()
	stored := *p
	r.s.products[p.ID] = &stored
	return nil
}

func (r *mockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	found := *p
	return &found, nil
}

func (r *mockProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, p := range r.s.products {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockProductRepository) matching(filter repository.ProductFilter) []*domain.Product {
	var out []*domain.Product
	for _, p := range r.s.products {
		if filter.CategoryID == nil || p.CategoryID == *filter.CategoryID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *mockProductRepository) Count(ctx context.Context, filter repository.ProductFilter) (int, error) {
	return len(r.matching(filter)), nil
}

func (r *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*domain.Product, error) {
	all := r.matching(filter)
	if offset >= len(all) {
		return []*domain.Product{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

type mockDiscountRepository struct{ s *memoryStore }

func (r *mockDiscountRepository) Create(ctx context.Context, d *domain.Discount) error {
	if _, ok := r.s.products[d.ProductID]; !ok {
		return repository.ErrProductNotFound
	}
	d.ID = r.s.id()
	r.s.discounts = append(r.s.discounts, *d)
	return nil
}

func (r *mockDiscountRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.Discount, error) {
	var out []domain.Discount
	for _, d := range r.s.discounts {
		if d.ProductID == productID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *mockDiscountRepository) ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]domain.Discount, error) {
	r.s.discountBatchCalls++
	wanted := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	out := make(map[int64][]domain.Discount)
	for _, d := range r.s.discounts {
		if wanted[d.ProductID] {
			out[d.ProductID] = append(out[d.ProductID], d)
		}
	}
	return out, nil
}
