package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/repository"
)

var errStore = errors.New("store offline")

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	users      map[string]*domain.User
	emailIndex map[string]*domain.User
	findErr    error
	updates    int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:      make(map[string]*domain.User),
		emailIndex: make(map[string]*domain.User),
	}
}

func (r *mockUserRepository) add(u *domain.User) {
	r.users[u.ID] = u
	r.emailIndex[u.Email] = u
}

func (r *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, ok := r.emailIndex[user.Email]; ok {
		return domain.ErrEmailTaken
	}
	r.add(user)
	return nil
}

func (r *mockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.users[id], nil
}

func (r *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.emailIndex[email], nil
}

func (r *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.updates++
	r.add(user)
	return nil
}

func (r *mockUserRepository) List(ctx context.Context, filter *repository.UserFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Status != "" && u.Status != filter.Status {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

// mockCategoryRepository is a mock implementation of CategoryRepository
type mockCategoryRepository struct {
	categories map[string]*domain.Category
	inUse      map[string]bool
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: make(map[string]*domain.Category),
		inUse:      make(map[string]bool),
	}
}

func (r *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *mockCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.categories[id], nil
}

func (r *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range r.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (r *mockCategoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	if r.inUse[id] {
		return domain.ErrCategoryInUse
	}
	delete(r.categories, id)
	return nil
}

func (r *mockCategoryRepository) List(ctx context.Context, filter *repository.CategoryFilter) ([]*domain.Category, int64, error) {
	var out []*domain.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

// mockProductRepository is a mock implementation of ProductRepository
type mockProductRepository struct {
	products   map[string]*domain.Product
	createErr  error
	updateErr  error
	lastFilter *repository.ProductFilter
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[string]*domain.Product)}
}

func (r *mockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.products[p.ID] = p
	return nil
}

func (r *mockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	// callers mutate the result; hand out a copy like a real store would
	cp := *p
	cp.Images = append([]domain.Image(nil), p.Images...)
	return &cp, nil
}

func (r *mockProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.products[p.ID] = p
	return nil
}

func (r *mockProductRepository) Delete(ctx context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func (r *mockProductRepository) List(ctx context.Context, filter *repository.ProductFilter) ([]*domain.Product, int64, error) {
	r.lastFilter = filter
	var out []*domain.Product
	for _, p := range r.products {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *mockProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockProductRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// mockUploader records saved and removed keys
type mockUploader struct {
	saved   []string
	removed []string
	// failAt makes the n-th Save (1-based) fail
	failAt int
	calls  int
}

func (u *mockUploader) Save(ctx context.Context, data []byte) (domain.Image, error) {
	u.calls++
	if u.failAt > 0 && u.calls == u.failAt {
		return domain.Image{}, errors.New("unsupported image")
	}
	key := "products/test/" + string(rune('a'+u.calls-1)) + ".jpg"
	u.saved = append(u.saved, key)
	return domain.Image{Key: key, URL: "/uploads/" + key, ContentType: "image/jpeg", Size: int64(len(data))}, nil
}

func (u *mockUploader) Remove(ctx context.Context, key string) error {
	u.removed = append(u.removed, key)
	return nil
}

// mockStatsRepository returns canned stats
type mockStatsRepository struct {
	stats     *domain.DashboardStats
	err       error
	threshold int
	recent    int
}

func (r *mockStatsRepository) Dashboard(ctx context.Context, lowStockThreshold, recentLimit int) (*domain.DashboardStats, error) {
	r.threshold = lowStockThreshold
	r.recent = recentLimit
	return r.stats, r.err
}
