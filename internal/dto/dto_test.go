package dto

import (
	"testing"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       RegisterRequest
		wantField string
	}{
		{
			name: "valid request",
			req:  RegisterRequest{Name: "Ann", Email: "a@b.com", Password: "secret123"},
		},
		{
			name:      "short name",
			req:       RegisterRequest{Name: " A ", Email: "a@b.com", Password: "secret123"},
			wantField: "name",
		},
		{
			name:      "short password",
			req:       RegisterRequest{Name: "Ann", Email: "a@b.com", Password: "abc123"},
			wantField: "password",
		},
		{
			name:      "password without digit",
			req:       RegisterRequest{Name: "Ann", Email: "a@b.com", Password: "abcdefghij"},
			wantField: "password",
		},
		{
			name:      "password without letter",
			req:       RegisterRequest{Name: "Ann", Email: "a@b.com", Password: "1234567890"},
			wantField: "password",
		},
		{
			name:      "missing email",
			req:       RegisterRequest{Name: "Ann", Email: "  ", Password: "secret123"},
			wantField: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.req.Validate()
			if tt.wantField == "" {
				if errs != nil {
					t.Errorf("Validate() = %v, want nil", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("Validate() = %v, want error on %q", errs, tt.wantField)
			}
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	if errs := (&LoginRequest{Email: "a@b.com", Password: "x"}).Validate(); errs != nil {
		t.Errorf("Expected valid login, got %v", errs)
	}
	errs := (&LoginRequest{}).Validate()
	if errs["email"] == "" || errs["password"] == "" {
		t.Errorf("Expected email and password errors, got %v", errs)
	}
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	if errs := (&UpdateUserRequest{}).Validate(); errs == nil {
		t.Error("Expected error for empty update")
	}
	if errs := (&UpdateUserRequest{Name: strPtr("Bob")}).Validate(); errs != nil {
		t.Errorf("Expected valid name update, got %v", errs)
	}
	if errs := (&UpdateUserRequest{Password: strPtr("short")}).Validate(); errs["password"] == "" {
		t.Errorf("Expected password error, got %v", errs)
	}
}

func TestRoleAndStatusRequests_Validate(t *testing.T) {
	if errs := (&UpdateRoleRequest{Role: "admin"}).Validate(); errs != nil {
		t.Errorf("admin should be valid, got %v", errs)
	}
	if errs := (&UpdateRoleRequest{Role: "root"}).Validate(); errs["role"] == "" {
		t.Error("Expected error for unknown role")
	}
	if errs := (&UpdateStatusRequest{Status: "suspended"}).Validate(); errs != nil {
		t.Errorf("suspended should be valid, got %v", errs)
	}
	if errs := (&UpdateStatusRequest{Status: "deleted"}).Validate(); errs["status"] == "" {
		t.Error("Expected error for unknown status")
	}
}

func TestPagination_SetDefaults(t *testing.T) {
	tests := []struct {
		name       string
		in         Pagination
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"zero values", Pagination{}, 1, 20, 0},
		{"limit capped", Pagination{Page: 2, Limit: 500}, 2, 100, 100},
		{"negative page", Pagination{Page: -3, Limit: 10}, 1, 10, 0},
		{"third page", Pagination{Page: 3, Limit: 10}, 3, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.SetDefaults()
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit || p.Offset() != tt.wantOffset {
				t.Errorf("got page=%d limit=%d offset=%d, want %d/%d/%d",
					p.Page, p.Limit, p.Offset(), tt.wantPage, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestCreateProductRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       CreateProductRequest
		wantField string
	}{
		{"valid", CreateProductRequest{Name: "Mug", Price: decPtr("9.99"), Stock: 3}, ""},
		{"missing name", CreateProductRequest{Price: decPtr("1")}, "name"},
		{"missing price", CreateProductRequest{Name: "Mug"}, "price"},
		{"negative price", CreateProductRequest{Name: "Mug", Price: decPtr("-1")}, "price"},
		{"negative stock", CreateProductRequest{Name: "Mug", Price: decPtr("1"), Stock: -1}, "stock"},
		{"bad status", CreateProductRequest{Name: "Mug", Price: decPtr("1"), Status: "archived"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.req.Validate()
			if tt.wantField == "" {
				if errs != nil {
					t.Errorf("Validate() = %v, want nil", errs)
				}
				return
			}
			if errs[tt.wantField] == "" {
				t.Errorf("Validate() = %v, want error on %q", errs, tt.wantField)
			}
		})
	}
}

func TestUpdateProductRequest_Validate(t *testing.T) {
	if errs := (&UpdateProductRequest{Stock: intPtr(0)}).Validate(); errs != nil {
		t.Errorf("Expected zero stock to be valid, got %v", errs)
	}
	if errs := (&UpdateProductRequest{Stock: intPtr(-2)}).Validate(); errs["stock"] == "" {
		t.Error("Expected stock error")
	}
	if errs := (&UpdateProductRequest{Status: strPtr("gone")}).Validate(); errs["status"] == "" {
		t.Error("Expected status error")
	}
}

func TestProductListFilter(t *testing.T) {
	f := ProductListFilter{MinPrice: "10", MaxPrice: "25.50", Category: "c1", Search: "  mug "}
	f.SetDefaults()
	if errs := f.Validate(); errs != nil {
		t.Fatalf("Validate() = %v, want nil", errs)
	}

	rf := f.ToRepository()
	if rf.Sort != "newest" || rf.Limit != 20 || rf.Offset != 0 {
		t.Errorf("unexpected defaults: %+v", rf)
	}
	if rf.MinPrice == nil || !rf.MinPrice.Equal(decimal.NewFromInt(10)) {
		t.Errorf("MinPrice = %v, want 10", rf.MinPrice)
	}
	if rf.MaxPrice == nil || rf.MaxPrice.String() != "25.5" {
		t.Errorf("MaxPrice = %v, want 25.5", rf.MaxPrice)
	}
	if rf.Search != "mug" || rf.CategoryID != "c1" {
		t.Errorf("unexpected search/category: %+v", rf)
	}
}

func TestProductListFilter_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		filter    ProductListFilter
		wantField string
	}{
		{"non numeric min", ProductListFilter{MinPrice: "cheap"}, "minPrice"},
		{"negative max", ProductListFilter{MaxPrice: "-3"}, "maxPrice"},
		{"inverted range", ProductListFilter{MinPrice: "10", MaxPrice: "5"}, "maxPrice"},
		{"bad sort", ProductListFilter{Sort: "popular"}, "sort"},
		{"bad status", ProductListFilter{Status: "hidden"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := tt.filter.Validate(); errs[tt.wantField] == "" {
				t.Errorf("Validate() = %v, want error on %q", errs, tt.wantField)
			}
		})
	}
}

func TestNewProductResponse(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	resp := NewProductResponse(&domain.Product{
		ID:        "p1",
		Price:     decimal.RequireFromString("12.5"),
		Status:    domain.ProductStatusPublished,
		CreatedAt: created,
	})

	if resp.Price != "12.50" {
		t.Errorf("Price = %q, want 12.50", resp.Price)
	}
	if resp.Images == nil {
		t.Error("Images should be an empty slice, not nil")
	}
	if resp.CreatedAt != "2025-01-02T03:04:05Z" {
		t.Errorf("CreatedAt = %q", resp.CreatedAt)
	}
	if NewProductResponse(nil) != nil {
		t.Error("nil product should map to nil")
	}
}

func TestNewUserResponse_OmitsHash(t *testing.T) {
	resp := NewUserResponse(&domain.User{ID: "u1", Email: "a@b.com", PasswordHash: "hash", Role: domain.RoleStandard})
	if resp.Role != "standard" || resp.Email != "a@b.com" {
		t.Errorf("unexpected response: %+v", resp)
	}
}
