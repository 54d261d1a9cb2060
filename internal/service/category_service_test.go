package service

import (
	"context"
	"testing"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	ctx := context.Background()
	repo := newMockCategoryRepository()
	svc := NewCategoryService(repo)

	resp, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: " Home & Garden ", Description: "stuff"})
	require.NoError(t, err)
	assert.Equal(t, "Home & Garden", resp.Name)
	assert.Equal(t, "home-garden", resp.Slug)

	_, err = svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "home & garden"})
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	// different name, same slug
	resp, err = svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Home Garden"})
	require.NoError(t, err)
	assert.Equal(t, "home-garden-2", resp.Slug)
}

func TestCategoryService_UpdateCategory(t *testing.T) {
	ctx := context.Background()
	repo := newMockCategoryRepository()
	svc := NewCategoryService(repo)

	books, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Books"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Music"})
	require.NoError(t, err)

	t.Run("rename regenerates slug", func(t *testing.T) {
		resp, err := svc.UpdateCategory(ctx, books.ID, &dto.UpdateCategoryRequest{Name: strPtr("Rare Books")})
		require.NoError(t, err)
		assert.Equal(t, "rare-books", resp.Slug)
	})

	t.Run("case-only rename keeps slug", func(t *testing.T) {
		resp, err := svc.UpdateCategory(ctx, books.ID, &dto.UpdateCategoryRequest{Name: strPtr("RARE books")})
		require.NoError(t, err)
		assert.Equal(t, "rare-books", resp.Slug)
		assert.Equal(t, "RARE books", resp.Name)
	})

	t.Run("name taken by another category", func(t *testing.T) {
		_, err := svc.UpdateCategory(ctx, books.ID, &dto.UpdateCategoryRequest{Name: strPtr("music")})
		assert.ErrorIs(t, err, domain.ErrCategoryExists)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.UpdateCategory(ctx, "missing", &dto.UpdateCategoryRequest{Description: strPtr("x")})
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	})
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	ctx := context.Background()
	repo := newMockCategoryRepository()
	svc := NewCategoryService(repo)

	c, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Toys"})
	require.NoError(t, err)

	repo.inUse[c.ID] = true
	assert.ErrorIs(t, svc.DeleteCategory(ctx, c.ID), domain.ErrCategoryInUse)

	repo.inUse[c.ID] = false
	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, c.ID), domain.ErrCategoryNotFound)

	_, err = svc.GetCategory(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestCategoryService_ListCategories(t *testing.T) {
	ctx := context.Background()
	repo := newMockCategoryRepository()
	svc := NewCategoryService(repo)
	for _, name := range []string{"A1", "B2", "C3"} {
		_, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: name})
		require.NoError(t, err)
	}

	filter := &dto.CategoryListFilter{}
	items, total, err := svc.ListCategories(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 3)
	assert.Equal(t, dto.DefaultPage, filter.Page)
}
