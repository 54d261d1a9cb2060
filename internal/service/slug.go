package service

import (
	"context"
	"strconv"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/google/uuid"
)

const maxSlugAttempts = 10

// slugExistsFunc reports whether a slug is taken
type slugExistsFunc func(ctx context.Context, slug string) (bool, error)

// ensureUniqueSlug slugifies name and appends a counter, then a uuid fragment, until the slug is free
func ensureUniqueSlug(ctx context.Context, name string, exists slugExistsFunc) (string, error) {
	base := domain.Slugify(name)
	if base == "" {
		base = uuid.New().String()[:8]
	}

	slug := base
	for counter := 2; counter <= maxSlugAttempts+1; counter++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(counter)
	}
	// high collision scenario
	return base + "-" + uuid.New().String()[:8], nil
}
