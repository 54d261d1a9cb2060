package storage

import (
	"context"
	"time"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
)

// Uploader turns raw uploads into stored product images
type Uploader struct {
	store     ImageStore
	processor *Processor
	now       func() time.Time
}

// NewUploader creates an Uploader
func NewUploader(store ImageStore, processor *Processor) *Uploader {
	return &Uploader{store: store, processor: processor, now: time.Now}
}

// Save processes data and writes it under a fresh key
func (u *Uploader) Save(ctx context.Context, data []byte) (domain.Image, error) {
	processed, err := u.processor.Process(data)
	if err != nil {
		return domain.Image{}, err
	}

	key := NewKey(u.now())
	url, err := u.store.Put(ctx, key, processed.Data, processed.ContentType)
	if err != nil {
		return domain.Image{}, err
	}

	return domain.Image{
		Key:         key,
		URL:         url,
		ContentType: processed.ContentType,
		Size:        int64(len(processed.Data)),
		Width:       processed.Width,
		Height:      processed.Height,
	}, nil
}

// Remove deletes a stored image
func (u *Uploader) Remove(ctx context.Context, key string) error {
	return u.store.Delete(ctx, key)
}
