package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register gif
	"image/jpeg"
	_ "image/png" // register png
	"net/http"

	"golang.org/x/image/draw"
)

// Processor defaults
const (
	DefaultMaxBytes    = 5 << 20
	DefaultMaxWidth    = 1200
	DefaultMaxPixels   = 40_000_000
	DefaultJPEGQuality = 85
)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Processed is an upload normalized to JPEG
type Processed struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Processor validates, downsizes and re-encodes uploaded images
type Processor struct {
	maxBytes  int64
	maxWidth  int
	maxPixels int
	quality   int
}

// NewProcessor creates a Processor, falling back to defaults for non-positive values
func NewProcessor(maxBytes int64, maxWidth, maxPixels, quality int) *Processor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &Processor{maxBytes: maxBytes, maxWidth: maxWidth, maxPixels: maxPixels, quality: quality}
}

// MaxBytes returns the per-file size cap
func (p *Processor) MaxBytes() int64 {
	return p.maxBytes
}

// Process sniffs the content type, decodes, scales down to the max width and encodes as JPEG
func (p *Processor) Process(data []byte) (*Processed, error) {
	if int64(len(data)) > p.maxBytes {
		return nil, ErrImageTooLarge
	}

	if ct := http.DetectContentType(data); !allowedContentTypes[ct] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, ct)
	}

	// header only; a few KiB can declare a canvas too big to allocate
	hdr, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if hdr.Width <= 0 || hdr.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	if int64(hdr.Width)*int64(hdr.Height) > int64(p.maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, hdr.Width, hdr.Height, p.maxPixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	if width > p.maxWidth {
		height = height * p.maxWidth / width
		if height < 1 {
			height = 1
		}
		width = p.maxWidth
	}

	// white background so transparent pixels do not turn black in JPEG
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &Processed{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Width:       width,
		Height:      height,
	}, nil
}
