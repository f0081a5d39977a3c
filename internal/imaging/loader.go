package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/ironsheep/image-effects-mcp/internal/pixel"
)

// cacheEntry is one decoded file: the image as decoded and its premultiplied
// BGRA conversion, which is what every operator and effect reads.
type cacheEntry struct {
	img    image.Image
	buf    *pixel.Buffer
	format string
}

// ImageCache provides thread-safe caching of decoded images keyed by path.
//
// The cached pixel buffers are shared between callers and must be treated as
// read-only. Clone a buffer before rendering into it in place.
//
// Cached images remain in memory until explicitly removed via Evict or Clear.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*cacheEntry
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*cacheEntry),
	}
}

func (c *ImageCache) entry(path string) (*cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	e := &cacheEntry{img: img, buf: pixel.FromImage(img), format: format}

	c.mu.Lock()
	c.images[path] = e
	c.mu.Unlock()

	return e, nil
}

// Load returns the decoded image at path, reading it from disk on first use.
// Supported formats are PNG, JPEG and GIF.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

// Buffer returns the premultiplied BGRA pixels of the image at path. The
// buffer is shared with the cache; do not modify it.
func (c *ImageCache) Buffer(path string) (*pixel.Buffer, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return e.buf, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. Saving a result
// over a cached path must evict it so the next load sees the new pixels.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that read the file: "png", "jpeg" or "gif".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	// Every operator works on 8-bit channels, so 16-bit files are reduced.
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// Opaque reports whether every pixel has alpha 255.
	Opaque bool `json:"opaque"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	e, err := cache.entry(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch e.img.(type) {
	case *image.RGBA, *image.NRGBA, *image.Paletted:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	return &ImageInfo{
		Width:         e.buf.Width,
		Height:        e.buf.Height,
		Format:        e.format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		Opaque:        isOpaque(e.buf),
		FileSizeBytes: stat.Size(),
	}, nil
}

func isOpaque(buf *pixel.Buffer) bool {
	for _, c := range buf.Pix {
		if c.A() != 255 {
			return false
		}
	}
	return true
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image, loading it if needed.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	buf, err := cache.Buffer(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: buf.Width, Height: buf.Height}, nil
}
