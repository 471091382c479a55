package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/object-measure/internal/buffer"
)

// SupportedExtensions lists the lower-case file extensions Open can decode.
var SupportedExtensions = []string{
	".bmp", ".gif", ".jpeg", ".jpg", ".npy", ".png", ".tif", ".tiff", ".webp",
}

// IsSupported reports whether path has an extension Open can decode.
func IsSupported(path string) bool {
	return slices.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

// Open decodes the file at path into a pixel buffer.
//
// .npy arrays keep their dtype and channel count. Every other format is
// decoded with the standard image decoders and converted by FromImage, so
// 16-bit gray TIFF and PNG files keep their full range.
func Open(path string) (buffer.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(SupportedExtensions, ext) {
		return nil, fmt.Errorf("%w: %q", ErrImageExtension, ext)
	}
	if ext == ".npy" {
		return ReadNpyFile(path)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageRead, path, err)
	}
	return FromImage(img), nil
}

// ImageCache provides thread-safe caching of decoded buffers to avoid
// redundant disk reads.
//
// The cache stores decoded buffer.Image values keyed by their file path.
// Once an image is loaded, subsequent Load() calls for the same path return
// the cached buffer without disk I/O.
//
// ImageCache is safe for concurrent use by multiple goroutines. Cached
// buffers are never mutated, so callers may take Views of them from any
// goroutine.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or
// Clear(). The tool server keeps every image it has loaded for the life of
// the process. Batch profiling does not use the cache; each worker calls
// Open and drops the buffer after its pair is measured.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/image.tif")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// Measure img...
//	cache.Evict("/path/to/image.tif")
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]buffer.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]buffer.Image),
	}
}

// Load retrieves an image from the cache or decodes it with Open.
//
// The image is cached using the exact path string provided. Different paths
// to the same file (e.g., relative vs absolute) result in separate cache
// entries.
//
// # Errors
//
//   - ErrImageExtension if the extension is not in SupportedExtensions
//   - ErrImageRead if the file does not exist or cannot be decoded
//   - ErrNpyFormat if an .npy header or dtype is not supported
func (c *ImageCache) Load(path string) (buffer.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Put stores img under path, replacing any cached entry.
func (c *ImageCache) Put(path string, img buffer.Image) {
	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]buffer.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
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

	// Channels is the number of channels after alpha stripping.
	Channels int `json:"channels"`

	// Kind is the pixel dtype: "u8", "u16", ..., "f64".
	Kind string `json:"kind"`

	// Format is the file extension without the dot.
	Format string `json:"format"`

	// Min and Max are the smallest and largest subpixel values.
	Min float64 `json:"min"`
	Max float64 `json:"max"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image into the cache (if not already cached) and
// returns its dimensions, dtype, value range, format, and file size.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	lo, hi := img.MinMax()
	return &ImageInfo{
		Width:         img.Width(),
		Height:        img.Height(),
		Channels:      img.Channels(),
		Kind:          img.Kind().String(),
		Format:        strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Min:           lo,
		Max:           hi,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	Channels int `json:"channels"`
}

// GetDimensions returns the dimensions of an image without additional
// metadata. The image is loaded into the cache if not already present.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{
		Width:    img.Width(),
		Height:   img.Height(),
		Channels: img.Channels(),
	}, nil
}

// decodeStd is used by mask loading, which needs the raw image type to
// reject color masks.
func decodeStd(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrImageRead, path, err)
	}
	return img, nil
}
