package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createTestImage writes a uniformly colored PNG into a per-test directory
// and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	return writeTestImage(t, filepath.Join(t.TempDir(), "test-image.png"), createInMemoryImage(width, height, c))
}

func writeTestImage(t *testing.T, path string, img image.Image) string {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func newTestCache(t *testing.T, size int) *ImageCache {
	t.Helper()
	cache, err := NewImageCache(size)
	if err != nil {
		t.Fatalf("NewImageCache failed: %v", err)
	}
	return cache
}

func TestNewImageCache_DefaultSize(t *testing.T) {
	cache := newTestCache(t, 0)
	if cache.Len() != 0 {
		t.Errorf("new cache should be empty, has %d entries", cache.Len())
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := newTestCache(t, 4)
	imgPath := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	loads := 0
	cache.OnLoad(func(string) { loads++ })

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}

	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
	if loads != 1 {
		t.Errorf("decoded %d times, want 1", loads)
	}
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := newTestCache(t, 4)
	_, err := cache.Load("/nonexistent/path/to/image.png")
	if err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	cache := newTestCache(t, 4)

	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := cache.Load(path)
	if err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_Bounded(t *testing.T) {
	cache := newTestCache(t, 2)
	dir := t.TempDir()

	var paths []string
	for i, name := range []string{"a.png", "b.png", "c.png"} {
		img := createInMemoryImage(4, 4, color.Gray{Y: uint8(i * 50)})
		paths = append(paths, writeTestImage(t, filepath.Join(dir, name), img))
	}

	for _, p := range paths {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if cache.Len() != 2 {
		t.Errorf("Len: got %d, want 2", cache.Len())
	}

	loads := 0
	cache.OnLoad(func(string) { loads++ })
	if _, err := cache.Load(paths[0]); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loads != 1 {
		t.Error("least recently used image should have been evicted")
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := newTestCache(t, 4)
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := newTestCache(t, 4)
	imgPath := createTestImage(t, 200, 150, color.RGBA{255, 128, 64, 255})

	info, err := LoadImageInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 200 {
		t.Errorf("Width: got %d, want 200", info.Width)
	}
	if info.Height != 150 {
		t.Errorf("Height: got %d, want 150", info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path   string
		format string
	}{
		{"a.png", "png"},
		{"a.PNG", "png"},
		{"a.jpg", "jpeg"},
		{"a.jpeg", "jpeg"},
		{"a.gif", "gif"},
		{"a.xyz", "unknown"},
		{"manifest.yaml", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.format {
				t.Errorf("FormatFromPath(%s): got %s, want %s", tt.path, got, tt.format)
			}
			if IsImagePath(tt.path) != (tt.format != "unknown") {
				t.Errorf("IsImagePath(%s) disagrees with format %s", tt.path, tt.format)
			}
		})
	}
}

func TestLoadImageInfo_NonExistent(t *testing.T) {
	cache := newTestCache(t, 4)
	_, err := LoadImageInfo(cache, "/nonexistent/image.png")
	if err == nil {
		t.Error("LoadImageInfo should fail for non-existent file")
	}
}
