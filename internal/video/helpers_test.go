package video

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ironsheep/video-tools-mcp/internal/logging"
)

func testContext() context.Context {
	return logging.WithLogger(context.Background(), zap.NewNop().Sugar())
}

// grayFrame returns a 4x4 frame filled with value.
func grayFrame(value uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

func indexFrame(i int64) image.Image {
	return grayFrame(uint8(i * 10))
}

func grayAt(img image.Image) uint8 {
	return color.GrayModel.Convert(img.At(0, 0)).(color.Gray).Y
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// frameDir writes one PNG per value, named in the given order.
func frameDir(t *testing.T, names []string, values []uint8) string {
	t.Helper()
	dir := t.TempDir()
	for i, name := range names {
		writePNG(t, filepath.Join(dir, name), grayFrame(values[i]))
	}
	return dir
}
