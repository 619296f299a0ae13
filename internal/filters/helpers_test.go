package filters

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ironsheep/video-tools-mcp/internal/logging"
	"github.com/ironsheep/video-tools-mcp/internal/temporal"
	"github.com/ironsheep/video-tools-mcp/internal/video"
)

type processObject = temporal.ProcessObject[*video.FrameSequence, *video.FrameSequence]

func testContext() context.Context {
	return logging.WithLogger(context.Background(), zap.NewNop().Sugar())
}

func grayFrame(value uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

// rampSource produces n gray frames, frame i having value i*10.
func rampSource(n int64) *video.GeneratorSource {
	return video.NewGeneratorSource(n, func(i int64) image.Image {
		return grayFrame(uint8(i * 10))
	})
}

// attach wires f behind src.
func attach(t *testing.T, f Filter, src *video.FrameSequence) *processObject {
	t.Helper()
	p, err := temporal.New[*video.FrameSequence, *video.FrameSequence](f.Kind(), f.Config(), f, video.NewFrameSequence())
	require.NoError(t, err)
	require.NoError(t, p.SetInput(src))
	return p
}

// request materializes r on p's output.
func request(t *testing.T, p *processObject, r temporal.Region) {
	t.Helper()
	ctx := testContext()
	require.NoError(t, p.UpdateOutputInformation(ctx))
	p.Output().SetRequestedTemporalRegion(r)
	require.NoError(t, p.Output().UpdateOutputData(ctx))
}

// luma returns the luminance of the frame's top-left pixel.
func luma(t *testing.T, seq *video.FrameSequence, f int64) float64 {
	t.Helper()
	img, err := seq.Frame(f)
	require.NoError(t, err)
	return float64(color.GrayModel.Convert(img.At(img.Bounds().Min.X, img.Bounds().Min.Y)).(color.Gray).Y)
}
