package fft

import (
	"image"
	"image/color"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func checkerboard(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 200})
			} else {
				img.SetGray(x, y, color.Gray{Y: 40})
			}
		}
	}
	return img
}

func TestIsDimensionSizeLegal(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{1, true},
		{2, true},
		{30, true},
		{64, true},
		{7, false},
		{14, false},
		{0, false},
		{-4, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDimensionSizeLegal(tt.n), "n=%d", tt.n)
	}
}

func TestForward_DCTerm(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 2))
	for i := range img.Pix {
		img.Pix[i] = 10
	}
	s, err := Forward(img, Options{})
	require.NoError(t, err)

	assert.InDelta(t, 80, real(s.At(0, 0)), 1e-9)
	for v := 0; v < s.Height; v++ {
		for u := 0; u < s.Width; u++ {
			if u == 0 && v == 0 {
				continue
			}
			assert.InDelta(t, 0, cmplx.Abs(s.At(u, v)), 1e-9)
		}
	}
}

func TestForward_Strict(t *testing.T) {
	_, err := Forward(image.NewGray(image.Rect(0, 0, 7, 4)), Options{Strict: true})
	assert.ErrorIs(t, err, ErrIllegalSize)

	_, err = Forward(image.NewGray(image.Rect(0, 0, 7, 4)), Options{})
	assert.NoError(t, err)
}

func TestForward_EmptyImage(t *testing.T) {
	_, err := Forward(image.NewGray(image.Rect(0, 0, 0, 0)), Options{})
	assert.Error(t, err)
}

func TestInverse_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(2, 9).Draw(t, "w")
		h := rapid.IntRange(2, 9).Draw(t, "h")
		pix := rapid.SliceOfN(rapid.Uint8(), w*h, w*h).Draw(t, "pix")
		img := &image.Gray{Pix: pix, Stride: w, Rect: image.Rect(0, 0, w, h)}

		s, err := Forward(img, Options{})
		if err != nil {
			t.Fatal(err)
		}
		back := Inverse(s)
		for i := range pix {
			if back.Pix[i] != pix[i] {
				t.Fatalf("pixel %d: got %d, want %d", i, back.Pix[i], pix[i])
			}
		}
	})
}

func TestLowPass_RemovesCheckerboard(t *testing.T) {
	s, err := Forward(checkerboard(8, 8), Options{})
	require.NoError(t, err)

	smooth := Inverse(s.LowPass(0.5))
	for _, p := range smooth.Pix {
		assert.InDelta(t, 120, float64(p), 1)
	}
	// The input spectrum is untouched.
	assert.Greater(t, cmplx.Abs(s.At(4, 4)), 0.0)
}

func TestLowPass_FullCutoffKeepsImage(t *testing.T) {
	img := checkerboard(6, 4)
	s, err := Forward(img, Options{})
	require.NoError(t, err)

	back := Inverse(s.LowPass(2))
	assert.Equal(t, img.Pix, back.Pix)
}

func TestMagnitude_CentersDC(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 50
	}
	s, err := Forward(img, Options{})
	require.NoError(t, err)

	mag := s.Magnitude()
	assert.Equal(t, uint8(255), mag.GrayAt(2, 2).Y)
	assert.Equal(t, uint8(0), mag.GrayAt(0, 0).Y)
}

func TestMagnitude_Zero(t *testing.T) {
	s, err := Forward(image.NewGray(image.Rect(0, 0, 2, 2)), Options{})
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0, 0}, s.Magnitude().Pix)
}
