package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/video-tools-mcp/internal/temporal"
)

func TestExponentialSmoothing_Forward(t *testing.T) {
	s, err := NewExponentialSmoothing(0.5)
	require.NoError(t, err)
	p := attach(t, s, rampSource(4).Output())
	request(t, p, temporal.NewRegion(0, 4))

	want := []float64{0, 5, 13, 22}
	for f, w := range want {
		assert.Equal(t, w, luma(t, p.Output(), int64(f)), "frame %d", f)
	}
}

func TestExponentialSmoothing_ResumesContiguousRequests(t *testing.T) {
	s, err := NewExponentialSmoothing(0.5)
	require.NoError(t, err)
	p := attach(t, s, rampSource(4).Output())

	request(t, p, temporal.NewRegion(0, 2))
	request(t, p, temporal.NewRegion(2, 2))
	assert.Equal(t, 1, s.resumed)
	assert.Equal(t, 13.0, luma(t, p.Output(), 2))
	assert.Equal(t, 22.0, luma(t, p.Output(), 3))
}

func TestExponentialSmoothing_RestartsOnJump(t *testing.T) {
	s, err := NewExponentialSmoothing(0.5)
	require.NoError(t, err)
	p := attach(t, s, rampSource(6).Output())

	request(t, p, temporal.NewRegion(0, 2))
	request(t, p, temporal.NewRegion(4, 2))
	assert.Equal(t, 0, s.resumed)
	assert.Equal(t, 40.0, luma(t, p.Output(), 4))
	assert.Equal(t, 45.0, luma(t, p.Output(), 5))
}

func TestBackwardSmoothing_Reverse(t *testing.T) {
	s, err := NewBackwardSmoothing(0.5)
	require.NoError(t, err)
	require.True(t, s.Config().Reverse())

	p := attach(t, s, rampSource(4).Output())
	require.NoError(t, p.UpdateOutputInformation(testContext()))
	assert.Equal(t, temporal.NewRegion(0, 4), p.Output().LargestPossibleTemporalRegion())

	request(t, p, temporal.NewRegion(0, 4))
	want := []float64{9, 18, 25, 30}
	for f, w := range want {
		assert.Equal(t, w, luma(t, p.Output(), int64(f)), "frame %d", f)
	}
}

func TestBackwardSmoothing_ResumesEarlierChunk(t *testing.T) {
	s, err := NewBackwardSmoothing(0.5)
	require.NoError(t, err)
	p := attach(t, s, rampSource(4).Output())

	request(t, p, temporal.NewRegion(2, 2))
	request(t, p, temporal.NewRegion(0, 2))
	assert.Equal(t, 1, s.resumed)
	assert.Equal(t, 9.0, luma(t, p.Output(), 0))
	assert.Equal(t, 18.0, luma(t, p.Output(), 1))
}

func TestNewSmoothing_InvalidAlpha(t *testing.T) {
	for _, alpha := range []float64{0, -0.5, 1.5} {
		_, err := NewExponentialSmoothing(alpha)
		assert.Error(t, err, "alpha %g", alpha)
		_, err = NewBackwardSmoothing(alpha)
		assert.Error(t, err, "alpha %g", alpha)
	}
}
