package temporal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemporalData_RegionRoundTrip(t *testing.T) {
	var d TemporalData

	d.SetRequestedTemporalRegion(NewRegion(7, 12))
	d.SetLargestPossibleTemporalRegion(NewRegion(0, 100))
	d.SetBufferedTemporalRegion(NewRegion(3, 2))

	assert.Equal(t, NewRegion(7, 12), d.RequestedTemporalRegion())
	assert.Equal(t, NewRegion(0, 100), d.LargestPossibleTemporalRegion())
	assert.Equal(t, NewRegion(3, 2), d.BufferedTemporalRegion())
}

func TestTemporalData_SettersDoNotValidate(t *testing.T) {
	var d TemporalData
	d.SetLargestPossibleTemporalRegion(NewRegion(0, 5))
	d.SetRequestedTemporalRegion(NewRegion(-3, 50))

	assert.Equal(t, NewRegion(-3, 50), d.RequestedTemporalRegion())
}

func TestUnbuffered(t *testing.T) {
	tests := []struct {
		name      string
		requested Region
		buffered  Region
		want      Region
	}{
		{"nothing buffered", NewRegion(10, 5), Region{}, NewRegion(10, 5)},
		{"disjoint buffer", NewRegion(10, 5), NewRegion(0, 5), NewRegion(10, 5)},
		{"fully buffered", NewRegion(10, 5), NewRegion(10, 5), NewRegion(15, 0)},
		{"buffer larger", NewRegion(10, 5), NewRegion(0, 50), NewRegion(15, 0)},
		{"prefix buffered", NewRegion(10, 5), NewRegion(8, 4), NewRegion(12, 3)},
		{"suffix buffered", NewRegion(10, 5), NewRegion(13, 10), NewRegion(10, 3)},
		{"buffer strictly inside", NewRegion(10, 10), NewRegion(12, 3), NewRegion(10, 10)},
		{"sliding window", NewRegion(1, 3), NewRegion(0, 3), NewRegion(3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d TemporalData
			d.SetRequestedTemporalRegion(tt.requested)
			d.SetBufferedTemporalRegion(tt.buffered)
			assert.Equal(t, tt.want, d.UnbufferedRequestedTemporalRegion())
		})
	}
}

func TestUpdateOutputData_AlreadyBuffered(t *testing.T) {
	src := newRangeSource(10)
	src.out.SetRequestedTemporalRegion(NewRegion(2, 3))
	require.NoError(t, src.out.UpdateOutputData(testContext()))

	// Second call must not reach the producer.
	require.NoError(t, src.out.UpdateOutputData(testContext()))
	for f := int64(2); f < 5; f++ {
		assert.Equal(t, 1, src.loads[f], "frame %d", f)
	}
}

func TestUpdateOutputData_NoProducer(t *testing.T) {
	seq := newIntSequence()
	seq.SetRequestedTemporalRegion(NewRegion(0, 1))

	err := seq.UpdateOutputData(testContext())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRegionNotBuffered))

	var regionErr *RegionError
	require.ErrorAs(t, err, &regionErr)
	assert.Equal(t, NewRegion(0, 1), regionErr.Region)
}

func TestUpdateOutputData_OutOfRange(t *testing.T) {
	src := newRangeSource(5)
	src.out.SetRequestedTemporalRegion(NewRegion(3, 5))

	err := src.out.UpdateOutputData(testContext())
	assert.ErrorIs(t, err, ErrRegionNotBuffered)
}
