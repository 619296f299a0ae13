package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(StreamingSteps.WithLabelValues("metrics-test"))
	StreamingSteps.WithLabelValues("metrics-test").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(StreamingSteps.WithLabelValues("metrics-test")))

	RegionErrors.WithLabelValues("metrics-test", "invalid_region").Add(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(RegionErrors.WithLabelValues("metrics-test", "invalid_region")))
}

func TestHandler(t *testing.T) {
	FramesWritten.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "video_mcp_video_frames_written_total"))
}
