// Package metrics holds the Prometheus collectors for the streaming engine.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	LabelStage  = "stage"
	LabelSource = "source"
	LabelReason = "reason"
)

var (
	// StreamingSteps counts unit windows processed by each stage.
	StreamingSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "video_mcp",
		Subsystem: "temporal",
		Name:      "streaming_steps_total",
		Help:      "Total number of unit windows processed by a stage",
	}, []string{LabelStage})

	// FramesProduced counts output frames committed by each stage.
	FramesProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "video_mcp",
		Subsystem: "temporal",
		Name:      "frames_produced_total",
		Help:      "Total number of output frames committed by a stage",
	}, []string{LabelStage})

	// RegionErrors counts fatal errors raised while streaming.
	RegionErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "video_mcp",
		Subsystem: "temporal",
		Name:      "errors_total",
		Help:      "Total number of fatal streaming errors by reason",
	}, []string{LabelStage, LabelReason})

	// FramesDecoded counts frames decoded from disk by a source.
	FramesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "video_mcp",
		Subsystem: "video",
		Name:      "frames_decoded_total",
		Help:      "Total number of frames decoded from storage",
	}, []string{LabelSource})

	// FramesWritten counts frames written by sequence writers.
	FramesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "video_mcp",
		Subsystem: "video",
		Name:      "frames_written_total",
		Help:      "Total number of frames written to disk",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes Handler on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
