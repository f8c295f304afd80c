package statsd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	log "github.com/sirupsen/logrus"

	"prediction-service/internal/config"
	"prediction-service/internal/core/domain"
	ports "prediction-service/internal/core/ports/output"
)

const (
	PredictionCount      = "prediction_count"
	PredictionLatency    = "prediction_latency"
	ValidationErrorCount = "validation_error_count"
	InferenceErrorCount  = "inference_error_count"
	ModelLoaded          = "model_loaded"
)

type recorder struct {
	client     statsd.ClientInterface
	sampleRate float64
}

// NewRecorder creates a statsd-backed metrics recorder. When metrics are
// disabled every call is a no-op.
func NewRecorder(cfg *config.MetricsConfig) (ports.MetricsRecorder, error) {
	if !cfg.Enabled {
		return &recorder{client: &statsd.NoOpClient{}, sampleRate: 1}, nil
	}

	opts := []statsd.Option{statsd.WithTags(cfg.Tags)}
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	client, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("create statsd client: %w", err)
	}

	rate := cfg.SampleRate
	if rate <= 0 || rate > 1 {
		rate = 1
	}
	log.Infof("statsd metrics enabled, address %s, tags %v, sample rate %.2f", cfg.Addr, cfg.Tags, rate)
	return NewRecorderWithClient(client, rate), nil
}

func NewRecorderWithClient(client statsd.ClientInterface, sampleRate float64) ports.MetricsRecorder {
	return &recorder{client: client, sampleRate: sampleRate}
}

func (r *recorder) PredictionServed(label domain.Label, cacheHit bool, latency time.Duration) {
	tags := []string{"label:" + string(label), "cache_hit:" + strconv.FormatBool(cacheHit)}
	r.warn(r.client.Incr(PredictionCount, tags, r.sampleRate))
	r.warn(r.client.Timing(PredictionLatency, latency, tags, r.sampleRate))
}

func (r *recorder) ValidationFailed(fields int) {
	r.warn(r.client.Count(ValidationErrorCount, int64(fields), nil, r.sampleRate))
}

func (r *recorder) InferenceFailed() {
	r.warn(r.client.Incr(InferenceErrorCount, nil, r.sampleRate))
}

func (r *recorder) ModelLoaded(name string, kind domain.ModelKind) {
	tags := []string{"model:" + name, "kind:" + string(kind)}
	r.warn(r.client.Gauge(ModelLoaded, 1, tags, 1))
}

func (r *recorder) warn(err error) {
	if err != nil {
		log.WithError(err).Warn("statsd write failed")
	}
}
