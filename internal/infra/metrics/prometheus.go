package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bjj_classifications_total",
		Help: "Total number of clips classified, by winning category",
	}, []string{"category"})

	PipelineStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bjj_pipeline_stage_duration_seconds",
		Help:    "Duration of classification pipeline stages",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"stage"})

	CorpusExamplesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bjj_corpus_examples_total",
		Help: "Training examples processed during corpus builds, by outcome",
	}, []string{"status"})

	FramesSampledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bjj_frames_sampled_total",
		Help: "Total number of frames decoded across all clips",
	})

	ActiveRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bjj_active_classification_requests",
		Help: "Number of classification requests currently in flight",
	})
)
