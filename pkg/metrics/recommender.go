package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the recommendation HTTP handlers
	RecommendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of recommendation handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// Total number of recommendation queries served
	RecommendRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_requests_total",
		Help: "Total number of recommendation queries by kind and outcome",
	}, []string{"kind", "outcome"})

	// Cache hits/misses for the similar-anime result cache
	RecommendCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_cache_total",
		Help: "Similar-anime cache lookups by result",
	}, []string{"result"})

	// Training run duration
	TrainDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "model_train_duration_seconds",
		Help:    "Duration of full similarity model training runs",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	})

	// Training runs by outcome
	TrainRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "model_train_runs_total",
		Help: "Count of training runs by outcome",
	}, []string{"outcome"})

	// Numeric suffix of the active model version ("v7" -> 7, "none" -> 0)
	CurrentModelVersion = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "model_current_version",
		Help: "Numeric suffix of the currently active model version",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendRequestsTotal,
		RecommendCacheTotal,
		TrainDuration,
		TrainRunsTotal,
		CurrentModelVersion,
	)
}
