package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics структура для метрик Prometheus
type Metrics struct {
	UpdatesProcessed     prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
	ErrorsTotal          prometheus.Counter
	RateLimited          prometheus.Counter
	CommandsRouted       *prometheus.CounterVec
	ReportsBuilt         *prometheus.CounterVec
	ChunksSent           prometheus.Counter
	RecordingsSent       prometheus.Counter
	RecordingsMissing    prometheus.Counter
}

// NewMetrics создает метрики и регистрирует их в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpdatesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdrbot_updates_processed_total",
			Help: "Total number of Telegram updates processed",
		}),
		UpdateProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cdrbot_update_processing_time_seconds",
			Help:    "Time spent processing updates",
			Buckets: prometheus.DefBuckets,
		}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdrbot_errors_total",
			Help: "Handler errors and recovered panics",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdrbot_rate_limited_total",
			Help: "Updates dropped by the per-user rate limit",
		}),
		CommandsRouted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cdrbot_commands_routed_total",
			Help: "Messages dispatched by route",
		}, []string{"route"}),
		ReportsBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cdrbot_reports_built_total",
			Help: "Call reports shown by scene",
		}, []string{"scene"}),
		ChunksSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdrbot_report_chunks_sent_total",
			Help: "Report messages sent",
		}),
		RecordingsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdrbot_recordings_sent_total",
			Help: "Call recordings sent as audio",
		}),
		RecordingsMissing: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdrbot_recordings_missing_total",
			Help: "Requested recordings not found on disk",
		}),
	}
}
