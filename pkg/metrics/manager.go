package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// defaultDurationBuckets 回合时长分桶（秒）：停音 5-30 秒再加宽限
var defaultDurationBuckets = []float64{5, 10, 15, 20, 25, 30, 35, 40, 60}

// Manager 对局统计，实现 systems.RoundRecorder
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	roundsStarted prometheus.Counter
	musicStops    *prometheus.CounterVec
	slotCaptures  *prometheus.CounterVec
	roundDuration prometheus.Histogram
	roundScores   *prometheus.GaugeVec
	gamesFinished *prometheus.CounterVec
	roundsPerGame prometheus.Histogram
}

// NewManager 创建统计管理器，未指定注册表时使用独立的 Registry
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "chairs",
		subsystem:        "match",
		histogramBuckets: defaultDurationBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics 创建所有 Prometheus 指标
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.roundsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_started_total",
		Help:      "Total number of rounds started",
	})

	m.musicStops = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "music_stops_total",
			Help:      "Total number of music stops by source (deadline or natural)",
		},
		[]string{"source"},
	)

	m.slotCaptures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "slot_captures_total",
			Help:      "Total number of slot captures by occupant",
		},
		[]string{"occupant"},
	)

	m.roundDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "round_duration_seconds",
		Help:      "Simulated time from round start to resolution",
		Buckets:   m.histogramBuckets,
	})

	m.roundScores = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "score",
			Help:      "Score of each actor after the last resolved round",
		},
		[]string{"actor"},
	)

	m.gamesFinished = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "games_finished_total",
			Help:      "Total number of finished games by winner",
		},
		[]string{"winner"},
	)

	m.roundsPerGame = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_per_game",
		Help:      "Number of rounds played per finished game",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	})
}

// RoundStarted 记录回合开始
func (m *Manager) RoundStarted(int) {
	m.roundsStarted.Inc()
}

// MusicStopped 按来源（deadline / natural）记录停音
func (m *Manager) MusicStopped(source string, _ float64) {
	m.musicStops.WithLabelValues(source).Inc()
}

// SlotCaptured 记录一次占领
func (m *Manager) SlotCaptured(occupant string) {
	m.slotCaptures.WithLabelValues(occupant).Inc()
}

// RoundResolved 记录结算分数和回合时长
func (m *Manager) RoundResolved(boy, girl int, duration float64) {
	m.roundScores.WithLabelValues("Boy").Set(float64(boy))
	m.roundScores.WithLabelValues("Girl").Set(float64(girl))
	m.roundDuration.Observe(duration)
}

// GameOver 记录游戏结束
func (m *Manager) GameOver(winner string, rounds int) {
	m.gamesFinished.WithLabelValues(winner).Inc()
	m.roundsPerGame.Observe(float64(rounds))
}

// Registry 返回指标所在的注册表
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回输出指标的 HTTP handler
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
