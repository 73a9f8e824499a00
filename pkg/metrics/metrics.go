// Package metrics 提供基于Prometheus的指标收集
//
// 指标类型速记：
// - Counter：只增不减（借阅总数、错误总数）
// - Gauge：可增可减的瞬时值（处理中的请求数）
// - Histogram：观测值分布（请求耗时，自动计算P50/P90/P99）
//
// 使用方式：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	// 业务代码中
//	metrics.EmpruntsCreesTotal.Inc()
//	metrics.EmpruntCreationDuration.Observe(time.Since(start).Seconds())
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 借阅业务指标

	// EmpruntsCreesTotal 借阅创建总数（Counter）
	EmpruntsCreesTotal prometheus.Counter

	// EmpruntsEchouesTotal 借阅创建失败总数（Counter）
	// 标签：raison（introuvable/inactif/indisponible/deja_emprunte/interne）
	EmpruntsEchouesTotal *prometheus.CounterVec

	// EmpruntsRetournesTotal 归还总数（Counter）
	EmpruntsRetournesTotal prometheus.Counter

	// EmpruntsEnRetardTotal 标记为逾期的借阅总数（Counter）
	// 懒惰重评估（查询时转换EN_COURS→EN_RETARD）每标记一条递增一次
	EmpruntsEnRetardTotal prometheus.Counter

	// EmpruntCreationDuration 借阅创建耗时（Histogram）
	// 包含事务内的行锁等待时间
	EmpruntCreationDuration prometheus.Histogram

	// 缓存指标

	// CacheRequestsTotal 缓存请求总数（Counter）
	// 标签：cache（livre_detail/livre_recherche）、result（hit/miss/error）
	CacheRequestsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数（Counter）
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数（Counter）
	// 标签：queue、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次，注册所有指标到默认Registry
func InitMetrics() {
	// 防止重复初始化（如测试中多次调用）
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 借阅业务指标
	EmpruntsCreesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emprunts_crees_total",
			Help: "借阅创建总数",
		},
	)

	EmpruntsEchouesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emprunts_echoues_total",
			Help: "借阅创建失败总数",
		},
		[]string{"raison"},
	)

	EmpruntsRetournesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emprunts_retournes_total",
			Help: "归还总数",
		},
	)

	EmpruntsEnRetardTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emprunts_en_retard_total",
			Help: "标记为逾期的借阅总数",
		},
	)

	EmpruntCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "emprunt_creation_duration_seconds",
			Help:    "借阅创建耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	// 缓存指标
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "缓存请求总数",
		},
		[]string{"cache", "result"},
	)

	// 熔断器指标
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}
