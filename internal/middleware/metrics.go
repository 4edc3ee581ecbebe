package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 요청 총 수
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTP 요청 처리 시간 (히스토그램)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// 현재 처리 중인 HTTP 요청 수
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// 인증 실패 수 (원인별)
	authFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Total number of rejected authentication attempts",
		},
		[]string{"reason"},
	)

	// 쿨다운으로 거부된 글 작성/수정 수
	rateLimitRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_rejections_total",
			Help: "Total number of writes and edits rejected by the cooldown",
		},
		[]string{"action"},
	)

	revokedTokensEvictedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revoked_tokens_evicted_total",
			Help: "Total number of expired revocation entries removed",
		},
		[]string{"source"},
	)
)

// MetricsMiddleware는 HTTP 요청에 대한 Prometheus 메트릭을 수집합니다.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 요청 시작 시간
		start := time.Now()

		// 처리 중인 요청 수 증가
		httpRequestsInFlight.Inc()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		// 요청 처리
		c.Next()

		// 처리 중인 요청 수 감소
		httpRequestsInFlight.Dec()

		// 메트릭 기록
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// RecordAuthFailure는 인증 실패 메트릭을 기록합니다.
func RecordAuthFailure(reason string) {
	authFailuresTotal.WithLabelValues(reason).Inc()
}

// RecordRateLimitRejection은 쿨다운 거부 메트릭을 기록합니다.
func RecordRateLimitRejection(action string) {
	rateLimitRejectionsTotal.WithLabelValues(action).Inc()
}

// RecordTokenEvictions는 만료된 철회 항목 제거 메트릭을 기록합니다.
func RecordTokenEvictions(count int64, source string) {
	if count > 0 {
		revokedTokensEvictedTotal.WithLabelValues(source).Add(float64(count))
	}
}
