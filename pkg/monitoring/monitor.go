package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// AnswerCounter 按题型与判定结果统计作答次数
	AnswerCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_total",
			Help: "Graded answers by question type and result",
		},
		[]string{"type", "correct"},
	)

	// GradeMismatchCounter 客户端上报的 is_correct 与服务端判定不一致
	GradeMismatchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_grade_mismatch_total",
			Help: "Submissions whose client verdict differs from the server verdict",
		},
		[]string{"type"},
	)

	HeartsLostCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_hearts_lost_total",
			Help: "Hearts lost on incorrect answers",
		},
	)

	LevelsCompletedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_levels_completed_total",
			Help: "Levels marked completed",
		},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AnswerCounter)
		prometheus.MustRegister(GradeMismatchCounter)
		prometheus.MustRegister(HeartsLostCounter)
		prometheus.MustRegister(LevelsCompletedCounter)
	})
}

// ObserveAnswer 记录一次判题结果
func ObserveAnswer(questionType string, correct bool) {
	AnswerCounter.WithLabelValues(questionType, strconv.FormatBool(correct)).Inc()
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
