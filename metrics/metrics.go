package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration HTTP 请求耗时（秒），按 method/path/status 分组
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal HTTP 请求计数
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginTotal 登录次数，result 为 success/failure
	LoginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expensetracker_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	// ExpenseOpsTotal 消费记录写操作计数，op 为 create/update/delete
	ExpenseOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expensetracker_expense_operations_total",
			Help: "Expense write operations by type",
		},
		[]string{"op"},
	)

	// SessionsPurgedTotal 定时任务清理的过期会话数
	SessionsPurgedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expensetracker_sessions_purged_total",
			Help: "Expired sessions removed by the purge job",
		},
	)
)

func init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, LoginTotal, ExpenseOpsTotal, SessionsPurgedTotal)
}

// RecordRequest 记录一次 HTTP 请求，path 应为路由模板以控制标签基数
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLogin 记录登录结果
func RecordLogin(success bool) {
	if success {
		LoginTotal.WithLabelValues("success").Inc()
		return
	}
	LoginTotal.WithLabelValues("failure").Inc()
}

// RecordExpenseOp 记录消费记录写操作
func RecordExpenseOp(op string) {
	ExpenseOpsTotal.WithLabelValues(op).Inc()
}

// AddSessionsPurged 累加清理的会话数
func AddSessionsPurged(n int64) {
	if n > 0 {
		SessionsPurgedTotal.Add(float64(n))
	}
}
