// Package metrics 定义进程内的 Prometheus 指标，启动时调用 Register 注册一次。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmchat_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dmchat_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	AuthRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmchat_auth_rejections_total",
			Help: "Total number of rejected authentications",
		},
		[]string{"reason"},
	)
	OnlineChannels = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dmchat_online_channels",
			Help: "Number of live channels in the presence registry",
		},
	)
	MessagesRouted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dmchat_messages_routed_total",
			Help: "Routed messages by outcome",
		},
		[]string{"result"},
	)
	FanoutPushes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dmchat_fanout_pushes_total",
			Help: "Frames enqueued to live channels by the delivery router",
		},
	)
)

// 路由结果标签
const (
	ResultDelivered = "delivered"
	ResultOffline   = "offline"
	ResultInvalid   = "invalid"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

var registerOnce sync.Once

// Register 注册全部指标，重复调用无副作用
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AuthRejections,
			OnlineChannels,
			MessagesRouted,
			FanoutPushes,
		)
	})
}
