package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Viewer metrics collectors
var (
	FramesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "browsercontrol_frames_received_total",
			Help: "Binary frame payloads received on the streaming channel",
		},
	)

	FramesPainted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "browsercontrol_frames_painted_total",
			Help: "Decoded frames painted onto the display surface",
		},
	)

	FrameDecodeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "browsercontrol_frame_decode_errors_total",
			Help: "Frame payloads that could not be decoded",
		},
	)

	FrameDecodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "browsercontrol_frame_decode_duration_seconds",
			Help:    "Time spent decoding one frame payload",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	InputEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "browsercontrol_input_events_total",
			Help: "Input events by action and outcome (sent, dropped, error)",
		},
		[]string{"action", "outcome"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "browsercontrol_status_transitions_total",
			Help: "Connection status transitions by target state",
		},
		[]string{"state"},
	)
)

// Host metrics collectors
var (
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "browsercontrol_host_sessions_active",
			Help: "Number of provisioned remote browser sessions",
		},
	)

	SessionOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "browsercontrol_host_session_operations_total",
			Help: "Session API operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	FramesStreamed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "browsercontrol_host_frames_streamed_total",
			Help: "Frames written to viewer connections",
		},
	)

	ActionsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "browsercontrol_host_actions_total",
			Help: "Inbound input actions by action and status",
		},
		[]string{"action", "status"},
	)
)
