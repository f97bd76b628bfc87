package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "corncobs",
			Subsystem: "frame",
			Name:      "frames_read_total",
			Help:      "Frames successfully extracted and decoded from the stream.",
		},
	)
	framesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "corncobs",
			Subsystem: "frame",
			Name:      "frames_written_total",
			Help:      "Frames encoded and written to the stream.",
		},
	)
	payloadBytesRead = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "corncobs",
			Subsystem: "frame",
			Name:      "payload_bytes_read_total",
			Help:      "Decoded payload bytes delivered to callers.",
		},
	)
	payloadBytesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "corncobs",
			Subsystem: "frame",
			Name:      "payload_bytes_written_total",
			Help:      "Payload bytes accepted for framing.",
		},
	)
	noFrame = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corncobs",
			Subsystem: "frame",
			Name:      "no_frame_total",
			Help:      "Reads that ended without a frame, by terminal outcome.",
		},
		[]string{"reason"},
	)
	decodeErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "corncobs",
			Subsystem: "frame",
			Name:      "decode_errors_total",
			Help:      "Frames whose stuffed encoding could not be inverted.",
		},
	)
	checksumErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "corncobs",
			Subsystem: "packet",
			Name:      "checksum_errors_total",
			Help:      "Unpacked buffers whose checksum trailer disagreed.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			framesRead, framesWritten,
			payloadBytesRead, payloadBytesWritten,
			noFrame, decodeErrors, checksumErrors,
		)
	})
}

func RecordFrameRead(payloadLen int) {
	RegisterMetrics()
	framesRead.Inc()
	payloadBytesRead.Add(float64(payloadLen))
}

func RecordFrameWritten(payloadLen int) {
	RegisterMetrics()
	framesWritten.Inc()
	payloadBytesWritten.Add(float64(payloadLen))
}

func RecordNoFrame(reason string) {
	RegisterMetrics()
	noFrame.WithLabelValues(reason).Inc()
}

func RecordDecodeError() {
	RegisterMetrics()
	decodeErrors.Inc()
}

func RecordChecksumError() {
	RegisterMetrics()
	checksumErrors.Inc()
}
