// Package metrics exposes Prometheus counters for the render loop, command
// dispatch and NV storage.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	framesRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stripd",
		Subsystem: "render",
		Name:      "frames_total",
		Help:      "Animation frames rendered per kind",
	}, []string{"kind"})

	commandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stripd",
		Subsystem: "command",
		Name:      "handled_total",
		Help:      "Commands handled per name and outcome",
	}, []string{"command", "outcome"})

	commandsQueued = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "stripd",
		Subsystem: "command",
		Name:      "queued",
		Help:      "Commands waiting for the loop",
	})

	// NV commits are the wear-relevant operation.
	storageCommits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stripd",
		Subsystem: "storage",
		Name:      "commits_total",
		Help:      "State commits to non-volatile storage, split by whether the override region was written",
	}, []string{"region"})

	deviceMode = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stripd",
		Subsystem: "device",
		Name:      "mode",
		Help:      "1 for the active device mode, 0 otherwise",
	}, []string{"mode"})
)

// FrameRendered records one animation frame.
func FrameRendered(kind string) {
	framesRendered.WithLabelValues(kind).Inc()
}

// CommandHandled records a dispatched command and its outcome.
func CommandHandled(command, outcome string) {
	commandsHandled.WithLabelValues(command, outcome).Inc()
}

// SetQueued sets the pending command count.
func SetQueued(n int) {
	commandsQueued.Set(float64(n))
}

// StorageCommitted records a commit of the state record.
func StorageCommitted(overrides bool) {
	region := "header"
	if overrides {
		region = "overrides"
	}
	storageCommits.WithLabelValues(region).Inc()
}

// SetMode marks mode as the active one among all.
func SetMode(mode string, all []string) {
	for _, m := range all {
		v := 0.0
		if m == mode {
			v = 1
		}
		deviceMode.WithLabelValues(m).Set(v)
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
