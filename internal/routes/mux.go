// Package routes
package routes

import (
	"net/http"
	"time"

	"github.com/ntentasd/motorsim/internal/metrics"
	"github.com/ntentasd/motorsim/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewMux(app *App) http.Handler {
	mux := http.NewServeMux()

	// health check
	mux.HandleFunc("/healthz", healthHandler)

	// metrics
	mux.Handle("/metrics", promhttp.Handler())

	// predictions
	handle(mux, http.MethodPost, "/predict", app.predictHandler)
	handle(mux, http.MethodPost, "/predict_usage", app.predictUsageHandler)
	handle(mux, http.MethodPost, "/predict_load", app.predictLoadHandler)
	handle(mux, http.MethodPost, "/predict_speed", app.predictSpeedHandler)
	handle(mux, http.MethodPost, "/analyze_start_stop", app.startStopHandler)

	// readings
	handle(mux, http.MethodGet, "/history", app.historyHandler)
	handle(mux, http.MethodGet, "/latest", app.latestHandler)
	handle(mux, http.MethodGet, "/aggregate", app.aggregateHandler)

	// generated datasets
	handle(mux, http.MethodGet, "/summary", app.summaryHandler)

	return utils.WithCORS(mux)
}

// handle registers h for one verb and records its latency.
func handle(mux *http.ServeMux, verb, route string, h http.HandlerFunc) {
	mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != verb {
			utils.ReplyMethodNotAllowed(w)
			return
		}

		start := time.Now()
		defer func() {
			metrics.HttpRequestLatencySeconds.WithLabelValues(verb, route).Observe(time.Since(start).Seconds())
		}()

		h(w, r)
	})
}
