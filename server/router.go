package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// NewRouter wires the HTTP routes and wraps them with request logging and
// the metrics counter.
func NewRouter(logger *slog.Logger, api *APIHandlers, metrics *Metrics) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, statusResponse{Status: "ok"})
	})

	mux.HandleFunc("/v1/membership", api.handleMembership)
	mux.HandleFunc("/v1/members/", api.handleMembers)
	mux.HandleFunc("/v1/cases", api.handleCases)
	mux.HandleFunc("/v1/cases/", api.handleCase)
	mux.HandleFunc("/v1/lawyers", api.handleLawyers)
	mux.HandleFunc("/v1/lawyers/", api.handleLawyer)
	mux.HandleFunc("/v1/incidents", api.handleIncidents)
	mux.HandleFunc("/v1/incidents/", api.handleIncident)
	mux.HandleFunc("/v1/sweep", api.handleSweep)
	mux.HandleFunc("/v1/relay", api.handleRelay)
	mux.HandleFunc("/v1/proposals", api.handleProposals)
	mux.HandleFunc("/v1/proposals/", api.handleProposal)

	return loggingMiddleware(logger, metrics, mux)
}

func loggingMiddleware(logger *slog.Logger, metrics *Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		if metrics != nil {
			metrics.observe(routeLabel(r.URL.Path), strconv.Itoa(rec.status))
		}
	})
}

// routeLabel collapses paths with embedded ids so the metrics cardinality
// stays bounded.
func routeLabel(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if _, err := strconv.ParseUint(p, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return "/" + strings.Join(parts, "/")
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
