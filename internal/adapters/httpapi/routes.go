// Package httpapi exposes a read-only JSON view of the journal and the Prometheus endpoint.
package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes. metricsHandler may be nil.
func SetupRoutes(handler *Handler, metricsHandler http.Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods("GET")
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/trades/active", handler.GetActiveTrades).Methods("GET")
	api.HandleFunc("/trades/closed", handler.GetClosedTrades).Methods("GET")
	api.HandleFunc("/trades/{id}", handler.GetTrade).Methods("GET")
	api.HandleFunc("/metrics/summary", handler.GetMetrics).Methods("GET")
	api.HandleFunc("/pairs", handler.GetPairs).Methods("GET")

	return r
}
