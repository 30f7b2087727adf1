// Package api exposes the simulator and the trend comparison over HTTP.
//
//	POST /api/calculate       simulate a monthly investment plan
//	POST /api/compare_trends  align two daily series and correlate them
//	GET  /health              liveness
//	GET  /                    static web application
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter returns the router of the web application.
// Static files are served from the static folder, if not empty.
func NewRouter(h *Handler, static string) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestID, Logging("/health"), Recovery)

	router.HandleFunc("/health", h.Health).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/calculate", h.Calculate).Methods("POST")
	api.HandleFunc("/compare_trends", h.CompareTrends).Methods("POST")

	if static != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(static))).Methods("GET", "HEAD")
	}
	return router
}
