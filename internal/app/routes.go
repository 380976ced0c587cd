package app

import (
	"github.com/complyview/complyview/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Dashboard
	r.HandleFunc("/api/dashboard", deps.DashboardHandler.GetDashboard).Methods("GET")

	// Raw snapshot grid
	r.HandleFunc("/api/snapshot", deps.DashboardHandler.GetSnapshot).Methods("GET")
}
