package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/zappay/zappay-backend/pkg/server"
	"github.com/zappay/zappay-backend/pkg/server/store"
)

const serviceName = "zappay-backend"

// StatusResponse represents the response from /status
type StatusResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// RegisterStatusEndpoints registers the status endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Service banner
	s.Router.HandleFunc("/", handleRoot()).Methods("GET")

	// GET /status - Database connectivity
	s.Router.HandleFunc("/status", handleStatus(s.HealthStore)).Methods("GET")
}

func handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"service": serviceName,
			"status":  "running",
		})
	}
}

func handleStatus(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(StatusResponse{
				Status:   "error",
				Database: "down",
				Error:    "database connectivity check failed",
			})
			return
		}

		_ = json.NewEncoder(w).Encode(StatusResponse{
			Status:   "ok",
			Database: "up",
		})
	}
}
