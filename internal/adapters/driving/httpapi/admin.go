package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/philiph/orglogo/internal/core/ports"
)

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status          string `json:"status"`
	DirectoryFresh  bool   `json:"directory_fresh"`
	OrgCount        int    `json:"org_count"`
	LastSuccessTime string `json:"last_success_time,omitempty"`
	LastError       string `json:"last_error,omitempty"`
}

// NewAdminMux builds the admin listener mux with /healthz and /metrics.
// The service is degraded (503) when the directory has never loaded;
// a stale-but-populated directory still reports healthy, matching the
// stale-serve behavior of the stores.
func NewAdminMux(orgs ports.OrganizationStore) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		health := orgs.Health()

		resp := healthResponse{
			Status:         "ok",
			DirectoryFresh: health.IsFresh,
			OrgCount:       health.OrgCount,
		}
		if !health.LastSuccessTime.IsZero() {
			resp.LastSuccessTime = health.LastSuccessTime.Format(time.RFC3339)
		}
		if health.LastError != nil {
			resp.LastError = health.LastError.Error()
		}

		status := http.StatusOK
		if health.OrgCount == 0 && !health.IsFresh {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
