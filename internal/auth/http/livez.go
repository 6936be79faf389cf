package http

import (
	"net/http"
	"time"

	"github.com/quillworks/quill/pkg/authsdk"
	"github.com/quillworks/quill/pkg/httpx"
)

// LivezHandler is the liveness probe. It returns 200 whenever the process
// is up, along with uptime and version information.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
