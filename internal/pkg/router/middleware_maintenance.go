package router

import (
	"net/http"

	"github.com/shandysiswandi/greenvista/internal/pkg/config"
)

// middlewareMaintenance answers 503 for route patterns listed in
// app.maintenance.endpoints. The list is read once at startup.
func middlewareMaintenance(cfg config.Config) Middleware {
	blocked := make(map[string]struct{})
	if cfg != nil {
		for _, endpoint := range cfg.GetArray("app.maintenance.endpoints") {
			blocked[endpoint] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(blocked) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := blocked[matchedRoutePath(r)]; ok {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
