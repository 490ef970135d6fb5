package rest

import (
	"net/http"
	"sort"
)

func (r *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyz reports ready only when the model is loaded and every configured
// dependency check passes.
func (r *Router) readyz(w http.ResponseWriter, req *http.Request) {
	checks := map[string]string{"model": "ok"}
	ready := true

	if !r.deps.Describe.Status().ModelLoaded {
		checks["model"] = "not loaded"
		ready = false
	}

	names := make([]string, 0, len(r.deps.Checks))
	for name := range r.deps.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.deps.Checks[name](req.Context()); err != nil {
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not ready", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{"status": status, "checks": checks})
}
