package server

import (
	"embed"
	"net/http"
)

//go:embed static/index.html
var staticFS embed.FS

// handleIndex serves the single-page dashboard shell. Charts and tables render
// client-side from the JSON API; the server only ships this page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "index unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
