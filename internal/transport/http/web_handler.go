package http

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// WebHandler serves the embedded single-page upload UI.
type WebHandler struct {
	static http.Handler
}

// NewWebHandler creates the static page handler.
func NewWebHandler() *WebHandler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embedded tree always contains static/; reaching this
		// means a broken build.
		panic(err)
	}
	return &WebHandler{static: http.FileServer(http.FS(sub))}
}

// Index handles GET / with the upload page.
func (h *WebHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// Static returns the handler for GET /static/* assets.
func (h *WebHandler) Static() http.Handler {
	return http.StripPrefix("/static/", h.static)
}
