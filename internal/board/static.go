// ABOUTME: Serves embedded static assets (stylesheet) for the board UI
// ABOUTME: Provides a file server handler to mount under /static/

package board

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// StaticHandler returns an http.Handler serving the embedded static assets.
// The handler expects paths relative to the static root (strip /static/
// before calling). Files are unhashed, so responses are marked no-cache.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("board: failed to create sub filesystem: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fileServer.ServeHTTP(w, r)
	})
}
