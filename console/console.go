// Package console serves the operator web page.
package console

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// Handler serves files from dir, or the embedded console when dir is empty.
func Handler(dir string) http.Handler {
	if dir != "" {
		return http.FileServer(http.Dir(dir))
	}

	sub, err := fs.Sub(static, "static")
	if err != nil {
		// The embedded directory always exists
		panic(err)
	}

	return http.FileServer(http.FS(sub))
}
