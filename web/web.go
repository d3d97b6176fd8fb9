// Package web holds the embedded HTML templates and builds the view engine.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var files embed.FS

// Engine returns the HTML view engine over the embedded templates.
// Template names are the file paths under templates/ without extension,
// e.g. "index" or "layouts/base".
func Engine() *html.Engine {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("deref", func(p *uint) uint {
		if p == nil {
			return 0
		}
		return *p
	})
	return engine
}
