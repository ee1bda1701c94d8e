// Package web embeds the html templates and static assets served by the
// matricula pages.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/noah-isme/matricula-admin/internal/presentation"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page template with the presentation helpers.
func Templates() (*template.Template, error) {
	return template.New("matricula").Funcs(presentation.FuncMap()).ParseFS(templateFS, "templates/*.tmpl")
}

// MustTemplates is Templates for program start-up.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static serves the css and js bundle.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
