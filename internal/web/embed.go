package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const pngDataURLPrefix = "data:image/png;base64,"

var templateFuncs = template.FuncMap{
	// qrSrc trusts only PNG data URLs produced by the image coercer.
	"qrSrc": func(s string) template.URL {
		if !strings.HasPrefix(s, pngDataURLPrefix) {
			return ""
		}
		return template.URL(s) //nolint:gosec // prefix checked above
	},
	"lines": func(s string) []string {
		if s == "" {
			return nil
		}
		return strings.Split(s, "\n")
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// StaticHandler serves the embedded stylesheet and images.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
