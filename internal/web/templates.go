package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var tmplFS embed.FS

var (
	listTmpl     = template.Must(template.ParseFS(tmplFS, "templates/list.html"))
	detailTmpl   = template.Must(template.ParseFS(tmplFS, "templates/detail.html"))
	notFoundTmpl = template.Must(template.ParseFS(tmplFS, "templates/notfound.html"))
)
