package router

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

// content holds our static content.
//
//go:embed templates
var templatesFS embed.FS

// Templates
var baseTempl *template.Template
var indexTempl *template.Template
var editTempl *template.Template

func parseTemplates() {
	baseTempl = template.Must(template.New("base").ParseFS(templatesFS, []string{
		"templates/home.html",
		"templates/partials/banner.html",
	}...))

	indexTempl = template.Must(template.Must(baseTempl.Clone()).ParseFS(templatesFS, []string{
		"templates/pages/index.html",
	}...))

	editTempl = template.Must(template.Must(baseTempl.Clone()).ParseFS(templatesFS, []string{
		"templates/pages/edit.html",
	}...))
}

func (router *router) renderTemplate(w http.ResponseWriter, tmpl *template.Template, data any) {
	err := tmpl.Execute(w, data)
	if err != nil {
		router.logger.Error("failed to render template", "template", tmpl.Name(), "error", err)
		errorMessage := fmt.Sprintf("Internal Server Error: %v", err.Error())
		http.Error(w, errorMessage, http.StatusInternalServerError)
	}
}
