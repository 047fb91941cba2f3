// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/samber/oops"
)

//go:embed templates/*.html
var templateFS embed.FS

// standalonePages render as complete documents; the rest hang off base.html.
var standalonePages = map[string]bool{
	"signup.html": true,
	"login.html":  true,
}

// parseTemplates loads every page template from the embedded filesystem.
func parseTemplates() (map[string]*template.Template, error) {
	pages := map[string]*template.Template{}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, oops.Code("TEMPLATE_PARSE_FAILED").Wrap(err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if name == "base.html" {
			continue
		}

		var tmpl *template.Template
		if standalonePages[name] {
			tmpl, err = template.ParseFS(templateFS, "templates/"+name)
		} else {
			tmpl, err = template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
		}
		if err != nil {
			return nil, oops.Code("TEMPLATE_PARSE_FAILED").
				With("page", name).
				Wrap(err)
		}
		pages[name] = tmpl
	}

	return pages, nil
}

// render writes a page to the response. Standalone pages execute the whole
// template, layout pages execute the "base" definition.
func (h *Handlers) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := h.pages[page]
	if !ok {
		slog.Error("unknown template page", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	var err error
	if standalonePages[page] {
		err = tmpl.Execute(w, data)
	} else {
		err = tmpl.ExecuteTemplate(w, "base", data)
	}
	if err != nil {
		slog.Error("template render failed", "page", page, "error", err)
	}
}
