package main

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"quotedesk/constants"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"index",
	"login",
	"register",
	"dashboard",
	"success",
	"admin_messages",
	"sitemap",
}

var pageTemplates = loadPageTemplates()

var templateFuncs = template.FuncMap{
	"price": func(p *float64) string {
		if p == nil {
			return "-"
		}
		return formatPrice(*p)
	},
	"stamp": func(t time.Time) string {
		return t.Format(constants.UPDATE_TIMESTAMP_LAYOUT)
	},
}

func loadPageTemplates() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			log.Fatalf("Error parsing %s template: %v", name, err)
		}
		pages[name] = tmpl
	}
	return pages
}

type pageData struct {
	CurrentUser *User
	Flashes     []Flash
	Data        any
}

// renderTemplate renders a page inside the shared layout. Extra flashes are
// shown alongside any carried over from a redirect.
func renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any, extra ...Flash) {
	tmpl, ok := pageTemplates[name]
	if !ok {
		http.Error(w, "Unknown page", http.StatusInternalServerError)
		return
	}

	templateData := pageData{
		CurrentUser: currentUser(r),
		Flashes:     append(popFlashes(w, r), extra...),
		Data:        data,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", templateData); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
