// Package web serves the server-rendered login, sign-up and dashboard
// pages. The pages talk to the JSON API with fetch.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	Title string
}

type Pages struct {
	tmpl   *template.Template
	logger *slog.Logger
}

func NewPages(logger *slog.Logger) (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Pages{tmpl: tmpl, logger: logger}, nil
}

// RegisterRoutes mounts the pages. Access control is left to the route
// gate middleware.
func (p *Pages) RegisterRoutes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	r.Get("/auth/login", p.render("login.html", "Sign in"))
	r.Get("/auth/sign-up", p.render("signup.html", "Create account"))
	r.Get("/dashboard", p.render("dashboard.html", "Dashboard"))
	r.Get("/dashboard/*", p.render("dashboard.html", "Dashboard"))
}

func (p *Pages) render(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := p.tmpl.ExecuteTemplate(&buf, name, pageData{Title: title}); err != nil {
			p.logger.ErrorContext(r.Context(), "failed to render page", "page", name, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}
