package http

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/usecase"
	"github.com/secmon-lab/rosterform/pkg/utils/logging"
)

//go:embed templates/*.html.tmpl
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// PageText is the static copy shown on the form page
type PageText struct {
	Title          string
	Description    string
	SuccessTitle   string
	SuccessMessage string
}

type Server struct {
	router       *chi.Mux
	formUC       *usecase.FormUseCase
	page         PageText
	secureCookie bool
	templates    *template.Template
}

type Options func(*Server)

func WithPageText(page PageText) Options {
	return func(s *Server) {
		s.page = page
	}
}

// WithSecureCookie marks the session cookie as Secure (HTTPS only)
func WithSecureCookie(enabled bool) Options {
	return func(s *Server) {
		s.secureCookie = enabled
	}
}

func New(formUC *usecase.FormUseCase, opts ...Options) (*Server, error) {
	r := chi.NewRouter()

	tmpl, err := template.ParseFS(templateFiles, "templates/*.html.tmpl")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse page templates")
	}

	s := &Server{
		router:    r,
		formUC:    formUC,
		templates: tmpl,
		page: PageText{
			Title:          "Dynamic Form Builder",
			SuccessTitle:   "Success!",
			SuccessMessage: "The form data has been added.",
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to bind static dir")
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handlePage)
		r.Post("/", s.handlePagePost)

		r.Route("/api/form", func(r chi.Router) {
			r.Get("/", s.handleGetForm)
			r.Post("/fields", s.handleAddField)
			r.Patch("/fields/{fieldID}", s.handleUpdateField)
			r.Delete("/fields/{fieldID}", s.handleRemoveField)
			r.Post("/validate", s.handleValidate)
			r.Post("/submit", s.handleSubmit)
		})
	})

	r.NotFound(s.handleNotFound)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
