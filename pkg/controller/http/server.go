// Package http exposes the dashboard backend as a JSON API
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/safesight-lab/safesight/pkg/usecase"
	"github.com/safesight-lab/safesight/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Delete("/chat", s.handleChatClear)

		r.Route("/clustering", func(r chi.Router) {
			r.Post("/run", s.handleClusteringRun)
			r.Get("/last", s.handleClusteringLast)
		})

		r.Route("/severity", func(r chi.Router) {
			r.Post("/predict", s.handleSeverityPredict)
			r.Post("/retrain", s.handleSeverityRetrain)
		})

		r.Route("/incidents", func(r chi.Router) {
			r.Post("/", s.handleIncidentSubmit)
			r.Get("/", s.handleIncidentList)
		})

		r.Get("/options", s.handleOptions)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger logs one line per HTTP request
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
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
