// Package server exposes the quiz service over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/hpquiz/internal/logger"
	"github.com/abhisek/hpquiz/internal/service"
)

// QuizService is the subset of service.Service the handlers use.
type QuizService interface {
	StartSession(ctx context.Context) (string, error)
	NextQuestion(ctx context.Context, sessionID string) (*service.NextResult, error)
	SubmitAnswer(ctx context.Context, sessionID, questionID, optionID string) (*service.SubmitResult, error)
	SessionCount() int
}

// Options tunes the HTTP surface.
type Options struct {
	// RevealAnswers includes correct_option_id in served questions.
	RevealAnswers bool
}

// New builds the router.
func New(svc QuizService, log *logger.Logger, opts Options) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &handler{svc: svc, log: log, opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/session/start", h.startSession)
		r.Get("/quiz/next", h.nextQuestion)
		r.Post("/quiz/submit", h.submitAnswer)
	})
	return r
}

// NewHTTPServer wraps handler with the timeouts used by `hpquiz serve`.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				log.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
