// Package httpapi serves the to-do list and image references over HTTP,
// with a websocket that pushes every change.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/model"
)

const shutdownGrace = 5 * time.Second

// Service is the controller surface exposed over HTTP.
type Service interface {
	AddTodo(title string)
	DeleteTodo(id int64)
	AddImageRef(ref model.ImageRef)
	ImageRefs() []model.ImageRef
	Todos(ctx context.Context) <-chan []model.TodoItem
	Images(ctx context.Context) <-chan []model.ImageRef
}

type Config struct {
	Addr           string
	CORSOrigins    []string
	Token          string
	// TokenExpiresAt, when set, stops Token from being accepted after it.
	TokenExpiresAt *time.Time
	Now            func() time.Time
}

type Server struct {
	svc      Service
	cfg      Config
	router   chi.Router
	upgrader websocket.Upgrader
}

func New(svc Service, cfg Config) *Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Server{svc: svc, cfg: cfg}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 32 * 1024,
		CheckOrigin:     s.allowOrigin,
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(requireToken(s.cfg.Token, s.cfg.TokenExpiresAt, s.cfg.Now))

	// simple cross-site form posts carry text/plain and skip the preflight
	jsonOnly := middleware.AllowContentType("application/json")

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", s.listTodos)
		r.With(jsonOnly).Post("/", s.createTodo)
		r.Delete("/{id}", s.deleteTodo)
	})
	r.Route("/images", func(r chi.Router) {
		r.Get("/", s.listImages)
		r.With(jsonOnly).Post("/", s.attachImage)
	})
	r.Get("/ws", s.liveFeed)
	return r
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr).Msg("Starting up HTTP server.")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("grace", shutdownGrace).Msg("Shutting down HTTP server.")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
