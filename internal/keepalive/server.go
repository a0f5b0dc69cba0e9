// Package keepalive — HTTP-ответчик для health-check хостинга.
package keepalive

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const service = "voice_relay"

type Server struct {
	srv             *http.Server
	log             *logger.ZapLogger
	shutdownTimeout time.Duration
}

func NewServer(addr string, shutdownTimeout time.Duration, log *logger.ZapLogger) *Server {
	s := &Server{
		log:             log,
		shutdownTimeout: shutdownTimeout,
	}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
	}))
	r.Use(httputil.RecoverMiddleware)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	return r
}

// Run блокируется до отмены ctx или падения листенера.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "keep-alive listening at " + s.srv.Addr,
			Service: service,
		})
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(shCtx)
	}
}

// Supervise запускает Run в своей горутине. Падение листенера логируется
// и не останавливает бота; done закрывается, когда сервер завершился.
func (s *Server) Supervise(ctx context.Context) (done <-chan struct{}) {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		if err := s.Run(ctx); err != nil {
			s.log.Log(logger.LogEntry{
				Level:   "error",
				Message: "keep-alive server stopped",
				Service: service,
				Error:   err,
			})
		}
	}()
	return ch
}
