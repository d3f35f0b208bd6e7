package framework

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// debugRate caps requests to the debug server.
const debugRate = 20

// StageSnapshot is the stack as last seen by the frame loop.
type StageSnapshot struct {
	Depth  int      `json:"depth"`
	Stages []string `json:"stages"`
	Frame  uint64   `json:"frame"`
}

// snapshotStore hands the frame loop's view of the stack to HTTP handlers.
type snapshotStore struct {
	mu   sync.Mutex
	snap StageSnapshot
}

func (s *snapshotStore) set(snap StageSnapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *snapshotStore) get() StageSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// NewDebugRouter serves /health, /metrics and /debug/stages.
func NewDebugRouter(m *Metrics, stages func() StageSnapshot) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(rateLimit(rate.NewLimiter(debugRate, debugRate)))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	r.Get("/debug/stages", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stages())
	})
	return r
}

func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// debugServer is the optional local HTTP endpoint.
type debugServer struct {
	srv *http.Server
	ln  net.Listener
}

func startDebugServer(addr string, h http.Handler, log *slog.Logger) (*debugServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("debug server: %w", err)
	}
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Error("debug server stopped", slog.Any("err", err))
		}
	}()
	log.Info("debug server listening", slog.String("addr", ln.Addr().String()))
	return &debugServer{srv: srv, ln: ln}, nil
}

// Addr returns the bound address.
func (d *debugServer) Addr() string { return d.ln.Addr().String() }

func (d *debugServer) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return d.srv.Shutdown(ctx)
}
