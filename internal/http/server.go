// Package http hosts the webhook server that receives Telegram updates and
// hands message text to the bot processor.
package http

import (
	"context"
	"net/http"
	"sync"

	"chitieu/internal/bot"
	applog "chitieu/internal/log"
	"chitieu/internal/middleware/ratelimit"
	"chitieu/internal/middleware/security"
	"chitieu/internal/middleware/trace"
)

type Server struct {
	http.Server

	processor *bot.Processor

	rateLimiter  *ratelimit.Limiter
	detector     *security.Detector
	traceMW      *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, processor *bot.Processor) *Server {
	s := &Server{
		processor:   processor,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:    security.NewDetector(),
	}
	s.traceMW = trace.NewMiddleware(s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/statusz", s.handleStatus)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.rateLimiter.Middleware(s.detector.ExtractClientIP, nil)
	logged := applog.Middleware(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP))

	handler := s.traceMW.Middleware(logged(headers.Middleware(limited(s.detectProbes(mux)))))

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}

	return s
}

// detectProbes counts suspicious requests before routing. Telegram is the
// only legitimate caller, so probes are logged and rejected early.
func (s *Server) detectProbes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
