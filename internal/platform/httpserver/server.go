// Package httpserver exposes every context module over one REST surface.
// Route registration lives in per-context server_*.go files; this file holds
// the router, shared middleware, and response helpers.
package httpserver

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	chatservice "statecraft/contexts/community-experience/chat-service"
	marketservice "statecraft/contexts/community-experience/market-service"
	electionresolution "statecraft/contexts/elections/election-resolution"
	bankservice "statecraft/contexts/finance-core/bank-service"
	energyservice "statecraft/contexts/finance-core/energy-service"
	consultingservice "statecraft/contexts/internal-ops/consulting-service"
	billvoting "statecraft/contexts/legislation/bill-voting"
	governmentstructure "statecraft/contexts/legislation/government-structure"
	lobbysystem "statecraft/contexts/legislation/lobby-system"
	moderationservice "statecraft/contexts/moderation-safety/moderation-service"
	crimeservice "statecraft/contexts/underworld/crime-service"
	"statecraft/internal/platform/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "statecraft/internal/platform/httpserver/docs"
)

type Modules struct {
	Government governmentstructure.Module
	Voting     billvoting.Module
	Lobby      lobbysystem.Module
	Elections  electionresolution.Module
	Bank       bankservice.Module
	Energy     energyservice.Module
	Crime      crimeservice.Module
	Chat       chatservice.Module
	Market     marketservice.Module
	Consulting consultingservice.Module
	Moderation moderationservice.Module
}

type Server struct {
	router  *chi.Mux
	logger  *slog.Logger
	addr    string
	limiter *ratelimit.Limiter
	modules Modules
}

func New(modules Modules, limiter *ratelimit.Limiter, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		router:  chi.NewRouter(),
		logger:  logger,
		addr:    addr,
		limiter: limiter,
		modules: modules,
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
	if limiter != nil {
		s.router.Use(s.rateLimit)
	}
	s.registerRoutes()
	return s
}

// Handler returns the configured router, mainly for httptest in the server
// tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.routesGovernment()
	s.routesBillVoting()
	s.routesLobby()
	s.routesElections()
	s.routesBank()
	s.routesEnergy()
	s.routesCrime()
	s.routesChat()
	s.routesMarket()
	s.routesConsulting()
	s.routesModeration()
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// rateLimit enforces the fixed-window limiter per client IP. RealIP runs
// earlier in the chain, so RemoteAddr already reflects forwarding headers.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		allowed, retryAfter := s.limiter.Allow(key)
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"code":    "rate_limited",
				"message": "request rate limit exceeded",
			})
			s.logger.Warn("request rate limited",
				"event", "http_rate_limited",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"client_ip", key,
			)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func idempotencyKey(r *http.Request) string {
	return r.Header.Get("Idempotency-Key")
}

func userID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}

func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

func queryInt64(r *http.Request, name string) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "invalid_json",
			"message": "request body must be valid JSON",
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
