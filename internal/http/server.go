package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/log"
	"fintrack/internal/reports"
	"fintrack/internal/services"
	"fintrack/internal/store"
	appweb "fintrack/web"
)

type Server struct {
	http.Server
	templates    *template.Template
	accounts     *services.AccountService
	transactions *services.TransactionService
	reports      *services.ReportService
	rateLimiter  *rateLimiter
	metrics      securityMetrics
	appMetrics   appMetrics
	httpLog      *log.StructuredLogger

	// Dashboard renders are cached per filter and purged on any write.
	dashboardCache *cache.LRUCache[services.Dashboard]
	cacheManager   *cache.Manager

	shutdownOnce sync.Once
}

// appMetrics tracks application-level counters exposed on /metrics.
type appMetrics struct {
	totalRequests     int64
	totalTransactions int64
	cacheHits         int64
	cacheMisses       int64
	startedAt         time.Time
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, st store.Store, amqpClient *amqp.Client) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		accounts:       services.NewAccountService(st),
		transactions:   services.NewTransactionService(st, amqpClient),
		reports:        services.NewReportService(st),
		rateLimiter:    newRateLimiter(),
		dashboardCache: cache.NewLRUCache[services.Dashboard](100, 5*time.Minute),
		cacheManager:   cache.NewManager(),
		appMetrics:     appMetrics{startedAt: time.Now()},
		httpLog:        log.NewStructuredLogger(log.New(log.Config{Component: log.ComponentHTTP})),
	}

	s.cacheManager.Register(s.dashboardCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/ui/dashboard", s.withSecurityHeaders(s.handleDashboardPartial))
	mux.HandleFunc("/api/dashboard", s.withSecurityHeaders(s.handleDashboardJSON))
	mux.HandleFunc("/accounts", s.withSecurityHeaders(s.handleAccounts))
	mux.HandleFunc("/accounts/", s.withSecurityHeaders(s.handleAccountByID))
	mux.HandleFunc("/transactions", s.withSecurityHeaders(s.handleTransactions))
	mux.HandleFunc("/transactions/", s.withSecurityHeaders(s.handleTransactionByID))

	return s
}

// withSecurityHeaders adds security headers, rate limiting, and request logging to responses
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		atomic.AddInt64(&s.appMetrics.totalRequests, 1)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.httpLog.LogHTTPStart(ctx, r, requestID, clientIP)

		// Rate limiting applies to mutating methods only.
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, &s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.httpLog.LogHTTPEnd(ctx, r, requestID, rw.statusCode, duration.Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Ready when the store answers.
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.accounts.ListAccounts(ctx); err != nil {
		slog.ErrorContext(ctx, "Readiness check failed", "error", err)
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateDashboards drops every cached dashboard after a write.
func (s *Server) invalidateDashboards() {
	s.dashboardCache.Purge()
}

func dashboardCacheKey(f reports.Filter) string {
	return f.AccountID + "|" + f.Type + "|" + f.Category + "|" + strconv.Itoa(f.WindowDays)
}

func (s *Server) getDashboard(ctx context.Context, f reports.Filter) (services.Dashboard, error) {
	key := dashboardCacheKey(f)

	if data, found := s.dashboardCache.Get(key); found {
		atomic.AddInt64(&s.appMetrics.cacheHits, 1)
		slog.DebugContext(ctx, "Dashboard cache hit", "key", key)
		return data, nil
	}
	atomic.AddInt64(&s.appMetrics.cacheMisses, 1)

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()

	data, err := s.reports.BuildDashboard(cctx, f, time.Now())
	if err != nil {
		return services.Dashboard{}, fmt.Errorf("build dashboard: %w", err)
	}

	s.dashboardCache.Set(key, data)
	slog.DebugContext(ctx, "Dashboard cached", "key", key,
		"transactions", data.Summary.TransactionCount)
	return data, nil
}
