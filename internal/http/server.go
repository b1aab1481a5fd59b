// Package http serves the ledger page, its HTMX partials and a small JSON API.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"lavish/internal/cache"
	"lavish/internal/export"
	"lavish/internal/ledger"
	"lavish/internal/log"
	"lavish/internal/middleware/ratelimit"
	"lavish/internal/middleware/security"
	"lavish/internal/middleware/trace"
	"lavish/internal/voice"
	appweb "lavish/web"
)

// Deps are the collaborators the server is built from.
type Deps struct {
	Store       *ledger.Store
	Transcriber voice.Transcriber
	Logger      *log.Logger

	ExportOptions      export.Options
	CacheSize          int
	CacheTTL           time.Duration
	RateLimitPerMinute int
}

type Server struct {
	http.Server

	templates   *template.Template
	store       *ledger.Store
	views       *cache.Views
	transcriber voice.Transcriber
	exportOpts  export.Options
	logger      *log.Logger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	cacheManager     *cache.Manager
	appMetrics       appMetrics

	stopBackground context.CancelFunc
	shutdownOnce   sync.Once
}

type appMetrics struct {
	uptime           time.Time
	recordsAdded     atomic.Int64
	recordsRemoved   atomic.Int64
	rejectedAdds     atomic.Int64
	exports          atomic.Int64
	voiceTranscripts atomic.Int64
	voiceFailures    atomic.Int64
}

// NewServer configures routes, middleware and templates.
func NewServer(addr string, deps Deps) (*Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if deps.Transcriber == nil {
		deps.Transcriber = voice.Unavailable{}
	}
	if deps.CacheSize <= 0 {
		deps.CacheSize = 64
	}
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = 5 * time.Minute
	}

	t, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		templates:        t,
		store:            deps.Store,
		views:            cache.NewViews(deps.Store, deps.CacheSize, deps.CacheTTL, logger),
		transcriber:      deps.Transcriber,
		exportOpts:       deps.ExportOptions,
		logger:           logger.WithComponent(log.ComponentHTTP),
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}, logger),
		securityDetector: security.NewDetector(logger),
		cacheManager:     cache.NewManager(logger),
	}
	s.appMetrics.uptime = time.Now()
	s.traceMiddleware = trace.NewMiddleware(s.securityDetector.ExtractClientIP, logger)
	s.cacheManager.Register(s.views.Cleaner())
	if s.exportOpts.Location == nil {
		s.exportOpts.Location = deps.Store.Location()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopBackground = cancel
	go s.rateLimiter.Run(ctx)
	s.cacheManager.StartCleanup(ctx, 10*time.Minute)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        s.middleware(s.routes()),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   45 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ui/ledger", s.handleLedgerView)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /transactions/{id}/delete", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/transactions", s.handleAPIListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleAPICreateTransaction)
	mux.HandleFunc("GET /api/summary", s.handleAPISummary)
	mux.HandleFunc("GET /api/months", s.handleAPIMonths)
	mux.HandleFunc("GET /api/chart", s.handleAPIChart)
	mux.HandleFunc("GET /api/voice", s.handleAPIVoiceStatus)

	mux.HandleFunc("GET /export.csv", s.handleExport)
	mux.HandleFunc("POST /voice", s.handleVoice)

	return mux
}

// middleware wraps h, outermost first: tracing, probe detection, security
// headers, then rate limiting of mutations.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, ratelimit.MutatingOnly)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.securityDetector.Middleware(h)
	return s.traceMiddleware.Middleware(h)
}

// Shutdown stops background cleanup and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.stopBackground()
		s.cacheManager.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
