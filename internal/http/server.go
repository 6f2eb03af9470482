package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	applog "expensetracker/internal/log"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	"expensetracker/internal/sheets"
	appweb "expensetracker/web"
)

// Options configures the pages served by Server.
type Options struct {
	DefaultBudget  decimal.Decimal
	BudgetStep     decimal.Decimal
	CurrencySymbol string

	// SetupErr, when set, puts the server in halted mode: every page shows
	// the configuration problem and the worksheet is never touched.
	SetupErr error

	// AppendRateLimit caps expense submissions per client per minute.
	AppendRateLimit int

	// Now is the clock used for the form's default date.
	Now    func() time.Time
	Logger *applog.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	ws        sheets.Worksheet
	opts      Options
	money     moneyFormatter
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	logger    *applog.Logger
	started   time.Time
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, ws sheets.Worksheet, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "₹"
	}
	if !opts.BudgetStep.IsPositive() {
		opts.BudgetStep = decimal.NewFromInt(500)
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		ws:      ws,
		opts:    opts,
		money:   newMoneyFormatter(opts.CurrencySymbol),
		limiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.AppendRateLimit}),
		tracer:  trace.NewMiddleware(opts.Logger, security.ClientIP),
		logger:  opts.Logger.WithComponent(applog.ComponentHTTP),
		started: time.Now(),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/", s.requireConfigured(http.HandlerFunc(s.handleIndex)))
	mux.Handle("/expenses", s.requireConfigured(
		s.limiter.Middleware(security.ClientIP, s.handleRateLimited, http.MethodPost)(
			http.HandlerFunc(s.handleCreateExpense))))
	// UI partials
	mux.Handle("/ui/summary", s.requireConfigured(http.HandlerFunc(s.handleSummary)))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Handler = s.tracer.Middleware(headers.Middleware(mux))
	return s
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down",
		applog.FieldOperation, applog.OpShutdown,
		"requests_served", s.tracer.TotalRequests())
	return s.Server.Shutdown(ctx)
}

// Halted reports whether the server started without a usable configuration.
func (s *Server) Halted() bool {
	return s.opts.SetupErr != nil
}
