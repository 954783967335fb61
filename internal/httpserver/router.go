package httpserver

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"flyai/internal/handlers"
	"flyai/internal/metrics"
	"flyai/internal/middleware"
)

// RateLimits are requests per minute per client IP. Zero disables a limit.
type RateLimits struct {
	Ask           int
	SmartAsk      int
	SearchFlights int
	Airports      int
}

type Options struct {
	RequestTimeout time.Duration // default: 60s
	MaxBodyBytes   int64         // default: 512 KB
	RateLimits     RateLimits
	CORS           middleware.CORSOptions

	// TrustProxyHeaders takes the client IP from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

type Handlers struct {
	Ask     *handlers.AskHandler
	Flights *handlers.FlightsHandler
}

// SetupRouter mounts middleware and routes on r. It returns the route rate
// limiters so the caller can sweep idle clients.
func SetupRouter(r *chi.Mux, baseLogger *zap.Logger, h Handlers, opts Options) []*middleware.RateLimiter {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 512 * 1024
	}

	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())                    // panic recovery
	r.Use(middleware.Timeout(opts.RequestTimeout))   // request timeout
	r.Use(middleware.MaxBodySize(opts.MaxBodyBytes)) // max body
	r.Use(middleware.CORS(opts.CORS))

	askLimit := middleware.NewRateLimiter("ask", opts.RateLimits.Ask)
	smartAskLimit := middleware.NewRateLimiter("smart_ask", opts.RateLimits.SmartAsk)
	flightsLimit := middleware.NewRateLimiter("search_flights", opts.RateLimits.SearchFlights)
	airportsLimit := middleware.NewRateLimiter("airports", opts.RateLimits.Airports)

	// routes
	r.With(askLimit.Middleware).Get("/ask", h.Ask.Ask)
	r.With(smartAskLimit.Middleware).Get("/smart_ask", h.Ask.SmartAsk)
	r.With(flightsLimit.Middleware).Get("/search_flights", h.Flights.SearchFlights)
	r.With(airportsLimit.Middleware).Get("/airports", h.Flights.Airports)
	r.Post("/save_search", h.Flights.SaveSearch)
	r.Get("/search_history", h.Flights.SearchHistory)

	r.Get("/health", handlers.Health)
	r.Handle("/metrics", metrics.Handler())

	return []*middleware.RateLimiter{askLimit, smartAskLimit, flightsLimit, airportsLimit}
}
