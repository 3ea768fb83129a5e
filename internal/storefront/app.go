package storefront

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"OrderDesk/internal/apiclient"
	"OrderDesk/internal/cart"
	"OrderDesk/internal/menu"
	"OrderDesk/internal/offers"
	"OrderDesk/internal/order"
	"OrderDesk/internal/session"
	"OrderDesk/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	API     *apiclient.Client
	Prefs   session.PrefStore
	Cookies *session.Cookies

	// MenuCacheFor overrides the cache duration for menu reads.
	MenuCacheFor   time.Duration
	OTPLimitPerMin int
	// TrustedProxies may set X-Forwarded-For for the OTP limiter. Empty
	// means the limiter keys on the peer address only.
	TrustedProxies []string
}

const (
	readyTimeout      = 2 * time.Second
	readyCheckTimeout = 700 * time.Millisecond

	defaultOTPLimitPerMin = 3
	limitWindow           = 60 * time.Second
)

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	if deps.API == nil {
		return nil, errors.New("storefront: api client is required")
	}
	if deps.Prefs == nil {
		deps.Prefs = session.NewMemPrefStore()
	}
	if deps.Cookies == nil {
		deps.Cookies = session.NewCookies(session.CookieConfig{Secure: true})
	}
	if deps.OTPLimitPerMin <= 0 {
		deps.OTPLimitPerMin = defaultOTPLimitPerMin
	}
	if httpDeps.Log == nil {
		httpDeps.Log = zap.NewNop()
	}

	s := newServer(deps, httpDeps.Log)

	adminProxy, err := NewAdminProxy(deps.API.BaseURL, httpDeps.Log)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", s.readyz)

	trusted, err := kit.ParseTrustedProxies(deps.TrustedProxies)
	if err != nil {
		return nil, err
	}
	otpLimiter := kit.NewIPRateLimiter(deps.OTPLimitPerMin, limitWindow, kit.WithTrustedProxies(trusted))

	r.Group(func(sr chi.Router) {
		sr.Use(session.Middleware(deps.Prefs, deps.Cookies, httpDeps.Log))

		sr.Route("/auth", func(ar chi.Router) {
			ar.With(otpLimiter.Middleware).Post("/otp/request", s.handleOTPRequest)
			ar.Post("/otp/verify", s.handleOTPVerify)
			ar.Post("/owner/login", s.handleOwnerLogin)
			ar.Post("/logout", s.handleLogout)
			ar.Get("/me", s.handleMe)
		})

		sr.Get("/restaurant-info", s.handleRestaurantInfo)
		sr.Get("/menu/items", s.handleMenuItems)
		sr.Post("/menu/quote", s.handleQuote)

		sr.Route("/cart", func(cr chi.Router) {
			cr.Get("/", s.handleGetCart)
			cr.Post("/items", s.handleAddCartItem)
			cr.Patch("/items/{itemID}", s.handleUpdateCartItem)
			cr.Delete("/items/{itemID}", s.handleRemoveCartItem)
		})

		sr.Route("/offers", func(or chi.Router) {
			or.Get("/public", s.handlePublicOffers)
			or.Get("/eligible/{orderID}", s.handleEligibleOffers)
			or.Post("/apply/{orderID}", s.handleApplyOffer)
			or.Delete("/remove/{orderID}", s.handleRemoveOffer)
		})

		sr.Get("/orders/{orderID}", s.handleGetOrder)
		sr.Post("/orders/{orderID}/confirm", s.handleConfirmOrder)

		sr.Get("/preferences", s.handleGetPreferences)
		sr.Put("/preferences", s.handlePutPreferences)

		sr.Route("/admin", func(ad chi.Router) {
			ad.Use(session.RequireAdmin)
			ad.Delete("/cache", s.handleClearCache)
			ad.Handle("/api/*", adminProxy)
		})
	})

	return r, nil
}

func newServer(deps Deps, log *zap.Logger) *Server {
	return &Server{
		Log:     log,
		API:     deps.API,
		Menu:    &menu.Client{API: deps.API, CacheFor: deps.MenuCacheFor},
		Cart:    &cart.Client{API: deps.API},
		Offers:  &offers.Client{API: deps.API},
		Orders:  &order.Client{API: deps.API},
		Login:   &session.Client{API: deps.API},
		Prefs:   deps.Prefs,
		Cookies: deps.Cookies,
	}
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		if deps.MetricsEnabled {
			deps.Log.Warn("metrics enabled but Registry is nil")
		}
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.RouteLabel))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type readyCheck struct {
	name  string
	check func(context.Context) error
}

func (s *Server) readyChecks() []readyCheck {
	return []readyCheck{
		{name: "backend", check: s.API.Ping},
		{name: "cache", check: s.API.Cache.Ping},
		{name: "preferences", check: s.Prefs.Ping},
	}
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	for _, c := range s.readyChecks() {
		cctx, ccancel := context.WithTimeout(ctx, readyCheckTimeout)
		err := c.check(cctx)
		ccancel()

		if err != nil {
			s.Log.Warn("readyz failed: "+c.name, zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, c.name+" not ready", nil)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}
