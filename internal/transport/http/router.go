// Package httptransport assembles the HTTP surface: middleware stack, route
// groups, and their authentication requirements. Handlers live next to their
// modules; this package only mounts them.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bigoffice/internal/audit"
	"bigoffice/internal/officer"
	"bigoffice/internal/platform/health"
	"bigoffice/internal/platform/middleware"
	"bigoffice/internal/policy"
	"bigoffice/internal/transition"
	"bigoffice/internal/unmask"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger         *slog.Logger
	Validator      middleware.TokenValidator
	AdminToken     string
	TrustedProxies []string

	Health     *health.Handler
	Officers   *officer.Handler
	Unmask     *unmask.Handler
	Transition *transition.Handler
	Policies   *policy.Handler
	Audit      *audit.Handler
}

// NewRouter wires the full route tree.
//
// Officer reads accept anonymous callers (they see the public subset), so
// they sit behind OptionalAuth. Everything that mutates state or discloses
// raw values requires a valid token. Policy management and audit review are
// operator surfaces guarded by the static admin token on top of auth.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Metrics)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.ClientMetadata(d.TrustedProxies))

	d.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(d.Validator, d.Logger))
		d.Officers.RegisterReads(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Validator, d.Logger))
		d.Officers.RegisterWrites(r)
		d.Unmask.Register(r)
		d.Transition.Register(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Validator, d.Logger))
		r.Use(middleware.RequireAdminToken(d.AdminToken, d.Logger))
		d.Policies.Register(r)
		d.Audit.Register(r)
	})

	return r
}
