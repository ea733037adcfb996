// Package router assembles the route table and the middleware stack.
//
// Everything the routes need arrives through New's arguments; nothing is
// kept in package-level state, so tests can build as many independent
// routers as they like.
package router

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harsha/subjects-api/internal/config"
	"github.com/harsha/subjects-api/internal/http/handlers/basics"
	"github.com/harsha/subjects-api/internal/http/handlers/subject"
	"github.com/harsha/subjects-api/internal/http/middleware"
	"github.com/harsha/subjects-api/internal/storage"
	"github.com/harsha/subjects-api/internal/storage/query"
)

// New returns the fully wrapped HTTP handler.
//
// Route table:
//
//	GET  /hello                        → plain-text greeting
//	GET  /add/{var1},{var2}            → integer addition
//	GET  /api/subjects                 → all subjects
//	GET  /api/subjects/{id}            → one subject
//	GET  /api/subjects/lecturer/{id}   → subjects taught by a lecturer
//	GET  /api/subjects/users/{id}      → subjects a user is enrolled in
//	GET  /api/users/{id}/subjects      → same as above
//	POST /api/subjects                 → create a subject
//	PUT  /api/subjects/{id}            → update a subject
//	GET  /metrics                      → Prometheus metrics
func New(cfg *config.Config, store storage.Storage, log *slog.Logger) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /hello", basics.Hello())
	mux.HandleFunc("GET /add/{operands}", basics.Add())

	mux.HandleFunc("GET /api/subjects", subject.Get(store, query.All))
	mux.HandleFunc("GET /api/subjects/{id}", subject.Get(store, query.ByID))
	mux.HandleFunc("GET /api/subjects/lecturer/{id}", subject.Get(store, query.ByLecturer))
	mux.HandleFunc("GET /api/subjects/users/{id}", subject.Get(store, query.ByEnrolledUser))
	mux.HandleFunc("GET /api/users/{id}/subjects", subject.Get(store, query.ByEnrolledUser))
	mux.HandleFunc("POST /api/subjects", subject.Create(store))
	mux.HandleFunc("PUT /api/subjects/{id}", subject.Update(store))

	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return middleware.Chain(mux,
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.RequestID,
		middleware.AccessLog(log),
		metrics.Instrument,
	)
}
