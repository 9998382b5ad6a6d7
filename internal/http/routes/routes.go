// Package routes assembles the HTTP handler for the roster service: the
// route table, per-route metrics, and the negroni middleware chain
// (panic recovery and request logging) wrapped around it.
package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/student-roster/internal/http/handlers/student"
	"github.com/aanand-mishra/student-roster/internal/metrics"
	"github.com/aanand-mishra/student-roster/internal/storage"
	"github.com/urfave/negroni"
)

// NewRouter returns the complete handler for the service.
//
// Route table:
//
//	GET    /                 → welcome message
//	GET    /students         → list the roster
//	POST   /students         → create a student
//	PUT    /students/{id}    → update a student
//	DELETE /students/{id}    → delete a student
//	GET    /search?name=     → exact-name search
//	GET    /check/{id}       → existence check (200 / 404)
//	GET    /metrics          → Prometheus metrics
func NewRouter(store storage.Storage) http.Handler {
	m := metrics.New(store)
	router := http.NewServeMux()

	handle := func(pattern string, h http.HandlerFunc) {
		router.Handle(pattern, m.Instrument(pattern, h))
	}

	// "GET /{$}" matches only the root; a bare "GET /" would swallow
	// every unknown path.
	handle("GET /{$}", student.Welcome())
	handle("GET /students", student.GetList(store))
	handle("POST /students", student.New(store))
	handle("PUT /students/{id}", student.Update(store))
	handle("DELETE /students/{id}", student.Delete(store))
	handle("GET /search", student.Search(store))
	handle("GET /check/{id}", student.Check(store))
	router.Handle("GET /metrics", m.Handler())

	recovery := negroni.NewRecovery()
	recovery.PrintStack = false

	n := negroni.New(recovery, negroni.HandlerFunc(logRequest))
	n.UseHandler(router)
	return n
}

// logRequest logs one line per request once the response is written.
func logRequest(rw http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(rw, r)

	status := http.StatusOK
	if res, ok := rw.(negroni.ResponseWriter); ok && res.Status() != 0 {
		status = res.Status()
	}
	slog.Debug("request served",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)),
	)
}
