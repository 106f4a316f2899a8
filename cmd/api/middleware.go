package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var (
	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_searches_total",
		Help: "Number of course searches served",
	})
	queryFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_query_failures_total",
		Help: "Number of course searches that failed against the store",
	})
	liveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_live_sessions",
		Help: "Number of open live browse sessions",
	})
)

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Infof("%s %s %v", r.Method, r.URL.RequestURI(), time.Since(start))
	})
}

// recoverPanics is the outermost boundary: anything unexpected inside a
// handler lands on the same JSON error path as an ordinary query failure.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				s.writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
