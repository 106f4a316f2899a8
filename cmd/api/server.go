package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"course-catalog/internal/browse"
	"course-catalog/internal/catalog"
	"course-catalog/internal/database"
	"course-catalog/internal/preferences"
)

type Server struct {
	port    int
	db      database.Client
	catalog *catalog.Catalog
	prefs   preferences.Store
	missing []string
	year    int
	srv     *http.Server
}

// NewServer wires the handlers. db and catalog may be nil when the store
// settings are missing or the catalog load failed; the affected endpoints
// then report the problem instead of serving data.
func NewServer(port int, db database.Client, cat *catalog.Catalog, prefs preferences.Store, missing []string, year int) *Server {
	return &Server{
		port:    port,
		db:      db,
		catalog: cat,
		prefs:   prefs,
		missing: missing,
		year:    year,
	}
}

func (s *Server) router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.recoverPanics, s.logRequests)

	router.HandleFunc("/api/courses", s.searchCourses).Methods("GET")
	router.HandleFunc("/api/filters", s.filterOptions).Methods("GET")
	router.HandleFunc("/api/preferences/theme", s.getTheme).Methods("GET")
	router.HandleFunc("/api/preferences/theme", s.setTheme).Methods("PUT")
	router.HandleFunc("/api/status", s.status).Methods("GET")
	router.HandleFunc("/api/live", s.liveBrowse)
	router.HandleFunc("/healthz", s.healthz).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

func (s *Server) Run() error {
	address := "0.0.0.0"

	log.Printf("listening requests at %v:%v", address, s.port)

	s.srv = &http.Server{
		Addr:    fmt.Sprintf("%v:%v", address, s.port),
		Handler: s.router(),
	}
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) searchCourses(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, http.StatusServiceUnavailable, s.unconfiguredMessage())
		return
	}

	sel, err := browse.DecodeSelection(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding filters: %v", err))
		return
	}
	if s.catalog != nil {
		sel = s.catalog.Scope(sel)
	}

	courses, total, err := s.db.SearchCourses(r.Context(), sel)
	if err != nil {
		queryFailures.Inc()
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	searchesTotal.Inc()

	s.writeJSON(w, http.StatusOK, newSearchResponse(sel, courses, total))
}

func (s *Server) filterOptions(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		s.writeError(w, http.StatusServiceUnavailable, s.unconfiguredMessage())
		return
	}
	if s.catalog == nil {
		s.writeError(w, http.StatusServiceUnavailable, "option catalogs are unavailable")
		return
	}

	major := r.URL.Query().Get("major")

	s.writeJSON(w, http.StatusOK, FilterOptionsResponse{
		MajorCategories: s.catalog.MajorCategories(),
		SubCategories:   s.catalog.SubCategories(major),
		Institutions:    s.catalog.Institutions(),
		CostBands:       catalog.CostBands(),
		Months:          catalog.Months(s.year),
	})
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	dark, err := s.prefs.DarkTheme(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, ThemeResponse{Dark: dark})
}

func (s *Server) setTheme(w http.ResponseWriter, r *http.Request) {
	var request ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.prefs.SetDarkTheme(r.Context(), request.Dark); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, ThemeResponse{Dark: request.Dark})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, StatusResponse{
		Configured:      len(s.missing) == 0,
		MissingSettings: s.missing,
		CatalogLoaded:   s.catalog != nil,
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) unconfiguredMessage() string {
	return fmt.Sprintf("catalog store is not configured, missing settings: %v", s.missing)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("encoding response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
