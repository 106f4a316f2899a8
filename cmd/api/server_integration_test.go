//go:build integration

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-catalog/internal/catalog"
	"course-catalog/internal/database"
	"course-catalog/internal/preferences"
)

var server *Server

func TestMain(m *testing.M) {
	cfg, err := ReadConfig()
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Fatalf("converting port to integer: %v", err)
	}

	if missing := cfg.MissingSettings(); len(missing) > 0 {
		log.Fatalf("integration tests need the store settings, missing: %v", missing)
	}

	db, err := database.NewClient(cfg.StoreAddr, cfg.StoreKey)
	if err != nil {
		log.Fatalf("creating store client: %v", err)
	}
	defer db.Close()

	cat, err := catalog.Load(context.Background(), db)
	if err != nil {
		log.Fatalf("loading option catalogs: %v", err)
	}

	prefs := preferences.NewStore(cfg.RedisAddr)
	defer prefs.Close()

	server = NewServer(port, db, cat, prefs, nil, cfg.CatalogYear)

	go func() {
		if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// Allow some time for the server to start
	time.Sleep(100 * time.Millisecond)

	exitVal := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server Shutdown Failed:%+v", err)
	}

	os.Exit(exitVal)
}

func TestStatusReportsConfigured(t *testing.T) {
	resp, err := http.Get("http://localhost:8080/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.Configured)
	assert.True(t, status.CatalogLoaded)
}

func TestSearchCoursesEndToEnd(t *testing.T) {
	resp, err := http.Get("http://localhost:8080/api/courses?page=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var search SearchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&search))
	assert.Equal(t, 1, search.Page)
	assert.GreaterOrEqual(t, search.TotalPages, 1)
	assert.LessOrEqual(t, len(search.Courses), 20)
}

func TestFilterOptionsEndToEnd(t *testing.T) {
	resp, err := http.Get("http://localhost:8080/api/filters")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var options FilterOptionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&options))
	assert.Len(t, options.CostBands, 11)
	assert.Len(t, options.Months, 12)
}
