package main

import (
	"context"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"course-catalog/internal/catalog"
	"course-catalog/internal/database"
	"course-catalog/internal/preferences"
)

func main() {
	log.Println("starting course catalog server")

	cfg, err := ReadConfig()
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Fatalf("converting port to integer: %v", err)
	}

	missing := cfg.MissingSettings()
	var db database.Client
	var cat *catalog.Catalog

	if len(missing) > 0 {
		log.Warnf("store settings missing (%v), serving without catalog queries", missing)
	} else {
		db, err = database.NewClient(cfg.StoreAddr, cfg.StoreKey)
		if err != nil {
			log.Fatalf("creating store client: %v", err)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		cat, err = catalog.Load(ctx, db)
		cancel()
		if err != nil {
			// Searches still work without the option catalogs; the filter
			// endpoint reports the failure.
			log.Errorf("loading option catalogs: %v", err)
			cat = nil
		}
	}

	prefs := preferences.NewStore(cfg.RedisAddr)
	defer prefs.Close()

	server := NewServer(port, db, cat, prefs, missing, cfg.CatalogYear)

	log.Fatal(server.Run())
}
