package main

import (
	"database/sql"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	log "github.com/sirupsen/logrus"

	"course-catalog/internal/database"
)

func main() {
	log.SetLevel(log.InfoLevel)
	log.Println("starting migrate")

	addr := os.Getenv("STORE_ADDR")
	key := os.Getenv("STORE_KEY")

	if addr == "" || key == "" {
		log.Fatal("STORE_ADDR and STORE_KEY must be set")
	}

	connStr, err := database.ConnString(addr, key)
	if err != nil {
		log.Fatalf("composing connection string: %v", err)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("failed to connect to store: %v", err)
	}

	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			log.Errorf("closing the db: %v", err)
		}
	}(db)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		log.Fatal(err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://./migrations", "postgres", driver)
	if err != nil {
		log.Fatal(err)
	}

	err = m.Up()
	if err != nil {
		if err != migrate.ErrNoChange {
			log.Fatal(err)
		}
	}

	log.Println("migrations complete")
}
