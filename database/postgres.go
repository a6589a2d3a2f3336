package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	"beautypage/config"

	_ "github.com/lib/pq"
)

// PostgresDB is the global PostgreSQL handle, set when STORE_DRIVER=postgres.
var PostgresDB *sql.DB

// InitPostgres opens and pings the PostgreSQL connection pool.
func InitPostgres() {
	db, err := sql.Open("postgres", config.AppConfig.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to open PostgreSQL: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping PostgreSQL: %v", err)
	}
	PostgresDB = db
	log.Println("Connected to PostgreSQL successfully!")
}
