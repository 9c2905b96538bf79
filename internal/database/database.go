package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	"go-drive/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/fx"
)

type PostgresDB struct {
	DB *sql.DB
}

// NewPostgres creates the metadata store connection pool with lifecycle management
func NewPostgres(lc fx.Lifecycle, cfg *config.Config) (*PostgresDB, error) {
	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ping the database to verify connection
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	log.Println("Connected to Postgres!")

	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// Register lifecycle hooks
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Println("Closing Postgres connection pool...")
			return db.Close()
		},
	})

	return &PostgresDB{DB: db}, nil
}
