package store

import (
	"database/sql"
	_ "embed"
	"time"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// ConnectPostgres opens and verifies a PostgreSQL connection
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// EnsureSchema applies the embedded schema, creating tables if missing
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schemaSQL)
	return err
}
