package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DB struct {
	conn   *sql.DB
	driver string
}

// New creates a new database connection
func New(driver, databaseURL string) (*DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	if driver == DriverSQLite {
		// SQLite serializes writers; one connection also keeps :memory: databases shared.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(10)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return &DB{conn: conn, driver: driver}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Driver returns the driver name the connection was opened with
func (db *DB) Driver() string {
	return db.driver
}

// Ping checks the connection
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Migrate creates the request_logs table if it does not exist
func (db *DB) Migrate(ctx context.Context) error {
	var stmts []string
	switch db.driver {
	case DriverPostgres:
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS request_logs (
				id                UUID PRIMARY KEY,
				timestamp         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				prompt_text       TEXT NOT NULL,
				difficulty_level  VARCHAR(50) NOT NULL,
				model_used        VARCHAR(100) NOT NULL,
				token_count       INTEGER NOT NULL,
				actual_cost       NUMERIC(20, 12) NOT NULL,
				hypothetical_cost NUMERIC(20, 12) NOT NULL,
				money_saved       NUMERIC(20, 12) NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_request_logs_timestamp ON request_logs (timestamp DESC)`,
		}
	case DriverSQLite:
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS request_logs (
				id                TEXT PRIMARY KEY,
				timestamp         DATETIME NOT NULL,
				prompt_text       TEXT NOT NULL,
				difficulty_level  TEXT NOT NULL,
				model_used        TEXT NOT NULL,
				token_count       INTEGER NOT NULL,
				actual_cost       TEXT NOT NULL,
				hypothetical_cost TEXT NOT NULL,
				money_saved       TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_request_logs_timestamp ON request_logs (timestamp DESC)`,
		}
	}

	for _, stmt := range stmts {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// InsertRequestLog appends a request log row
func (db *DB) InsertRequestLog(ctx context.Context, log *models.RequestLog) error {
	query := `
		INSERT INTO request_logs (
			id, timestamp, prompt_text, difficulty_level, model_used,
			token_count, actual_cost, hypothetical_cost, money_saved
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := db.conn.ExecContext(ctx,
		query,
		log.ID,
		log.Timestamp.UTC(),
		log.PromptText,
		string(log.Tier),
		log.ModelUsed,
		log.TokenCount,
		log.ActualCost.String(),
		log.HypotheticalCost.String(),
		log.Savings.String(),
	)
	if err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}

	return nil
}

// RecentRequestLogs returns the most recent rows, newest first
func (db *DB) RecentRequestLogs(ctx context.Context, limit int) ([]models.RequestLog, error) {
	if limit <= 0 {
		return []models.RequestLog{}, nil
	}

	query := `
		SELECT id, timestamp, prompt_text, difficulty_level, model_used,
		       token_count, actual_cost, hypothetical_cost, money_saved
		FROM request_logs
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	logs := make([]models.RequestLog, 0, limit)
	for rows.Next() {
		var (
			entry models.RequestLog
			tier  string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.PromptText,
			&tier,
			&entry.ModelUsed,
			&entry.TokenCount,
			&entry.ActualCost,
			&entry.HypotheticalCost,
			&entry.Savings,
		); err != nil {
			return nil, fmt.Errorf("scan request log: %w", err)
		}
		entry.Tier = models.Tier(tier)
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return logs, nil
}
