package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers. DriverMemory needs no database at all.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DB represents a database connection
type DB struct {
	*sql.DB
	driver string
}

// ConnectionParams holds connection parameters. Path is used by SQLite only.
type ConnectionParams struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string
}

// DSN builds the driver-specific data source name.
func (p ConnectionParams) DSN() (string, error) {
	switch p.Driver {
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
		), nil
	case DriverSQLite:
		if p.Path == "" {
			return "", fmt.Errorf("sqlite path is empty")
		}
		return p.Path + "?_busy_timeout=5000", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", p.Driver)
}

// New opens the database, waits for it to answer and creates missing tables
func New(params ConnectionParams) (*DB, error) {
	dsn, err := params.DSN()
	if err != nil {
		return nil, err
	}

	if params.Driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(params.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open(params.Driver, dsn)
	if err != nil {
		return nil, err
	}

	// Postgres may still be starting when the bot container comes up
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(db.Ping, policy); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", params.Driver, err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &DB{DB: db, driver: params.Driver}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user_profiles (
			user_id BIGINT PRIMARY KEY,
			chat_id BIGINT NOT NULL,
			account_size TEXT NOT NULL,
			risk_per_trade TEXT NOT NULL,
			preferred_session TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

// rebind rewrites ? placeholders into $n for Postgres.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// UpsertProfile creates or replaces a user's profile
func (db *DB) UpsertProfile(ctx context.Context, p models.UserProfile) error {
	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO user_profiles (
			user_id, chat_id, account_size, risk_per_trade, preferred_session, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id)
		DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			account_size = EXCLUDED.account_size,
			risk_per_trade = EXCLUDED.risk_per_trade,
			preferred_session = EXCLUDED.preferred_session,
			updated_at = EXCLUDED.updated_at
	`),
		p.UserID, p.ChatID, p.Profile.AccountSize.String(), p.Profile.RiskPerTrade.String(),
		string(p.Profile.PreferredSession), p.UpdatedAt.UTC())

	return err
}

// GetProfile retrieves a user's profile, nil when the user is unknown
func (db *DB) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	row := db.QueryRowContext(ctx, db.rebind(`
		SELECT user_id, chat_id, account_size, risk_per_trade, preferred_session, updated_at
		FROM user_profiles
		WHERE user_id = ?
	`), userID)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListProfiles returns every stored profile ordered by user id
func (db *DB) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT user_id, chat_id, account_size, risk_per_trade, preferred_session, updated_at
		FROM user_profiles
		ORDER BY user_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*models.UserProfile, error) {
	var (
		p                   models.UserProfile
		account, risk, sess string
	)
	if err := s.Scan(&p.UserID, &p.ChatID, &account, &risk, &sess, &p.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if p.Profile.AccountSize, err = decimal.NewFromString(account); err != nil {
		return nil, fmt.Errorf("user %d account_size: %w", p.UserID, err)
	}
	if p.Profile.RiskPerTrade, err = decimal.NewFromString(risk); err != nil {
		return nil, fmt.Errorf("user %d risk_per_trade: %w", p.UserID, err)
	}
	if p.Profile.PreferredSession, err = models.ParseSession(sess); err != nil {
		return nil, fmt.Errorf("user %d preferred_session: %w", p.UserID, err)
	}
	return &p, nil
}
