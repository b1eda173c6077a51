package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"swingplanner/internal/domain"
	"swingplanner/internal/ports"
)

// Repository implements ports.WorksheetRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
	now    func() time.Time
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository: %w", ports.ErrConfigurationError)
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/swingplanner.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w: %w", dbPath, ports.ErrDBConnection, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite serializes writers; one connection avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger, now: time.Now}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Debug(context.Background(), "Database schema initialized/verified")

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS worksheets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		symbol TEXT NOT NULL DEFAULT '',
		account_size REAL NOT NULL,
		risk_percentage REAL NOT NULL,
		entry_price REAL NOT NULL,
		stop_loss_price REAL NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS worksheet_targets (
		worksheet_id TEXT NOT NULL REFERENCES worksheets(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		target_id TEXT NOT NULL,
		price REAL NOT NULL,
		percentage_exit REAL NOT NULL,
		PRIMARY KEY (worksheet_id, position)
	);
	CREATE INDEX IF NOT EXISTS idx_worksheets_updated_at ON worksheets (updated_at);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Debug(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// Save inserts a worksheet or replaces the existing one with the same name.
// The target list is rewritten in full.
func (r *Repository) Save(ctx context.Context, ws *domain.Worksheet) error {
	if ws == nil || ws.Name == "" {
		return fmt.Errorf("worksheet name is required: %w", ports.ErrInvalidRequest)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for worksheet %q: %w: %w", ws.Name, ports.ErrDBConnection, err)
	}
	defer tx.Rollback() // no-op after commit

	now := r.now().UTC()
	var id string
	var createdAt time.Time
	err = tx.QueryRowContext(ctx, `SELECT id, created_at FROM worksheets WHERE name = ?`, ws.Name).Scan(&id, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = ws.ID
		if id == "" {
			id = uuid.NewString()
		}
		createdAt = now
		_, err = tx.ExecContext(ctx, `
		INSERT INTO worksheets (id, name, symbol, account_size, risk_percentage, entry_price, stop_loss_price, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, ws.Name, ws.Symbol, ws.Inputs.AccountSize, ws.Inputs.RiskPercentage,
			ws.Inputs.EntryPrice, ws.Inputs.StopLossPrice, createdAt, now)
		if err != nil {
			return fmt.Errorf("failed to insert worksheet %q: %w: %w", ws.Name, ports.ErrQueryFailed, err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up worksheet %q: %w: %w", ws.Name, ports.ErrQueryFailed, err)
	default:
		_, err = tx.ExecContext(ctx, `
		UPDATE worksheets
		SET symbol = ?, account_size = ?, risk_percentage = ?, entry_price = ?, stop_loss_price = ?, updated_at = ?
		WHERE id = ?`,
			ws.Symbol, ws.Inputs.AccountSize, ws.Inputs.RiskPercentage,
			ws.Inputs.EntryPrice, ws.Inputs.StopLossPrice, now, id)
		if err != nil {
			return fmt.Errorf("failed to update worksheet %q: %w: %w", ws.Name, ports.ErrQueryFailed, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM worksheet_targets WHERE worksheet_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear targets for worksheet %q: %w: %w", ws.Name, ports.ErrQueryFailed, err)
	}
	for i, t := range ws.Targets {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO worksheet_targets (worksheet_id, position, target_id, price, percentage_exit)
		VALUES (?, ?, ?, ?, ?)`, id, i, t.ID, t.Price, t.PercentageExit)
		if err != nil {
			return fmt.Errorf("failed to insert target %d for worksheet %q: %w: %w", i, ws.Name, ports.ErrQueryFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit worksheet %q: %w: %w", ws.Name, ports.ErrQueryFailed, err)
	}

	ws.ID = id
	ws.CreatedAt = createdAt
	ws.UpdatedAt = now
	r.logger.Debug(ctx, "Worksheet saved", map[string]interface{}{"worksheetID": id, "name": ws.Name, "targets": len(ws.Targets)})
	return nil
}

// FindByName retrieves a worksheet and its targets. Returns nil, nil if not found.
func (r *Repository) FindByName(ctx context.Context, name string) (*domain.Worksheet, error) {
	const query = `
	SELECT id, name, symbol, account_size, risk_percentage, entry_price, stop_loss_price, created_at, updated_at
	FROM worksheets
	WHERE name = ?`

	ws, err := scanWorksheet(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Worksheet not found", map[string]interface{}{"name": name})
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query worksheet %q: %w: %w", name, ports.ErrQueryFailed, err)
	}

	targets, err := r.findTargets(ctx, ws.ID)
	if err != nil {
		return nil, err
	}
	ws.Targets = targets
	return ws, nil
}

// FindAll retrieves all worksheets with their targets, most recently updated first.
func (r *Repository) FindAll(ctx context.Context) ([]*domain.Worksheet, error) {
	const query = `
	SELECT id, name, symbol, account_size, risk_percentage, entry_price, stop_loss_price, created_at, updated_at
	FROM worksheets
	ORDER BY updated_at DESC, name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query worksheets: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	worksheets := make([]*domain.Worksheet, 0)
	for rows.Next() {
		ws, err := scanWorksheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan worksheet during FindAll: %w", err)
		}
		worksheets = append(worksheets, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating worksheet rows: %w", err)
	}
	// Single connection: targets are loaded after the cursor is closed.
	rows.Close()

	for _, ws := range worksheets {
		if ws.Targets, err = r.findTargets(ctx, ws.ID); err != nil {
			return nil, err
		}
	}
	return worksheets, nil
}

// Delete removes a worksheet and its targets.
func (r *Repository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM worksheets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete worksheet %q: %w: %w", name, ports.ErrQueryFailed, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for worksheet %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("worksheet %q: %w", name, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Worksheet deleted", map[string]interface{}{"name": name})
	return nil
}

func (r *Repository) findTargets(ctx context.Context, worksheetID string) ([]domain.TradeTarget, error) {
	const query = `
	SELECT target_id, price, percentage_exit
	FROM worksheet_targets
	WHERE worksheet_id = ?
	ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, worksheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets for worksheet %s: %w: %w", worksheetID, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	targets := make([]domain.TradeTarget, 0)
	for rows.Next() {
		var t domain.TradeTarget
		if err := rows.Scan(&t.ID, &t.Price, &t.PercentageExit); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating target rows: %w", err)
	}
	return targets, nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanWorksheet(s scanner) (*domain.Worksheet, error) {
	ws := &domain.Worksheet{}
	err := s.Scan(
		&ws.ID, &ws.Name, &ws.Symbol,
		&ws.Inputs.AccountSize, &ws.Inputs.RiskPercentage, &ws.Inputs.EntryPrice, &ws.Inputs.StopLossPrice,
		&ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return nil, err // sql.ErrNoRows handled by the caller
	}
	return ws, nil
}
