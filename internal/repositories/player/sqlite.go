package player

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		record BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
`

// SQLiteConfig contains configuration for the SQLite player repository.
type SQLiteConfig struct {
	// Path is the database file; a leading ~ expands to the home directory
	Path  string
	Clock clock.Clock
}

// Validate validates the SQLiteConfig.
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("path", cfg.Path, vb)
	return vb.Build()
}

// SQLiteRepository stores player records in a single-file database
type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLite opens or creates the database and its schema
func NewSQLite(cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	path := cfg.Path
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "cannot expand home directory")
		}
		path = filepath.Join(home, path[1:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "cannot create directory for %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	// a single writer keeps saves serialized
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migration failed")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	slog.Debug("Opened player database", "path", path)
	return &SQLiteRepository{db: db, clock: c}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Get retrieves a player by ID
func (r *SQLiteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT record FROM players WHERE id = ?`, input.ID).Scan(&data)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("player with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get player")
	}

	p, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Player: p}, nil
}

// Save creates or replaces a player record in one transaction
func (r *SQLiteRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if err := validateSave(input); err != nil {
		return nil, err
	}

	data, err := Marshal(input.Player)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin save")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO players (id, record, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		input.Player.ID, data, r.clock.Now().UnixMilli())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save player")
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.Wrapf(err, "failed to commit player")
	}

	return &SaveOutput{Player: input.Player}, nil
}

// List returns every stored player ID in order
func (r *SQLiteRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM players ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list players")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan player id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list players")
	}
	return &ListOutput{IDs: ids}, nil
}

// UpdatedAt returns when a player was last saved, in unix milliseconds
func (r *SQLiteRepository) UpdatedAt(ctx context.Context, id string) (int64, error) {
	var at int64
	err := r.db.QueryRowContext(ctx, `SELECT updated_at FROM players WHERE id = ?`, id).Scan(&at)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return 0, errors.NotFoundf("player with ID %s not found", id)
		}
		return 0, errors.Wrap(err, "failed to read player timestamp")
	}
	return at, nil
}
