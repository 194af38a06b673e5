package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver
	"github.com/jmoiron/sqlx"
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

const (
	driverSQLite   = "sqlite"
	driverLibSQL   = "libsql"
	driverPostgres = "pgx"
)

const linkColumns = `code, target_url, total_clicks, last_clicked_at, created_at`

type Repository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// DriverFor picks the database/sql driver for a DATABASE_URL.
func DriverFor(dbURL string) string {
	switch {
	case strings.HasPrefix(dbURL, "libsql://"), strings.HasPrefix(dbURL, "wss://"):
		return driverLibSQL
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return driverPostgres
	default:
		return driverSQLite
	}
}

// NewRepository connects to dbURL and applies pending migrations.
func NewRepository(ctx context.Context, dbURL string, logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driverName := DriverFor(dbURL)

	db, err := sqlx.Open(driverName, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}

	if driverName == driverSQLite {
		// One connection serializes writers and keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}

	if driverName == driverSQLite {
		if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure sqlite: %w", err)
		}
	}

	if err := runMigrations(db.DB, driverName); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("database ready", "driver", driverName)
	return &Repository{db: db, logger: logger}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Create(ctx context.Context, link *domain.Link) error {
	query := r.db.Rebind(`INSERT INTO links (code, target_url, total_clicks, created_at) VALUES (?, ?, 0, ?)`)

	if _, err := r.db.ExecContext(ctx, query, link.Code, link.TargetURL, link.CreatedAt.UTC()); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrConflict, link.Code)
		}
		return err
	}

	link.TotalClicks = 0
	link.LastClickedAt = nil
	return nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Link, error) {
	query := r.db.Rebind(`SELECT ` + linkColumns + ` FROM links WHERE code = ? AND deleted_at IS NULL`)

	var link domain.Link
	err := r.db.GetContext(ctx, &link, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// Exists reports whether code has ever been assigned, deleted links included.
func (r *Repository) Exists(ctx context.Context, code string) (bool, error) {
	query := r.db.Rebind(`SELECT EXISTS (SELECT 1 FROM links WHERE code = ?)`)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE deleted_at IS NULL ORDER BY created_at DESC, id DESC`

	links := []domain.Link{}
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *Repository) Delete(ctx context.Context, code string) error {
	query := r.db.Rebind(`UPDATE links SET deleted_at = ? WHERE code = ? AND deleted_at IS NULL`)
	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), code)
	return err
}

// RecordClick adds one click relative to the stored count, so concurrent calls never lose updates.
// last_clicked_at only moves forward.
func (r *Repository) RecordClick(ctx context.Context, code string, at time.Time) error {
	query := r.db.Rebind(`
		UPDATE links
		SET total_clicks = total_clicks + 1,
			last_clicked_at = CASE
				WHEN last_clicked_at IS NULL OR last_clicked_at < ? THEN ?
				ELSE last_clicked_at
			END
		WHERE code = ? AND deleted_at IS NULL`)

	at = at.UTC()
	res, err := r.db.ExecContext(ctx, query, at, at, code)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Dump returns every row, deleted links included, oldest first.
func (r *Repository) Dump(ctx context.Context) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + `, deleted_at FROM links ORDER BY id`

	links := []domain.Link{}
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, err
	}
	return links, nil
}

// Restore inserts a previously dumped link as is.
func (r *Repository) Restore(ctx context.Context, link *domain.Link) error {
	query := r.db.Rebind(`
		INSERT INTO links (code, target_url, total_clicks, last_clicked_at, created_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		link.Code, link.TargetURL, link.TotalClicks,
		utcPtr(link.LastClickedAt), link.CreatedAt.UTC(), utcPtr(link.DeletedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrConflict, link.Code)
	}
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Ensure interface compliance
var _ ports.LinkRepository = (*Repository)(nil)
