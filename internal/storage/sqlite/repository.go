// Package sqlite keeps ledger snapshots in a SQLite database, one row set
// per identity. Save replaces an identity's rows inside a single SQL
// transaction, so a snapshot is never half-written.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"finledger/internal/core"
	"finledger/internal/log"
	"finledger/internal/storage"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

var _ storage.Store = (*Repository)(nil)

// NewRepository opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewRepository(dbPath string, logger *log.Logger) (*Repository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := migrateLedgerSchema(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	logger.Debug("Database ready", log.FieldOperation, log.OpMigrate, log.FieldPath, dbPath, log.FieldSchemaVersion, version)

	return &Repository{db: db, logger: logger}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements storage.Store
func (r *Repository) Load(ctx context.Context, identity string) (core.Snapshot, error) {
	if err := storage.ValidateIdentity(identity); err != nil {
		return core.Snapshot{}, err
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM ledger_identities WHERE name = ?`, identity).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, fmt.Errorf("identity %q: %w", identity, storage.ErrNotFound)
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("%w: lookup identity: %v", core.ErrPersistence, err)
	}

	snap := core.NewSnapshot()
	if err := r.loadTransactions(ctx, id, &snap); err != nil {
		return core.Snapshot{}, err
	}
	if err := r.loadBudgets(ctx, id, &snap); err != nil {
		return core.Snapshot{}, err
	}

	r.logger.DebugContext(ctx, "Snapshot loaded from SQLite",
		log.FieldOperation, log.OpLoad,
		log.FieldIdentity, identity,
		log.FieldCount, snap.Len())
	return snap, nil
}

func (r *Repository) loadTransactions(ctx context.Context, id int64, snap *core.Snapshot) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT kind, date, amount, category, description
		FROM ledger_transactions
		WHERE identity_id = ?
		ORDER BY CASE kind WHEN 'income' THEN 0 ELSE 1 END, position`, id)
	if err != nil {
		return fmt.Errorf("%w: query transactions: %v", core.ErrPersistence, err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, date, amount, category, description string
		if err := rows.Scan(&kind, &date, &amount, &category, &description); err != nil {
			return fmt.Errorf("%w: scan transaction: %v", core.ErrPersistence, err)
		}
		t, err := rowTransaction(kind, date, amount, category, description)
		if err != nil {
			return fmt.Errorf("%w: %v", core.ErrCorruptSnapshot, err)
		}
		snap.Append(t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate transactions: %v", core.ErrPersistence, err)
	}
	return nil
}

func rowTransaction(kind, date, amount, category, description string) (core.Transaction, error) {
	d, err := core.ParseISODate(date)
	if err != nil {
		return core.Transaction{}, err
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %v", amount, err)
	}
	t := core.Transaction{
		Date:        d,
		Amount:      a,
		Category:    category,
		Description: description,
		Kind:        core.Kind(kind),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (r *Repository) loadBudgets(ctx context.Context, id int64, snap *core.Snapshot) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, amount FROM ledger_budgets WHERE identity_id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: query budgets: %v", core.ErrPersistence, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category, amount string
		if err := rows.Scan(&category, &amount); err != nil {
			return fmt.Errorf("%w: scan budget: %v", core.ErrPersistence, err)
		}
		a, err := decimal.NewFromString(amount)
		if err != nil || !a.IsPositive() {
			return fmt.Errorf("%w: budget %q has invalid amount %q", core.ErrCorruptSnapshot, category, amount)
		}
		snap.Budgets[category] = a
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterate budgets: %v", core.ErrPersistence, err)
	}
	return nil
}

// Save implements storage.Store
func (r *Repository) Save(ctx context.Context, identity string, snap core.Snapshot) error {
	if err := storage.ValidateIdentity(identity); err != nil {
		return err
	}
	if err := r.save(ctx, identity, snap); err != nil {
		r.logger.ErrorContext(ctx, "Snapshot save failed",
			log.FieldOperation, log.OpSave,
			log.FieldIdentity, identity,
			log.FieldError, err)
		return fmt.Errorf("%w: %v", core.ErrPersistence, err)
	}
	r.logger.DebugContext(ctx, "Snapshot saved to SQLite",
		log.FieldOperation, log.OpSave,
		log.FieldIdentity, identity,
		log.FieldCount, snap.Len())
	return nil
}

func (r *Repository) save(ctx context.Context, identity string, snap core.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO ledger_identities (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
		RETURNING id`, identity).Scan(&id)
	if err != nil {
		return fmt.Errorf("upsert identity: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_transactions WHERE identity_id = ?`, id); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_budgets WHERE identity_id = ?`, id); err != nil {
		return fmt.Errorf("clear budgets: %w", err)
	}

	insertTx, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_transactions (identity_id, kind, position, date, amount, category, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer insertTx.Close()

	for _, seq := range [][]core.Transaction{snap.Income, snap.Expense} {
		for pos, t := range seq {
			if _, err := insertTx.ExecContext(ctx, id, t.Kind.String(), pos,
				t.Date.String(), t.Amount.String(), t.Category, t.Description); err != nil {
				return fmt.Errorf("insert %s transaction %d: %w", t.Kind, pos, err)
			}
		}
	}

	for _, category := range snap.BudgetCategories() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ledger_budgets (identity_id, category, amount) VALUES (?, ?, ?)`,
			id, category, snap.Budgets[category].String()); err != nil {
			return fmt.Errorf("insert budget %q: %w", category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Identities lists every identity with a stored snapshot, alphabetically.
func (r *Repository) Identities(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM ledger_identities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: list identities: %v", core.ErrPersistence, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scan identity: %v", core.ErrPersistence, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
