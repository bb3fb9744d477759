package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/railcrew/worklog/internal/common"
	"github.com/railcrew/worklog/internal/dbx"

	_ "modernc.org/sqlite"
)

const (
	createAccountsTableSQL = `
	CREATE TABLE IF NOT EXISTS accounts (
		user_id    TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		role       TEXT NOT NULL DEFAULT 'user',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	sqliteGetAccountSQL    = `SELECT user_id, data, role FROM accounts WHERE user_id = ?`
	sqliteInsertAccountSQL = `INSERT INTO accounts (user_id, data, role) VALUES (?, ?, ?)`
	sqliteUpdateAccountSQL = `UPDATE accounts SET data = ?, role = ? WHERE user_id = ?`
	sqliteListAccountsSQL  = `SELECT user_id, data, role FROM accounts ORDER BY created_at DESC, rowid DESC`
)

// SQLiteRepository implements Repository over a local SQLite database.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// OpenSQLite opens the database at dsn, verifies the connection, and runs
// the schema migration.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, createAccountsTableSQL)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, userID string) (*Row, error) {
	row := &Row{}
	err := r.db.QueryRowContext(ctx, sqliteGetAccountSQL, userID).
		Scan(&row.UserID, &row.Data, &row.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return row, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, row *Row) error {
	_, err := r.db.ExecContext(ctx, sqliteInsertAccountSQL, row.UserID, row.Data, row.Role)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, row *Row) error {
	res, err := r.db.ExecContext(ctx, sqliteUpdateAccountSQL, row.Data, row.Role, row.UserID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx, sqliteListAccountsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var item Row
		if err := rows.Scan(&item.UserID, &item.Data, &item.Role); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
