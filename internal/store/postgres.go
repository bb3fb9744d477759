package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/railcrew/worklog/internal/common"
	"github.com/railcrew/worklog/internal/dbx"
	"github.com/railcrew/worklog/internal/store/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	pgGetAccountSQL    = `SELECT user_id, data, role FROM accounts WHERE user_id = $1`
	pgInsertAccountSQL = `INSERT INTO accounts (user_id, data, role) VALUES ($1, $2, $3)`
	pgUpdateAccountSQL = `UPDATE accounts SET data = $1, role = $2 WHERE user_id = $3`
	pgListAccountsSQL  = `SELECT user_id, data, role FROM accounts ORDER BY created_at DESC`
)

// PostgresRepository implements Repository over a shared PostgreSQL
// database, for deployments where many workers write to one backend.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository returns a PostgresRepository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// OpenPostgres connects to dsn, verifies the connection, and applies the
// embedded goose migrations.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("goose dialect error: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Row, error) {
	row := &Row{}
	err := r.db.QueryRowContext(ctx, pgGetAccountSQL, userID).
		Scan(&row.UserID, &row.Data, &row.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, row *Row) error {
	_, err := r.db.ExecContext(ctx, pgInsertAccountSQL, row.UserID, row.Data, row.Role)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, row *Row) error {
	res, err := r.db.ExecContext(ctx, pgUpdateAccountSQL, row.Data, row.Role, row.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx, pgListAccountsSQL)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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
