package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/ordertrack/internal/errs"
	"github.com/and161185/ordertrack/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStorage struct {
	db *pgxpool.Pool
}

func (store *PostgresStorage) initSchema(ctx context.Context) error {
	const initSchemaQuery = `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		display_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'USER',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		last_login_at TIMESTAMP,
		CONSTRAINT accounts_username_key UNIQUE (username),
		CONSTRAINT accounts_email_key UNIQUE (email)
	);
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		customer_name TEXT NOT NULL,
		order_amount DOUBLE PRECISION NOT NULL CHECK (order_amount > 0),
		order_date TIMESTAMP NOT NULL DEFAULT NOW(),
		document_url TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING'
	);`

	_, err := store.db.Exec(ctx, initSchemaQuery)
	return err
}

func NewPostgresStorage(ctx context.Context, databaseURI string) (*PostgresStorage, error) {
	db, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, err
	}

	storage := &PostgresStorage{db: db}

	if err := storage.Ping(ctx); err != nil {
		return nil, err
	}

	if err := storage.initSchema(ctx); err != nil {
		return nil, err
	}

	return storage, nil
}

func (store *PostgresStorage) Ping(ctx context.Context) error {
	return store.db.Ping(ctx)
}

func (store *PostgresStorage) Close() {
	store.db.Close()
}

const accountColumns = `id, username, email, password_hash, display_name, role, active, created_at, last_login_at`

func (s *PostgresStorage) UsernameExists(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)`

	var exists bool
	if err := s.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}

	return exists, nil
}

func (s *PostgresStorage) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`

	var exists bool
	if err := s.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}

	return exists, nil
}

// SaveAccount inserts the account or fully replaces the record with the same
// id. The unique constraints on username and email are the authoritative
// uniqueness guard, application-level existence checks are only a fast path.
func (s *PostgresStorage) SaveAccount(ctx context.Context, account model.Account) error {
	const query = `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			display_name = EXCLUDED.display_name,
			role = EXCLUDED.role,
			active = EXCLUDED.active,
			last_login_at = EXCLUDED.last_login_at`

	_, err := s.db.Exec(ctx, query,
		account.ID, account.Username, account.Email, account.PasswordHash,
		account.DisplayName, account.Role, account.Active, account.CreatedAt, account.LastLoginAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// 23505 — нарушение уникального ограничения
			if pgErr.ConstraintName == "accounts_email_key" {
				return errs.ErrEmailTaken
			}
			return errs.ErrUsernameTaken
		}
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetAccountByUsername(ctx context.Context, username string) (model.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

	return scanAccount(s.db.QueryRow(ctx, query, username))
}

// GetAccountByUsernameOrEmail matches the value against either field. When
// the value hits one field for one account and the other field for another,
// the oldest account wins.
func (s *PostgresStorage) GetAccountByUsernameOrEmail(ctx context.Context, value string) (model.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE username = $1 OR email = $1
		ORDER BY created_at
		LIMIT 1`

	return scanAccount(s.db.QueryRow(ctx, query, value))
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var a model.Account

	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash,
		&a.DisplayName, &a.Role, &a.Active, &a.CreatedAt, &a.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, errs.ErrAccountNotFound
		}
		return model.Account{}, fmt.Errorf("scan account: %w", err)
	}

	return a, nil
}

const orderColumns = `id, customer_name, order_amount, order_date, document_url, status`

func (s *PostgresStorage) CreateOrder(ctx context.Context, order model.Order) error {
	const query = `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.Exec(ctx, query,
		order.ID, order.CustomerName, order.OrderAmount, order.OrderDate, order.DocumentURL, order.Status)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetOrder(ctx context.Context, id string) (model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var o model.Order
	err := s.db.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.CustomerName, &o.OrderAmount, &o.OrderDate, &o.DocumentURL, &o.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Order{}, errs.ErrOrderNotFound
		}
		return model.Order{}, fmt.Errorf("get order: %w", err)
	}

	return o, nil
}

func (s *PostgresStorage) ListOrders(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY order_date DESC`

	return s.queryOrders(ctx, query)
}

func (s *PostgresStorage) FindOrdersByCustomer(ctx context.Context, name string) ([]model.Order, error) {
	const query = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_name ILIKE '%' || $1 || '%'
		ORDER BY order_date DESC`

	return s.queryOrders(ctx, query, name)
}

func (s *PostgresStorage) FindOrdersByAmountRange(ctx context.Context, min, max float64) ([]model.Order, error) {
	// границы диапазона включаются
	const query = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE order_amount BETWEEN $1 AND $2
		ORDER BY order_date DESC`

	return s.queryOrders(ctx, query, min, max)
}

// UpdateOrder overwrites the mutable fields only; document_url and order_date
// are never touched after creation.
func (s *PostgresStorage) UpdateOrder(ctx context.Context, order model.Order) error {
	const query = `
		UPDATE orders
		SET customer_name = $1, order_amount = $2, status = $3
		WHERE id = $4`

	cmdTag, err := s.db.Exec(ctx, query, order.CustomerName, order.OrderAmount, order.Status, order.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return errs.ErrOrderNotFound
	}

	return nil
}

func (s *PostgresStorage) DeleteOrder(ctx context.Context, id string) error {
	const query = `DELETE FROM orders WHERE id = $1`

	cmdTag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return errs.ErrOrderNotFound
	}

	return nil
}

func (s *PostgresStorage) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.CustomerName, &o.OrderAmount, &o.OrderDate, &o.DocumentURL, &o.Status)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return orders, nil
}
