package shop

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second

	docProducts = "products"
	docCarts    = "carts"
)

// PostgresStore keeps the same two whole-document snapshots as FileStore, one
// jsonb row per document. Both rows are upserted in a single transaction, so
// this backend does give cross-document atomicity.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Init(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS snapshots (
				name       text PRIMARY KEY,
				doc        jsonb NOT NULL,
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`)
		return err
	})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Load(ctx context.Context) ([]Product, map[string][]CartItem, error) {
	products := []Product{}
	if err := s.readDoc(ctx, docProducts, &products); err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}

	carts := map[string][]CartItem{}
	if err := s.readDoc(ctx, docCarts, &carts); err != nil {
		return nil, nil, fmt.Errorf("load carts: %w", err)
	}

	return products, carts, nil
}

func (s *PostgresStore) Save(ctx context.Context, products []Product, carts map[string][]CartItem) error {
	if products == nil {
		products = []Product{}
	}
	if carts == nil {
		carts = map[string][]CartItem{}
	}

	productsDoc, err := json.Marshal(products)
	if err != nil {
		return err
	}
	cartsDoc, err := json.Marshal(carts)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO snapshots (name, doc, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		if _, err := stmt.ExecContext(ctx, docProducts, productsDoc); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, docCarts, cartsDoc); err != nil {
			return err
		}

		return tx.Commit()
	})
}

func (s *PostgresStore) readDoc(ctx context.Context, name string, dst any) error {
	var raw []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT doc
			FROM snapshots
			WHERE name = $1
		`, name).Scan(&raw)
	})

	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
