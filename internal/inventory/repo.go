// Package inventory owns stock records: their storage, the stock-delta event
// format, and the publisher/consumer pair that carries deltas from the order
// service to the inventory service.
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("stock record not found")
	ErrAlreadyExists = errors.New("stock record already exists for product")
)

const queryTimeout = 5 * time.Second

type Repository interface {
	List(ctx context.Context, limit, offset int) ([]StockRecord, error)
	GetByID(ctx context.Context, id int64) (*StockRecord, error)
	GetByProductID(ctx context.Context, productID int64) (*StockRecord, error)
	Create(ctx context.Context, r *StockRecord) error
	// Mutate applies fn to the record with the given id as one atomic
	// read-modify-write and stores the result.
	Mutate(ctx context.Context, id int64, fn func(*StockRecord) error) (*StockRecord, error)
	// Adjust adds delta to the product's quantity in a single atomic step.
	// The result may go negative; callers that need a floor check first.
	Adjust(ctx context.Context, productID int64, delta int) (*StockRecord, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const stockColumns = `id, product_id, quantity_available, location`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*StockRecord, error) {
	var r StockRecord
	if err := row.Scan(&r.ID, &r.ProductID, &r.QuantityAvailable, &r.Location); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (p *PGRepo) List(ctx context.Context, limit, offset int) ([]StockRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := p.db.Query(ctx, `
		SELECT `+stockColumns+`
		FROM inventory
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StockRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (p *PGRepo) GetByID(ctx context.Context, id int64) (*StockRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanRecord(p.db.QueryRow(ctx, `
		SELECT `+stockColumns+` FROM inventory WHERE id=$1
	`, id))
}

func (p *PGRepo) GetByProductID(ctx context.Context, productID int64) (*StockRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanRecord(p.db.QueryRow(ctx, `
		SELECT `+stockColumns+` FROM inventory WHERE product_id=$1
	`, productID))
}

func (p *PGRepo) Create(ctx context.Context, r *StockRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := p.db.QueryRow(ctx, `
		INSERT INTO inventory (product_id, quantity_available, location)
		VALUES ($1,$2,$3)
		RETURNING id
	`, r.ProductID, r.QuantityAvailable, r.Location).Scan(&r.ID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}

func (p *PGRepo) Mutate(ctx context.Context, id int64, fn func(*StockRecord) error) (*StockRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	r, err := scanRecord(tx.QueryRow(ctx, `
		SELECT `+stockColumns+` FROM inventory WHERE id=$1 FOR UPDATE
	`, id))
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	r.ID = id
	if _, err := tx.Exec(ctx, `
		UPDATE inventory
		SET product_id = $2, quantity_available = $3, location = $4
		WHERE id = $1
	`, r.ID, r.ProductID, r.QuantityAvailable, r.Location); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return r, tx.Commit(ctx)
}

func (p *PGRepo) Adjust(ctx context.Context, productID int64, delta int) (*StockRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanRecord(p.db.QueryRow(ctx, `
		UPDATE inventory
		SET quantity_available = quantity_available + $2
		WHERE product_id = $1
		RETURNING `+stockColumns, productID, delta))
}

func (p *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cmd, err := p.db.Exec(ctx, `DELETE FROM inventory WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
