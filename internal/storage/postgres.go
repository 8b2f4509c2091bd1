package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dvoronov/fintalk/internal/domain"
	"github.com/dvoronov/fintalk/internal/sqlscope"
)

// Postgres implements Store on a pgx connection pool. Each call checks a
// session out of the pool for its own duration, so concurrent pipeline
// runs never share one.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database at dsn and verifies the connection.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: ping: %v: %w", err, domain.ErrStorage)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Execute runs one scoped statement against the pool.
func (p *Postgres) Execute(ctx context.Context, query sqlscope.Scoped) (*Result, error) {
	stmt := string(query)

	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(stmt)), "select") {
		rows, err := p.pool.Query(ctx, stmt)
		if err != nil {
			return nil, fmt.Errorf("storage: query: %v: %w", err, domain.ErrStorage)
		}
		defer rows.Close()

		result := &Result{IsRows: true}
		for _, fd := range rows.FieldDescriptions() {
			result.Columns = append(result.Columns, string(fd.Name))
		}
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				return nil, fmt.Errorf("storage: read row: %v: %w", err, domain.ErrStorage)
			}
			result.Rows = append(result.Rows, values)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("storage: rows: %v: %w", err, domain.ErrStorage)
		}
		return result, nil
	}

	tag, err := p.pool.Exec(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("storage: exec: %v: %w", err, domain.ErrStorage)
	}
	return &Result{Affected: tag.RowsAffected()}, nil
}

// InsertTransaction appends one row to the transactions table.
func (p *Postgres) InsertTransaction(ctx context.Context, tx *domain.Transaction) error {
	const stmt = `
		INSERT INTO transactions (type, amount, category, target, source, date, time, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := p.pool.Exec(ctx, stmt,
		string(tx.Kind),
		tx.Amount,
		tx.Category,
		tx.Target,
		tx.Source,
		tx.Date,
		tx.TimeOfDay,
		tx.UserID,
	)
	if err != nil {
		return fmt.Errorf("storage: insert transaction: %v: %w", err, domain.ErrStorage)
	}
	return nil
}
