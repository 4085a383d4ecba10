package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier es lo común a *pgxpool.Pool y pgx.Tx. Los repositorios lo reciben para poder usarse
// igual fuera y dentro de una transacción. Begin sobre una tx abre un SAVEPOINT.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// withSavepoint ejecuta fn en un savepoint. Si fn falla se deshace solo el savepoint y la
// transacción externa sigue utilizable.
func withSavepoint(ctx context.Context, q Querier, fn func(q Querier) error) error {
	sp, err := q.Begin(ctx)
	if err != nil {
		return wrapErr("savepoint", err)
	}
	if err := fn(sp); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return wrapErr("release savepoint", err)
	}
	return nil
}
