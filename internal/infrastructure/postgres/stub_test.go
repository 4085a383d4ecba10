package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubTx implementa pgx.Tx con funciones inyectables. Begin devuelve el mismo stub (savepoint)
// y cuenta commits y rollbacks.
type stubTx struct {
	execFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	queryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row

	begins    int
	commits   int
	rollbacks int
}

func (s *stubTx) Begin(ctx context.Context) (pgx.Tx, error) {
	s.begins++
	return s, nil
}

func (s *stubTx) Commit(ctx context.Context) error {
	s.commits++
	return nil
}

func (s *stubTx) Rollback(ctx context.Context) error {
	s.rollbacks++
	return nil
}

func (s *stubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("copy not implemented")
}

func (s *stubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	var results pgx.BatchResults
	return results
}

func (s *stubTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (s *stubTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("prepare not implemented")
}

func (s *stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if s.execFunc == nil {
		return pgconn.CommandTag{}, errors.New("exec not implemented")
	}
	return s.execFunc(ctx, sql, args...)
}

func (s *stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if s.queryFunc == nil {
		return nil, errors.New("query not implemented")
	}
	return s.queryFunc(ctx, sql, args...)
}

func (s *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if s.queryRowFunc == nil {
		return stubRow{scan: func(dest ...any) error { return errors.New("query row not implemented") }}
	}
	return s.queryRowFunc(ctx, sql, args...)
}

func (s *stubTx) Conn() *pgx.Conn { return nil }

type stubRows struct {
	data [][]any
	idx  int
	err  error
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.data) {
		return errors.New("no current row to scan")
	}
	return scanInto(r.data[r.idx-1], dest)
}

func (r *stubRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.data) {
		return nil, errors.New("no current row")
	}
	return r.data[r.idx-1], nil
}

func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Err() error                                   { return r.err }
func (r *stubRows) Close()                                       {}
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return errors.New("scan not implemented")
	}
	return r.scan(dest...)
}

// rowOf fila que copia values en los destinos; errRow fila que falla al escanear.
func rowOf(values ...any) stubRow {
	return stubRow{scan: func(dest ...any) error { return scanInto(values, dest) }}
}

func errRow(err error) stubRow {
	return stubRow{scan: func(dest ...any) error { return err }}
}

func scanInto(row []any, dest []any) error {
	if len(dest) != len(row) {
		return fmt.Errorf("destination length %d does not match row length %d", len(dest), len(row))
	}
	for i, target := range dest {
		dv := reflect.ValueOf(target)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("scan target %d is %T", i, target)
		}
		if row[i] == nil {
			dv.Elem().Set(reflect.Zero(dv.Elem().Type()))
			continue
		}
		sv := reflect.ValueOf(row[i])
		if !sv.Type().AssignableTo(dv.Elem().Type()) {
			return fmt.Errorf("cannot scan %T into %T", row[i], target)
		}
		dv.Elem().Set(sv)
	}
	return nil
}
