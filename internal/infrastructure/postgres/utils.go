package postgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/crm-farma/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isSchemaMismatch la columna no existe (42703) o su tipo no admite el predicado generado
// (42883 undefined_function, 42804 datatype_mismatch).
func isSchemaMismatch(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "42703", "42883", "42804":
		return true
	}
	return false
}

// isUnavailable indica que la conexión o la transacción ya no sirven: no tiene sentido seguir
// con el resto de pares.
func isUnavailable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"), // connection_exception
			strings.HasPrefix(pgErr.Code, "53"),  // insufficient_resources
			strings.HasPrefix(pgErr.Code, "57P"), // admin_shutdown, crash_shutdown, cannot_connect_now
			pgErr.Code == "25P02",                // in_failed_sql_transaction
			pgErr.Code == "40P01":                // deadlock_detected
			return true
		}
		return false
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.Timeout(err) ||
		errors.Is(err, pgx.ErrTxClosed) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// wrapErr antepone la operación y marca los errores estructurales con domain.ErrUnavailable
// y las columnas inexistentes o de tipo inesperado con domain.ErrSchemaMismatch.
func wrapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case isSchemaMismatch(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrSchemaMismatch, err)
	case isUnavailable(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
