package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/entity"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func assignmentRow(id int64, start *time.Time) []any {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return []any{id, int64(7), int64(101), int64(1), start, (*time.Time)(nil), true, 5, "obs", "gestor", now, now}
}

func TestAssignmentRepo_Exists_ComparaStartDateNullSafe(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			assert.Contains(t, sql, "start_date IS NOT DISTINCT FROM $4::date")
			require.Len(t, args, 4)
			assert.Equal(t, int64(7), args[0])
			assert.Equal(t, int64(101), args[1])
			assert.Equal(t, int64(2), args[2])
			assert.Nil(t, args[3])
			return rowOf(true)
		},
	}

	exists, err := NewAssignmentRepository(tx).Exists(context.Background(), 7, 101, 2, nil)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAssignmentRepo_Create_EnSavepoint(t *testing.T) {
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			assert.Contains(t, sql, "INSERT INTO assignments")
			assert.Contains(t, sql, "ON CONFLICT DO NOTHING")
			assert.Equal(t, 9, len(args))
			assert.Equal(t, 5, args[6])
			return rowOf(int64(55), created, created)
		},
	}
	a := &entity.Assignment{ComercialID: 7, PostalCodeID: 101, BrandID: 1, Active: true, Priority: 5, StartDate: date("2026-01-01")}

	require.NoError(t, NewAssignmentRepository(tx).Create(context.Background(), a))
	assert.Equal(t, int64(55), a.ID)
	assert.Equal(t, created, a.CreatedAt)
	assert.Equal(t, 1, tx.begins)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 0, tx.rollbacks)
}

func TestAssignmentRepo_Create_Errores(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		conflict    bool
		unavailable bool
	}{
		{"sin fila devuelta", pgx.ErrNoRows, true, false},
		{"violación de unicidad", &pgconn.PgError{Code: "23505"}, true, false},
		{"check violado", &pgconn.PgError{Code: "23514", Message: "chk_assignments_window"}, false, false},
		{"conexión perdida", &pgconn.PgError{Code: "08006"}, false, true},
		{"apagado del servidor", &pgconn.PgError{Code: "57P01"}, false, true},
		{"contexto cancelado", context.Canceled, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := &stubTx{
				queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row { return errRow(tc.err) },
			}

			err := NewAssignmentRepository(tx).Create(context.Background(), &entity.Assignment{ComercialID: 7, PostalCodeID: 101, BrandID: 1})
			require.Error(t, err)
			assert.Equal(t, tc.conflict, errors.Is(err, domain.ErrConflict))
			assert.Equal(t, tc.unavailable, errors.Is(err, domain.ErrUnavailable))
			assert.Equal(t, 1, tx.rollbacks, "el savepoint se deshace")
		})
	}
}

func TestAssignmentRepo_GetByID(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if args[0] == int64(1) {
				return rowOf(assignmentRow(1, date("2026-01-01"))...)
			}
			return errRow(pgx.ErrNoRows)
		},
	}
	repo := NewAssignmentRepository(tx)

	a, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, int64(7), a.ComercialID)
	assert.Equal(t, "2026-01-01", a.StartDate.Format("2006-01-02"))
	assert.Nil(t, a.EndDate)
	assert.Equal(t, "obs", a.Observations)

	a, err = repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestAssignmentRepo_List_ConstruyeFiltros(t *testing.T) {
	active := true
	comercial := int64(7)
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			assert.Contains(t, sql, "WHERE comercial_id = $1 AND active = $2")
			assert.Contains(t, sql, "ORDER BY id LIMIT $3 OFFSET $4")
			assert.Equal(t, []any{int64(7), true, 20, 40}, args)
			return &stubRows{data: [][]any{assignmentRow(1, nil), assignmentRow(2, nil)}}, nil
		},
	}

	list, err := NewAssignmentRepository(tx).List(context.Background(), repository.AssignmentFilter{
		ComercialID: &comercial, Active: &active, Limit: 20, Offset: 40,
	})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAssignmentRepo_ListByCommercialAndPostalCodes(t *testing.T) {
	called := false
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			called = true
			assert.Contains(t, sql, "postal_code_id = ANY($2::bigint[])")
			assert.Equal(t, []int64{101, 102}, args[1])
			return &stubRows{data: [][]any{assignmentRow(1, nil)}}, nil
		},
	}
	repo := NewAssignmentRepository(tx)

	list, err := repo.ListByCommercialAndPostalCodes(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.False(t, called, "sin CPs no se consulta")

	list, err = repo.ListByCommercialAndPostalCodes(context.Background(), 7, []int64{101, 102})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAssignmentRepo_UpdateYDelete(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			assert.Contains(t, sql, "UPDATE assignments")
			switch args[0] {
			case int64(1):
				return errRow(pgx.ErrNoRows)
			default:
				return errRow(&pgconn.PgError{Code: "23505"})
			}
		},
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			assert.Contains(t, sql, "DELETE FROM assignments")
			if args[0] == int64(1) {
				return pgconn.NewCommandTag("DELETE 0"), nil
			}
			return pgconn.NewCommandTag("DELETE 1"), nil
		},
	}
	repo := NewAssignmentRepository(tx)

	assert.ErrorIs(t, repo.Update(context.Background(), &entity.Assignment{ID: 1}), domain.ErrNotFound)
	assert.ErrorIs(t, repo.Update(context.Background(), &entity.Assignment{ID: 2}), domain.ErrConflict)
	assert.ErrorIs(t, repo.Delete(context.Background(), 1), domain.ErrNotFound)
	assert.NoError(t, repo.Delete(context.Background(), 2))
}
