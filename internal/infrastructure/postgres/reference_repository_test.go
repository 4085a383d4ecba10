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
	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Marcas y capacidades del esquema
// ──────────────────────────────────────────────────────────────────────────────

func TestBrandRepo_ListIDs_FiltraSegunTipo(t *testing.T) {
	cases := []struct {
		caps repository.BrandCapabilities
		want string
	}{
		{repository.BrandCapabilities{}, "SELECT id FROM brands ORDER BY id"},
		{repository.BrandCapabilities{HasActive: true, ActiveKind: repository.FlagBoolean}, "WHERE COALESCE(active, FALSE)"},
		{repository.BrandCapabilities{HasActive: true, ActiveKind: repository.FlagNumeric}, "WHERE COALESCE(active, 0) <> 0"},
		{repository.BrandCapabilities{HasActive: true, ActiveKind: repository.FlagText}, "WHERE UPPER(TRIM(active)) IN ('1', 'OK', 'S'"},
	}
	for _, tc := range cases {
		t.Run(string(tc.caps.ActiveKind), func(t *testing.T) {
			tx := &stubTx{
				queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
					assert.Contains(t, sql, tc.want)
					return &stubRows{data: [][]any{{int64(1)}, {int64(2)}}}, nil
				},
			}
			ids, err := NewBrandRepository(tx).ListIDs(context.Background(), tc.caps)
			require.NoError(t, err)
			assert.Equal(t, []int64{1, 2}, ids)
		})
	}
}

func TestBrandRepo_ListIDs_ColumnaInexistente(t *testing.T) {
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return nil, &pgconn.PgError{Code: "42703", Message: `column "active" does not exist`}
		},
	}

	_, err := NewBrandRepository(tx).ListIDs(context.Background(), repository.BrandCapabilities{HasActive: true})
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
	assert.Equal(t, 1, tx.rollbacks, "el savepoint deja la tx utilizable")
}

func TestBrandRepo_ListIDs_TipoSinOperador(t *testing.T) {
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return nil, &pgconn.PgError{Code: "42883", Message: "function upper(bit) does not exist"}
		},
	}

	_, err := NewBrandRepository(tx).ListIDs(context.Background(), repository.BrandCapabilities{HasActive: true, ActiveKind: repository.FlagText})
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch, "el resolutor degrada a sin filtro")
	assert.Equal(t, 1, tx.rollbacks)
}

func TestProbeBrandCapabilities(t *testing.T) {
	cases := []struct {
		name string
		row  stubRow
		want repository.BrandCapabilities
	}{
		{"sin columna", errRow(pgx.ErrNoRows), repository.BrandCapabilities{}},
		{"boolean", rowOf("boolean"), repository.BrandCapabilities{HasActive: true, ActiveKind: repository.FlagBoolean}},
		{"smallint", rowOf("smallint"), repository.BrandCapabilities{HasActive: true, ActiveKind: repository.FlagNumeric}},
		{"varchar", rowOf("character varying"), repository.BrandCapabilities{HasActive: true, ActiveKind: repository.FlagText}},
		{"text", rowOf("text"), repository.BrandCapabilities{HasActive: true, ActiveKind: repository.FlagText}},
		{"bit se ignora", rowOf("bit"), repository.BrandCapabilities{}},
		{"tipo de usuario se ignora", rowOf("USER-DEFINED"), repository.BrandCapabilities{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := &stubTx{
				queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
					assert.Contains(t, sql, "information_schema.columns")
					return tc.row
				},
			}
			caps, err := ProbeBrandCapabilities(context.Background(), tx)
			require.NoError(t, err)
			assert.Equal(t, tc.want, caps)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Códigos postales, comerciales y clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestPostalCodeRepo_PorNombreYCodigos(t *testing.T) {
	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			if len(args) == 1 && args[0] == " Madrid " {
				assert.Contains(t, sql, "LOWER(TRIM(p.name)) = LOWER(TRIM($1))")
				return &stubRows{data: [][]any{{int64(101)}, {int64(102)}}}, nil
			}
			assert.Contains(t, sql, "SELECT DISTINCT code")
			return &stubRows{data: [][]any{{"28001"}, {"28002"}}}, nil
		},
	}
	repo := NewPostalCodeRepository(tx)

	ids, err := repo.ListActiveIDsByProvinceName(context.Background(), " Madrid ")
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 102}, ids)

	codes, err := repo.CodesByIDs(context.Background(), []int64{101, 102})
	require.NoError(t, err)
	assert.Equal(t, []string{"28001", "28002"}, codes)
}

func TestCommercialRepo_GetByID_NormalizaActivo(t *testing.T) {
	values := map[int64]*string{1: strPtr("OK"), 2: strPtr("KO"), 3: strPtr("true"), 4: nil}
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			id := args[0].(int64)
			if id == 99 {
				return errRow(pgx.ErrNoRows)
			}
			return rowOf(id, "Ana", values[id])
		},
	}
	repo := NewCommercialRepository(tx)

	for id, want := range map[int64]bool{1: true, 2: false, 3: true, 4: false} {
		c, err := repo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, c.Active, "comercial %d", id)
	}
	c, err := repo.GetByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestClientRepo_ReassignOwnership(t *testing.T) {
	ref := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			assert.Contains(t, sql, "UPDATE clients c")
			assert.Contains(t, sql, "owning_commercial_id IS DISTINCT FROM $1")
			assert.Contains(t, sql, "$4::int > COALESCE(")
			require.Len(t, args, 5)
			assert.Equal(t, []int64{101}, args[1])
			assert.Equal(t, []string{}, args[2], "nil se envía como array vacío")
			assert.Equal(t, 3, args[3])
			assert.Equal(t, ref, args[4])
			return pgconn.NewCommandTag("UPDATE 4"), nil
		},
	}

	n, err := NewClientRepository(tx).ReassignOwnership(context.Background(), repository.ReassignmentParams{
		ComercialID: 7, PostalCodeIDs: []int64{101}, NewPriority: 3, ReferenceDate: ref,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestClientRepo_ReassignOwnership_ErrorEstructural(t *testing.T) {
	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "53300"}
		},
	}

	_, err := NewClientRepository(tx).ReassignOwnership(context.Background(), repository.ReassignmentParams{ComercialID: 7})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Indicadores y clasificación de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestParseFlag(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{true, true},
		{false, false},
		{int16(1), true},
		{int32(0), false},
		{int64(2), true},
		{float64(0), false},
		{"OK", true},
		{" ok ", true},
		{"KO", false},
		{"S", true},
		{"N", false},
		{"Sí", true},
		{"1", true},
		{"0", false},
		{"", false},
		{[]byte("YES"), true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseFlag(tc.in), "parseFlag(%#v)", tc.in)
	}
}

func TestWrapErr_Clasifica(t *testing.T) {
	assert.Nil(t, wrapErr("op", nil))
	assert.ErrorIs(t, wrapErr("op", &pgconn.PgError{Code: "42703"}), domain.ErrSchemaMismatch)
	assert.ErrorIs(t, wrapErr("op", &pgconn.PgError{Code: "42883"}), domain.ErrSchemaMismatch, "UPPER(TRIM(bit))")
	assert.ErrorIs(t, wrapErr("op", &pgconn.PgError{Code: "42804"}), domain.ErrSchemaMismatch)
	assert.ErrorIs(t, wrapErr("op", &pgconn.PgError{Code: "08003"}), domain.ErrUnavailable)
	assert.ErrorIs(t, wrapErr("op", pgx.ErrTxClosed), domain.ErrUnavailable)

	plain := wrapErr("op", errors.New("boom"))
	assert.NotErrorIs(t, plain, domain.ErrUnavailable)
	assert.EqualError(t, plain, "op: boom")
}

func strPtr(s string) *string { return &s }
