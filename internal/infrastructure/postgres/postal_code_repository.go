package postgres

import (
	"context"

	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

var _ repository.PostalCodeRepository = (*PostalCodeRepo)(nil)

// PostalCodeRepo lectura de códigos postales.
type PostalCodeRepo struct {
	q Querier
}

// NewPostalCodeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPostalCodeRepository(q Querier) *PostalCodeRepo {
	return &PostalCodeRepo{q: q}
}

// ListActiveIDsByProvinceID CPs activos de la provincia.
func (r *PostalCodeRepo) ListActiveIDsByProvinceID(ctx context.Context, provinceID int64) ([]int64, error) {
	query := `SELECT id FROM postal_codes WHERE province_id = $1 AND active ORDER BY id`
	return r.ids(ctx, "list postal codes by province id", query, provinceID)
}

// ListActiveIDsByProvinceName busca la provincia por nombre (trim, sin mayúsculas).
func (r *PostalCodeRepo) ListActiveIDsByProvinceName(ctx context.Context, name string) ([]int64, error) {
	query := `
		SELECT pc.id
		FROM postal_codes pc
		JOIN provinces p ON p.id = pc.province_id
		WHERE LOWER(TRIM(p.name)) = LOWER(TRIM($1)) AND pc.active
		ORDER BY pc.id`
	return r.ids(ctx, "list postal codes by province name", query, name)
}

// CodesByIDs códigos textuales distintos.
func (r *PostalCodeRepo) CodesByIDs(ctx context.Context, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT DISTINCT code FROM postal_codes WHERE id = ANY($1::bigint[]) ORDER BY code`, ids)
	if err != nil {
		return nil, wrapErr("postal code texts", err)
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, wrapErr("postal code texts", err)
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("postal code texts", err)
	}
	return codes, nil
}

func (r *PostalCodeRepo) ids(ctx context.Context, op, query string, args ...any) ([]int64, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, wrapErr(op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return ids, nil
}
