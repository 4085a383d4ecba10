package postgres

import (
	"context"

	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

var _ repository.BrandRepository = (*BrandRepo)(nil)

// BrandRepo lectura de marcas.
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

// ListIDs con caps.HasActive filtra según el tipo real de la columna. La consulta filtrada va en
// un savepoint: si la columna no existe (42703) la tx sigue viva para el reintento sin filtro.
func (r *BrandRepo) ListIDs(ctx context.Context, caps repository.BrandCapabilities) ([]int64, error) {
	query := `SELECT id FROM brands`
	if caps.HasActive {
		query += ` WHERE ` + flagPredicate("active", caps.ActiveKind)
	}
	query += ` ORDER BY id`

	var ids []int64
	err := withSavepoint(ctx, r.q, func(q Querier) error {
		rows, err := q.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, wrapErr("list brands", err)
	}
	return ids, nil
}
