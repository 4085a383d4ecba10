package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/crm-farma/internal/domain/entity"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

var _ repository.CommercialRepository = (*CommercialRepo)(nil)

// CommercialRepo lectura de comerciales. La columna active es heredada y puede ser texto o
// número según la instalación; se lee como texto y se normaliza con parseFlag.
type CommercialRepo struct {
	q Querier
}

// NewCommercialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommercialRepository(q Querier) *CommercialRepo {
	return &CommercialRepo{q: q}
}

// GetByID devuelve nil, nil si no existe.
func (r *CommercialRepo) GetByID(ctx context.Context, id int64) (*entity.Commercial, error) {
	query := `SELECT id, name, active::text FROM commercials WHERE id = $1`
	var (
		c      entity.Commercial
		active *string
	)
	if err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get commercial", err)
	}
	if active != nil {
		c.Active = parseFlag(*active)
	}
	return &c, nil
}
