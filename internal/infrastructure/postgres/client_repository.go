package postgres

import (
	"context"

	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo escritura del propietario comercial de los clientes.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// reassignOwnershipSQL una sola sentencia; la prioridad efectiva del propietario actual se
// calcula por fila. Los clientes sin FK se cruzan por el texto del CP y, para calcular la
// prioridad de su dueño, por todos los CPs con ese código.
// $1 comercial, $2 ids de CP, $3 códigos de CP, $4 prioridad nueva, $5 fecha de referencia.
const reassignOwnershipSQL = `
	UPDATE clients c
	SET owning_commercial_id = $1, updated_at = now()
	WHERE (c.postal_code_id = ANY($2::bigint[])
	       OR (c.postal_code_id IS NULL AND c.postal_code_text = ANY($3::text[])))
	  AND c.owning_commercial_id IS DISTINCT FROM $1
	  AND (
	        c.owning_commercial_id IS NULL
	        OR $4::int > COALESCE((
	            SELECT MAX(a.priority)
	            FROM assignments a
	            WHERE a.comercial_id = c.owning_commercial_id
	              AND (a.postal_code_id = c.postal_code_id
	                   OR (c.postal_code_id IS NULL
	                       AND a.postal_code_id IN (SELECT pc.id FROM postal_codes pc WHERE pc.code = c.postal_code_text)))
	              AND a.active
	              AND (a.start_date IS NULL OR a.start_date <= $5::date)
	              AND (a.end_date IS NULL OR a.end_date >= $5::date)
	        ), -1)
	  )`

// ReassignOwnership devuelve las filas actualizadas.
func (r *ClientRepo) ReassignOwnership(ctx context.Context, p repository.ReassignmentParams) (int64, error) {
	ids := p.PostalCodeIDs
	if ids == nil {
		ids = []int64{}
	}
	texts := p.PostalCodeTexts
	if texts == nil {
		texts = []string{}
	}
	tag, err := r.q.Exec(ctx, reassignOwnershipSQL, p.ComercialID, ids, texts, p.NewPriority, p.ReferenceDate)
	if err != nil {
		return 0, wrapErr("reassign clients", err)
	}
	return tag.RowsAffected(), nil
}
