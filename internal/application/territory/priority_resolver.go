package territory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
	"github.com/jhoicas/crm-farma/internal/domain/territory"
)

// PriorityResolver calcula prioridades efectivas leyendo las asignaciones en el momento de la
// llamada (nunca precalculadas).
type PriorityResolver struct {
	repo repository.AssignmentRepository
}

// NewPriorityResolver construye el resolutor sobre el repositorio (pool o tx).
func NewPriorityResolver(repo repository.AssignmentRepository) *PriorityResolver {
	return &PriorityResolver{repo: repo}
}

// EffectivePriority prioridad efectiva del comercial sobre el CP en ref; territory.NoClaim si no hay.
func (r *PriorityResolver) EffectivePriority(ctx context.Context, comercialID, postalCodeID int64, ref time.Time) (int, error) {
	if comercialID <= 0 || postalCodeID <= 0 {
		return territory.NoClaim, domain.ErrInvalidInput
	}
	rows, err := r.repo.ListByCommercialAndPostalCodes(ctx, comercialID, []int64{postalCodeID})
	if err != nil {
		return territory.NoClaim, fmt.Errorf("prioridad efectiva: %w", err)
	}
	return territory.EffectivePriority(rows, comercialID, postalCodeID, ref), nil
}

// MaxEffectivePriority máximo de la prioridad efectiva del comercial sobre los CPs dados.
func (r *PriorityResolver) MaxEffectivePriority(ctx context.Context, comercialID int64, postalCodeIDs []int64, ref time.Time) (int, error) {
	best := territory.NoClaim
	if len(postalCodeIDs) == 0 {
		return best, nil
	}
	rows, err := r.repo.ListByCommercialAndPostalCodes(ctx, comercialID, postalCodeIDs)
	if err != nil {
		return territory.NoClaim, fmt.Errorf("prioridad efectiva máxima: %w", err)
	}
	for _, pc := range postalCodeIDs {
		if p := territory.EffectivePriority(rows, comercialID, pc, ref); p > best {
			best = p
		}
	}
	return best, nil
}
