package territory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
	"github.com/jhoicas/crm-farma/pkg/logger"
)

// BrandResolver expande el comodín "todas las marcas" a IDs concretos.
type BrandResolver struct {
	repo repository.BrandRepository
	caps repository.BrandCapabilities
	log  *logger.Logger
}

// NewBrandResolver construye el resolutor con las capacidades del esquema ya detectadas.
func NewBrandResolver(repo repository.BrandRepository, caps repository.BrandCapabilities, log *logger.Logger) *BrandResolver {
	if log == nil {
		log = logger.Nop()
	}
	return &BrandResolver{repo: repo, caps: caps, log: log}
}

// Expand devuelve [brandID] si se indica; si no, todas las marcas (solo activas cuando el
// esquema tiene columna de activo). Si la columna anunciada falta, se degrada a sin filtro.
func (r *BrandResolver) Expand(ctx context.Context, brandID *int64) ([]int64, error) {
	if brandID != nil {
		if *brandID <= 0 {
			return nil, domain.ErrInvalidInput
		}
		return []int64{*brandID}, nil
	}
	ids, err := r.repo.ListIDs(ctx, r.caps)
	if err != nil && r.caps.HasActive && errors.Is(err, domain.ErrSchemaMismatch) {
		r.log.Warn().Err(err).Msg("marcas sin columna active; se listan todas sin filtrar")
		ids, err = r.repo.ListIDs(ctx, repository.BrandCapabilities{})
	}
	if err != nil {
		return nil, fmt.Errorf("expandir marcas: %w", err)
	}
	return ids, nil
}
