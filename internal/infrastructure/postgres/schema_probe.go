package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

// ProbeBrandCapabilities detecta una vez si brands tiene columna active y de qué tipo.
// El resultado se inyecta en el resolutor de marcas; no se cachea en ningún global.
func ProbeBrandCapabilities(ctx context.Context, q Querier) (repository.BrandCapabilities, error) {
	const query = `
		SELECT data_type
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = 'brands' AND column_name = 'active'`
	var dataType string
	if err := q.QueryRow(ctx, query).Scan(&dataType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.BrandCapabilities{}, nil
		}
		return repository.BrandCapabilities{}, wrapErr("probe brands.active", err)
	}
	kind, ok := flagKindFromDataType(dataType)
	if !ok {
		return repository.BrandCapabilities{}, nil
	}
	return repository.BrandCapabilities{HasActive: true, ActiveKind: kind}, nil
}
