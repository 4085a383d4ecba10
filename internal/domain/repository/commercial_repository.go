package repository

import (
	"context"

	"github.com/jhoicas/crm-farma/internal/domain/entity"
)

// CommercialRepository puerto de lectura de comerciales (datos de referencia).
type CommercialRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Commercial, error)
}
