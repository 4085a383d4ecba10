package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-farma/internal/domain/entity"
)

// AssignmentFilter criterios opcionales para listar asignaciones.
type AssignmentFilter struct {
	ComercialID  *int64
	PostalCodeID *int64
	BrandID      *int64
	Active       *bool
	Limit        int
	Offset       int
}

// AssignmentRepository define el puerto de persistencia de asignaciones comercial × CP × marca.
type AssignmentRepository interface {
	// Exists indica si ya hay una fila con la misma clave (startDate nil se compara como NULL).
	Exists(ctx context.Context, comercialID, postalCodeID, brandID int64, startDate *time.Time) (bool, error)
	// Create inserta la asignación y rellena ID y timestamps. Devuelve domain.ErrConflict si la
	// clave ya existe.
	Create(ctx context.Context, a *entity.Assignment) error
	GetByID(ctx context.Context, id int64) (*entity.Assignment, error)
	List(ctx context.Context, f AssignmentFilter) ([]*entity.Assignment, error)
	// ListByCommercialAndPostalCodes devuelve todas las filas (vigentes o no) del comercial
	// sobre los códigos postales indicados.
	ListByCommercialAndPostalCodes(ctx context.Context, comercialID int64, postalCodeIDs []int64) ([]*entity.Assignment, error)
	Update(ctx context.Context, a *entity.Assignment) error
	Delete(ctx context.Context, id int64) error
}
