package repository

import (
	"context"
	"time"
)

// ReassignmentParams entrada de la reasignación en cascada de clientes.
type ReassignmentParams struct {
	ComercialID     int64
	PostalCodeIDs   []int64
	PostalCodeTexts []string
	NewPriority     int
	ReferenceDate   time.Time
}

// ClientRepository puerto de escritura del propietario comercial de los clientes.
type ClientRepository interface {
	// ReassignOwnership pasa al comercial los clientes afectados cuya propiedad actual no
	// domina NewPriority. Devuelve el número de filas actualizadas.
	ReassignOwnership(ctx context.Context, p ReassignmentParams) (int64, error)
}
