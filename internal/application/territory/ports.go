package territory

import (
	"context"
	"time"

	"github.com/jhoicas/crm-farma/internal/application/dto"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el contexto se cancela) se hace Rollback y no sobrevive ninguna fila.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		assignmentRepo repository.AssignmentRepository,
		brandRepo repository.BrandRepository,
		postalCodeRepo repository.PostalCodeRepository,
		clientRepo repository.ClientRepository,
	) error) error
}

// Resultados de una llamada masiva para métricas.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected" // error de petición: entrada inválida o provincia sin CPs
	OutcomeError    = "error"    // rollback por fallo estructural
)

// Metrics recibe el resultado de cada asignación masiva. res es nil salvo en OutcomeOK.
type Metrics interface {
	ObserveBulk(scope, outcome string, res *dto.BulkAssignmentResult, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ObserveBulk(string, string, *dto.BulkAssignmentResult, time.Duration) {}
