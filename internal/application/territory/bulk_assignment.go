package territory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/crm-farma/internal/application/dto"
	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/entity"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
	"github.com/jhoicas/crm-farma/internal/domain/territory"
	"github.com/jhoicas/crm-farma/pkg/logger"
)

// Config parámetros del motor de asignación.
type Config struct {
	DefaultPriority int
	Location        *time.Location   // zona para la fecha de referencia; nil = UTC
	Now             func() time.Time // reloj; nil = time.Now
}

// BulkAssignmentInput entrada de una asignación masiva.
// BrandID nil = todas las marcas. Priority nil = prioridad por defecto; Active y Cascade nil = true.
type BulkAssignmentInput struct {
	ComercialID   int64
	PostalCodeIDs []int64
	BrandID       *int64
	StartDate     *time.Time
	EndDate       *time.Time
	Priority      *int
	Active        *bool
	Observations  string
	CreatedBy     string
	Cascade       *bool
}

// bulkParams entrada normalizada (valores por defecto aplicados, CPs sin repetir).
type bulkParams struct {
	comercialID   int64
	postalCodeIDs []int64
	brandID       *int64
	startDate     *time.Time
	endDate       *time.Time
	priority      int
	active        bool
	observations  string
	createdBy     string
	cascade       bool
}

type bulkOutcome struct {
	result      *dto.BulkAssignmentResult
	brands      int
	newPriority int
}

// BulkAssignmentUseCase asigna un comercial a CPs × marcas en una sola transacción y propaga la
// asignación a los clientes afectados.
type BulkAssignmentUseCase struct {
	txRunner        TxRunner
	commercialRepo  repository.CommercialRepository
	brandCaps       repository.BrandCapabilities
	defaultPriority int
	loc             *time.Location
	now             func() time.Time
	metrics         Metrics
	log             *logger.Logger
}

// NewBulkAssignmentUseCase construye el orquestador. metrics y log pueden ser nil.
func NewBulkAssignmentUseCase(
	txRunner TxRunner,
	commercialRepo repository.CommercialRepository,
	brandCaps repository.BrandCapabilities,
	cfg Config,
	metrics Metrics,
	log *logger.Logger,
) *BulkAssignmentUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BulkAssignmentUseCase{
		txRunner:        txRunner,
		commercialRepo:  commercialRepo,
		brandCaps:       brandCaps,
		defaultPriority: cfg.DefaultPriority,
		loc:             cfg.Location,
		now:             cfg.Now,
		metrics:         metrics,
		log:             log,
	}
}

// Assign ejecuta la asignación masiva. Los fallos de pares individuales van en Failures; solo
// los errores de petición o estructurales se devuelven como error (y en ese caso no queda
// ninguna fila de esta llamada).
func (uc *BulkAssignmentUseCase) Assign(ctx context.Context, in BulkAssignmentInput) (*dto.BulkAssignmentResult, error) {
	started := time.Now()
	opID := uuid.New().String()

	p, err := uc.normalize(in, true)
	if err == nil {
		err = uc.checkCommercial(ctx, p.comercialID)
	}
	if err != nil {
		uc.finish("postal_codes", opID, p, nil, err, started)
		return nil, err
	}

	var out *bulkOutcome
	err = uc.txRunner.Run(ctx, func(
		assignmentRepo repository.AssignmentRepository,
		brandRepo repository.BrandRepository,
		postalCodeRepo repository.PostalCodeRepository,
		clientRepo repository.ClientRepository,
	) error {
		o, err := uc.assignInTx(ctx, p, assignmentRepo, brandRepo, postalCodeRepo, clientRepo)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	uc.finish("postal_codes", opID, p, out, err, started)
	if err != nil {
		return nil, err
	}
	return out.result, nil
}

// normalize valida sin tocar la BD y aplica valores por defecto.
// requireIDs=false permite que el orquestador por provincia rellene los CPs después.
func (uc *BulkAssignmentUseCase) normalize(in BulkAssignmentInput, requireIDs bool) (bulkParams, error) {
	p := bulkParams{
		comercialID:  in.ComercialID,
		brandID:      in.BrandID,
		priority:     uc.defaultPriority,
		active:       true,
		observations: in.Observations,
		createdBy:    in.CreatedBy,
		cascade:      true,
	}
	if in.ComercialID <= 0 {
		return p, fmt.Errorf("comercial_id requerido: %w", domain.ErrInvalidInput)
	}
	if requireIDs && len(in.PostalCodeIDs) == 0 {
		return p, fmt.Errorf("postal_code_ids no puede estar vacío: %w", domain.ErrInvalidInput)
	}
	for _, id := range in.PostalCodeIDs {
		if id <= 0 {
			return p, fmt.Errorf("postal_code_id %d inválido: %w", id, domain.ErrInvalidInput)
		}
	}
	p.postalCodeIDs = uniqueIDs(in.PostalCodeIDs)
	if in.BrandID != nil && *in.BrandID <= 0 {
		return p, fmt.Errorf("brand_id %d inválido: %w", *in.BrandID, domain.ErrInvalidInput)
	}
	if in.Priority != nil {
		p.priority = *in.Priority
	}
	if p.priority < 0 {
		return p, fmt.Errorf("priority debe ser >= 0: %w", domain.ErrInvalidInput)
	}
	if in.Active != nil {
		p.active = *in.Active
	}
	if in.Cascade != nil {
		p.cascade = *in.Cascade
	}
	if in.StartDate != nil {
		d := territory.DateOnly(*in.StartDate)
		p.startDate = &d
	}
	if in.EndDate != nil {
		d := territory.DateOnly(*in.EndDate)
		p.endDate = &d
	}
	if p.startDate != nil && p.endDate != nil && p.endDate.Before(*p.startDate) {
		return p, fmt.Errorf("end_date anterior a start_date: %w", domain.ErrInvalidInput)
	}
	return p, nil
}

func (uc *BulkAssignmentUseCase) checkCommercial(ctx context.Context, id int64) error {
	c, err := uc.commercialRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("obtener comercial: %w", err)
	}
	if c == nil {
		return fmt.Errorf("comercial %d: %w", id, domain.ErrNotFound)
	}
	if !c.Active {
		uc.log.Warn().Int64("comercial_id", id).Msg("asignación a comercial inactivo")
	}
	return nil
}

// assignInTx recorre CPs × marcas (CP primero, en el orden recibido), inserta lo que falta y
// lanza la cascada con la prioridad efectiva recalculada tras las inserciones.
func (uc *BulkAssignmentUseCase) assignInTx(
	ctx context.Context,
	p bulkParams,
	assignmentRepo repository.AssignmentRepository,
	brandRepo repository.BrandRepository,
	postalCodeRepo repository.PostalCodeRepository,
	clientRepo repository.ClientRepository,
) (*bulkOutcome, error) {
	ref := territory.ReferenceDate(uc.now(), uc.loc)

	brands, err := NewBrandResolver(brandRepo, uc.brandCaps, uc.log).Expand(ctx, p.brandID)
	if err != nil {
		return nil, err
	}

	res := &dto.BulkAssignmentResult{Failures: []dto.PairFailure{}}
	out := &bulkOutcome{result: res, brands: len(brands), newPriority: territory.NoClaim}
	var affected []int64
	touched := make(map[int64]bool, len(p.postalCodeIDs))

	for _, pc := range p.postalCodeIDs {
		for _, brand := range brands {
			exists, err := assignmentRepo.Exists(ctx, p.comercialID, pc, brand, p.startDate)
			if err != nil {
				return nil, fmt.Errorf("comprobar asignación cp=%d marca=%d: %w", pc, brand, err)
			}
			if exists {
				res.AlreadyAssigned++
				continue
			}
			a := &entity.Assignment{
				ComercialID:  p.comercialID,
				PostalCodeID: pc,
				BrandID:      brand,
				StartDate:    p.startDate,
				EndDate:      p.endDate,
				Active:       p.active,
				Priority:     p.priority,
				Observations: p.observations,
				CreatedBy:    p.createdBy,
			}
			if err := assignmentRepo.Create(ctx, a); err != nil {
				switch {
				case errors.Is(err, domain.ErrConflict):
					// Otra transacción ganó la carrera entre Exists y Create.
					res.AlreadyAssigned++
				case isFatal(ctx, err):
					return nil, fmt.Errorf("insertar asignación cp=%d marca=%d: %w", pc, brand, err)
				default:
					res.Failed++
					res.Failures = append(res.Failures, dto.PairFailure{PostalCodeID: pc, BrandID: brand, Error: err.Error()})
				}
				continue
			}
			res.Created++
			if !touched[pc] {
				touched[pc] = true
				affected = append(affected, pc)
			}
		}
	}

	if !p.cascade || len(affected) == 0 {
		return out, nil
	}

	// Se relee la prioridad: una llamada anterior pudo dejar una mayor que la recibida.
	newPriority, err := NewPriorityResolver(assignmentRepo).MaxEffectivePriority(ctx, p.comercialID, affected, ref)
	if err != nil {
		return nil, err
	}
	out.newPriority = newPriority
	texts, err := NewPostalCodeResolver(postalCodeRepo).CodesForIDs(ctx, affected)
	if err != nil {
		return nil, err
	}
	n, err := NewClientReassignment(clientRepo).Reassign(ctx, repository.ReassignmentParams{
		ComercialID:     p.comercialID,
		PostalCodeIDs:   affected,
		PostalCodeTexts: texts,
		NewPriority:     newPriority,
		ReferenceDate:   ref,
	})
	if err != nil {
		return nil, err
	}
	res.ClientsReassigned = n
	return out, nil
}

func (uc *BulkAssignmentUseCase) finish(scope, opID string, p bulkParams, out *bulkOutcome, err error, started time.Time) {
	elapsed := time.Since(started)
	if err != nil {
		outcome, msg := OutcomeError, "asignación masiva revertida"
		ev := uc.log.Error
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
			outcome, msg = OutcomeRejected, "asignación masiva rechazada"
			ev = uc.log.Warn
		}
		uc.metrics.ObserveBulk(scope, outcome, nil, elapsed)
		ev().Err(err).
			Str("operation_id", opID).
			Str("scope", scope).
			Int64("comercial_id", p.comercialID).
			Dur("elapsed", elapsed).
			Msg(msg)
		return
	}
	uc.metrics.ObserveBulk(scope, OutcomeOK, out.result, elapsed)
	uc.log.Info().
		Str("operation_id", opID).
		Str("scope", scope).
		Int64("comercial_id", p.comercialID).
		Int("postal_codes", len(p.postalCodeIDs)).
		Int("brands", out.brands).
		Int("created", out.result.Created).
		Int("already_assigned", out.result.AlreadyAssigned).
		Int("failed", out.result.Failed).
		Int64("clients_reassigned", out.result.ClientsReassigned).
		Int("new_priority", out.newPriority).
		Dur("elapsed", elapsed).
		Msg("asignación masiva completada")
}

// isFatal distingue los errores que invalidan la transacción completa de los de un solo par.
func isFatal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, domain.ErrUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
