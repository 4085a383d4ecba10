package territory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/crm-farma/internal/application/dto"
	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

// ProvinceAssignmentInput asignación masiva sobre todos los CPs activos de una provincia.
// Province es el ID numérico o el nombre; PostalCodeIDs del input embebido se ignora.
type ProvinceAssignmentInput struct {
	Province string
	BulkAssignmentInput
}

// ProvinceAssignmentUseCase resuelve la provincia y delega en el orquestador masivo, todo en la
// misma transacción.
type ProvinceAssignmentUseCase struct {
	bulk *BulkAssignmentUseCase
}

// NewProvinceAssignmentUseCase construye el caso de uso sobre el orquestador masivo.
func NewProvinceAssignmentUseCase(bulk *BulkAssignmentUseCase) *ProvinceAssignmentUseCase {
	return &ProvinceAssignmentUseCase{bulk: bulk}
}

// Assign devuelve domain.ErrNotFound si la provincia no tiene códigos postales activos.
func (uc *ProvinceAssignmentUseCase) Assign(ctx context.Context, in ProvinceAssignmentInput) (*dto.BulkAssignmentResult, error) {
	started := time.Now()
	opID := uuid.New().String()

	in.PostalCodeIDs = nil
	p, err := uc.bulk.normalize(in.BulkAssignmentInput, false)
	if err == nil && strings.TrimSpace(in.Province) == "" {
		err = fmt.Errorf("province requerida: %w", domain.ErrInvalidInput)
	}
	if err == nil {
		err = uc.bulk.checkCommercial(ctx, p.comercialID)
	}
	if err != nil {
		uc.bulk.finish("province", opID, p, nil, err, started)
		return nil, err
	}

	var out *bulkOutcome
	err = uc.bulk.txRunner.Run(ctx, func(
		assignmentRepo repository.AssignmentRepository,
		brandRepo repository.BrandRepository,
		postalCodeRepo repository.PostalCodeRepository,
		clientRepo repository.ClientRepository,
	) error {
		ids, err := NewPostalCodeResolver(postalCodeRepo).ResolveProvince(ctx, in.Province)
		if err != nil {
			return err
		}
		p.postalCodeIDs = uniqueIDs(ids)
		o, err := uc.bulk.assignInTx(ctx, p, assignmentRepo, brandRepo, postalCodeRepo, clientRepo)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	uc.bulk.finish("province", opID, p, out, err, started)
	if err != nil {
		return nil, err
	}
	return out.result, nil
}
