package territory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/crm-farma/internal/domain"
	"github.com/jhoicas/crm-farma/internal/domain/repository"
)

// PostalCodeResolver traduce provincias a códigos postales y códigos postales a su texto.
type PostalCodeResolver struct {
	repo repository.PostalCodeRepository
}

// NewPostalCodeResolver construye el resolutor.
func NewPostalCodeResolver(repo repository.PostalCodeRepository) *PostalCodeResolver {
	return &PostalCodeResolver{repo: repo}
}

// ResolveProvince acepta el ID numérico o el nombre de la provincia y devuelve los IDs de sus
// códigos postales activos. Una provincia sin CPs es un error del llamante (ErrNotFound).
func (r *PostalCodeResolver) ResolveProvince(ctx context.Context, spec string) ([]int64, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return nil, domain.ErrInvalidInput
	}
	var (
		ids []int64
		err error
	)
	if id, convErr := strconv.ParseInt(s, 10, 64); convErr == nil {
		if id <= 0 {
			return nil, domain.ErrInvalidInput
		}
		ids, err = r.repo.ListActiveIDsByProvinceID(ctx, id)
	} else {
		ids, err = r.repo.ListActiveIDsByProvinceName(ctx, s)
	}
	if err != nil {
		return nil, fmt.Errorf("resolver provincia %q: %w", s, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("provincia %q sin códigos postales activos: %w", s, domain.ErrNotFound)
	}
	return ids, nil
}

// CodesForIDs devuelve los códigos textuales de los IDs, para cruzar clientes antiguos sin FK.
func (r *PostalCodeResolver) CodesForIDs(ctx context.Context, ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	codes, err := r.repo.CodesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("códigos postales por id: %w", err)
	}
	return codes, nil
}
