package repository

import "context"

// PostalCodeRepository puerto de lectura de códigos postales y su provincia.
type PostalCodeRepository interface {
	ListActiveIDsByProvinceID(ctx context.Context, provinceID int64) ([]int64, error)
	// ListActiveIDsByProvinceName compara el nombre sin espacios extremos y sin distinguir mayúsculas.
	ListActiveIDsByProvinceName(ctx context.Context, name string) ([]int64, error)
	// CodesByIDs devuelve los códigos textuales (sin repetir) de los IDs dados.
	CodesByIDs(ctx context.Context, ids []int64) ([]string, error)
}
