package repository

import "context"

// FlagKind tipo de columna con la que un esquema antiguo guarda un indicador activo/inactivo.
type FlagKind string

const (
	FlagBoolean FlagKind = "boolean"
	FlagNumeric FlagKind = "numeric" // 1/0
	FlagText    FlagKind = "text"    // 'OK'/'KO', 'S'/'N', '1'/'0'
)

// BrandCapabilities describe las columnas opcionales de la tabla de marcas, detectadas una vez
// al arrancar e inyectadas en el resolutor de marcas.
type BrandCapabilities struct {
	HasActive  bool
	ActiveKind FlagKind
}

// BrandRepository puerto de lectura de marcas (datos de referencia).
type BrandRepository interface {
	// ListIDs devuelve los IDs de marca; si caps.HasActive filtra a las activas.
	// Devuelve domain.ErrSchemaMismatch si la columna anunciada no existe.
	ListIDs(ctx context.Context, caps BrandCapabilities) ([]int64, error)
}
