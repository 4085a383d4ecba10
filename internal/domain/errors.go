package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrUnavailable    = errors.New("base de datos no disponible")
	ErrSchemaMismatch = errors.New("el esquema no tiene la columna esperada")
)
