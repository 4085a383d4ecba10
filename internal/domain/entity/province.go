package entity

// Province representa una provincia. Datos de referencia, solo lectura.
type Province struct {
	ID   int64
	Name string
}
