package entity

// Commercial representa un comercial (delegado de ventas). Datos de referencia, solo lectura.
type Commercial struct {
	ID     int64
	Name   string
	Active bool
}
