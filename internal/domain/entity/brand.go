package entity

// Brand representa una marca (laboratorio) de producto. Datos de referencia, solo lectura.
// La columna "active" no existe en todas las instalaciones; ver repository.BrandCapabilities.
type Brand struct {
	ID     int64
	Name   string
	Active bool
}
