package entity

// PostalCode representa un código postal de una provincia.
// Code es la clave textual con la que se cruzan los clientes antiguos que no tienen FK.
type PostalCode struct {
	ID         int64
	Code       string
	Locality   string
	ProvinceID int64
	Active     bool
}
