package entity

// Client es un cliente (farmacia). Este servicio solo modifica OwningCommercialID, y únicamente
// a través de la reasignación en cascada.
// PostalCodeID nil identifica registros antiguos que solo traen PostalCodeText.
type Client struct {
	ID                 int64
	Name               string
	PostalCodeID       *int64
	PostalCodeText     string
	OwningCommercialID *int64
}
