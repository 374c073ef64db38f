package entity

import "time"

// Product producto médico de referencia. Es dato de larga vida: los precios
// evolucionan vía PriceComponents (cerrar el viejo, abrir el nuevo), nunca
// mutando montos en sitio, para preservar el histórico de precios.
type Product struct {
	ID          string
	Name        string
	Description string
	CategoryID  *string
	// PriceComponents agregado completo cargado desde storage (nunca proxies
	// parciales: la resolución de precios necesita el conjunto entero).
	PriceComponents []*PriceComponent
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
}

// ProductCategory agrupación de productos para análisis de ventas.
type ProductCategory struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}
