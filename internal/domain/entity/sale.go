package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta de un producto a un cliente. Lleva una copia congelada de los
// componentes de precio vigentes al crearla (snapshot): cambios posteriores
// en la grilla no alteran ventas históricas.
// Invariante: TotalAmount = Quantity × Σ(PriceComponents[i].Amount).
type Sale struct {
	ID                   string
	ProductID            string
	ClientID             string
	Quantity             int
	ExpectedQuantity     int
	TotalAmount          decimal.Decimal
	SaleDate             time.Time
	ExpectedDeliveryDate time.Time
	IsConform            bool
	// PriceComponents snapshot de valores, no referencias a la grilla.
	PriceComponents []*SalePriceComponent
	// ArrivalIDs asociación muchos-a-muchos con arribos.
	ArrivalIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Version    int64
}

// ComponentAmount devuelve el monto congelado del tipo dado, o cero si la
// venta no lo tiene en su snapshot.
func (s *Sale) ComponentAmount(t ComponentType) decimal.Decimal {
	for _, spc := range s.PriceComponents {
		if spc.ComponentType == t {
			return spc.Amount
		}
	}
	return decimal.Zero
}

// SalePriceComponent entrada congelada del snapshot de precios de una venta.
// UsesDefaultPrice registra si el valor provino del precio por defecto o de
// una negociación del cliente en el momento del snapshot.
type SalePriceComponent struct {
	ID               string
	SaleID           string
	ComponentType    ComponentType
	Amount           decimal.Decimal
	UsesDefaultPrice bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
