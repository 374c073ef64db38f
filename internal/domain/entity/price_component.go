package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType categoría fija de costo que compone el precio de un producto.
type ComponentType string

const (
	ComponentPurchasePrice ComponentType = "PURCHASE_PRICE" // PUA - prix unitaire d'achat
	ComponentTransport     ComponentType = "TRANSPORT"      // transport et manutention
	ComponentStorage       ComponentType = "STORAGE"        // magasinage
	ComponentTransit       ComponentType = "TRANSIT"
	ComponentCustoms       ComponentType = "CUSTOMS" // douane
	ComponentInsurance     ComponentType = "INSURANCE"
)

// ComponentTypes devuelve las seis categorías en orden canónico.
// El costo total de un producto es siempre la suma sobre estas seis.
func ComponentTypes() []ComponentType {
	return []ComponentType{
		ComponentPurchasePrice,
		ComponentTransport,
		ComponentStorage,
		ComponentTransit,
		ComponentCustoms,
		ComponentInsurance,
	}
}

// IsValid indica si el tipo es una de las seis categorías conocidas.
func (t ComponentType) IsValid() bool {
	for _, ct := range ComponentTypes() {
		if t == ct {
			return true
		}
	}
	return false
}

// PriceComponent registro de precio de un producto con ventana de vigencia
// [EffectiveFrom, EffectiveTo). ClientID nil = precio por defecto (toda la empresa);
// no nil = precio negociado para ese cliente.
// Los precios por defecto se "cierran" fijando EffectiveTo en lugar de borrarse;
// los precios de cliente se borran al retirar la negociación.
type PriceComponent struct {
	ID            string
	ProductID     string
	ComponentType ComponentType
	Amount        decimal.Decimal
	EffectiveFrom time.Time
	EffectiveTo   *time.Time // nil = vigencia abierta
	ClientID      *string    // nil = precio por defecto
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
}

// IsActiveAt indica si la ventana de vigencia cubre el instante dado.
func (pc *PriceComponent) IsActiveAt(asOf time.Time) bool {
	if pc.EffectiveFrom.After(asOf) {
		return false
	}
	return pc.EffectiveTo == nil || pc.EffectiveTo.After(asOf)
}

// IsDefault indica si el componente es un precio por defecto (sin cliente).
func (pc *PriceComponent) IsDefault() bool {
	return pc.ClientID == nil
}

// BelongsTo indica si el componente es una negociación del cliente dado.
func (pc *PriceComponent) BelongsTo(clientID string) bool {
	return pc.ClientID != nil && *pc.ClientID == clientID
}
