// Package pricing implementa la resolución de precios por componente:
// precios por defecto vs. negociados por cliente, con ventanas de vigencia.
// Son servicios de dominio puros sobre el agregado de componentes de un
// producto; no hacen I/O.
package pricing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

// activeMatches devuelve los componentes del tipo dado vigentes en asOf,
// restringidos a defecto (clientID == nil) o a un cliente exacto.
func activeMatches(components []*entity.PriceComponent, t entity.ComponentType, clientID *string, asOf time.Time) []*entity.PriceComponent {
	var matches []*entity.PriceComponent
	for _, pc := range components {
		if pc.ComponentType != t || !pc.IsActiveAt(asOf) {
			continue
		}
		if clientID == nil {
			if pc.IsDefault() {
				matches = append(matches, pc)
			}
		} else if pc.BelongsTo(*clientID) {
			matches = append(matches, pc)
		}
	}
	return matches
}

// pickDeterministic elige un único componente entre varios vigentes.
// Regla: gana el EffectiveFrom más reciente; a igualdad, el CreatedAt más
// reciente; a igualdad, el ID mayor. El orden de iteración del conjunto
// nunca decide el resultado.
func pickDeterministic(matches []*entity.PriceComponent) *entity.PriceComponent {
	if len(matches) == 0 {
		return nil
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.EffectiveFrom.Equal(b.EffectiveFrom) {
			return a.EffectiveFrom.After(b.EffectiveFrom)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return matches[0]
}

// Resolve devuelve el monto del precio por defecto vigente en asOf para el
// tipo dado, o cero si no hay ninguno. La ausencia de un componente no es un
// error: el costo total degrada a cero en esa categoría.
func Resolve(components []*entity.PriceComponent, t entity.ComponentType, asOf time.Time) decimal.Decimal {
	if pc := pickDeterministic(activeMatches(components, t, nil, asOf)); pc != nil {
		return pc.Amount
	}
	return decimal.Zero
}

// ResolveForClient resuelve el monto aplicable a un cliente concreto.
// Clientes STANDARD usan siempre el precio por defecto (se ignoran filas
// etiquetadas con cliente). Clientes NEGOTIATED: primero su negociación
// vigente para ese tipo; si no existe, cae al defecto. El fallback es
// componente a componente: negociar TRANSPORT no negocia PURCHASE_PRICE.
func ResolveForClient(components []*entity.PriceComponent, t entity.ComponentType, client *entity.Client, asOf time.Time) decimal.Decimal {
	amount, _ := ResolveForClientTagged(components, t, client, asOf)
	return amount
}

// ResolveForClientTagged es ResolveForClient devolviendo además si el valor
// provino del precio por defecto (true) o de una negociación del cliente
// (false). Lo usa el snapshot de ventas para etiquetar cada componente.
func ResolveForClientTagged(components []*entity.PriceComponent, t entity.ComponentType, client *entity.Client, asOf time.Time) (decimal.Decimal, bool) {
	if client == nil || client.ClientType != entity.ClientNegotiated {
		return Resolve(components, t, asOf), true
	}
	if pc := pickDeterministic(activeMatches(components, t, &client.ID, asOf)); pc != nil {
		return pc.Amount, false
	}
	return Resolve(components, t, asOf), true
}

// TotalCost suma el precio por defecto vigente de las seis categorías.
// Ningún componente falta en la suma: la ausencia resuelve a cero.
func TotalCost(components []*entity.PriceComponent, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, t := range entity.ComponentTypes() {
		total = total.Add(Resolve(components, t, asOf))
	}
	return total
}

// TotalCostForClient suma el precio aplicable al cliente de las seis categorías.
func TotalCostForClient(components []*entity.PriceComponent, client *entity.Client, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, t := range entity.ComponentTypes() {
		total = total.Add(ResolveForClient(components, t, client, asOf))
	}
	return total
}

// PriceVector devuelve el monto aplicable al cliente para cada una de las
// seis categorías (vista de grilla: exportaciones y pantallas de precios).
func PriceVector(components []*entity.PriceComponent, client *entity.Client, asOf time.Time) map[entity.ComponentType]decimal.Decimal {
	vector := make(map[entity.ComponentType]decimal.Decimal, len(entity.ComponentTypes()))
	for _, t := range entity.ComponentTypes() {
		vector[t] = ResolveForClient(components, t, client, asOf)
	}
	return vector
}

// AmbiguousTypes devuelve los tipos con más de un componente vigente en asOf
// para el mismo ámbito (defecto o cliente). No es un fallo: la resolución
// sigue siendo determinista, pero el llamador debe registrar una advertencia
// de calidad de datos.
func AmbiguousTypes(components []*entity.PriceComponent, clientID *string, asOf time.Time) []entity.ComponentType {
	var ambiguous []entity.ComponentType
	for _, t := range entity.ComponentTypes() {
		if len(activeMatches(components, t, clientID, asOf)) > 1 {
			ambiguous = append(ambiguous, t)
		}
	}
	return ambiguous
}

// ActiveDefaults devuelve los componentes por defecto con vigencia abierta
// (vista pública del producto, sin precios negociados de terceros).
func ActiveDefaults(components []*entity.PriceComponent) []*entity.PriceComponent {
	var defaults []*entity.PriceComponent
	for _, pc := range components {
		if pc.IsDefault() && pc.EffectiveTo == nil {
			defaults = append(defaults, pc)
		}
	}
	return defaults
}

// ForClientView devuelve, por tipo, la fila negociada del cliente con
// vigencia abierta si existe, o la fila por defecto si no: la grilla
// efectiva que ve ese cliente. Operación de valor, no muta el conjunto.
func ForClientView(components []*entity.PriceComponent, clientID string) []*entity.PriceComponent {
	negotiated := make(map[entity.ComponentType]*entity.PriceComponent)
	for _, pc := range components {
		if pc.BelongsTo(clientID) && pc.EffectiveTo == nil {
			negotiated[pc.ComponentType] = pc
		}
	}
	var view []*entity.PriceComponent
	for _, pc := range negotiated {
		view = append(view, pc)
	}
	for _, pc := range components {
		if pc.IsDefault() && pc.EffectiveTo == nil {
			if _, overridden := negotiated[pc.ComponentType]; !overridden {
				view = append(view, pc)
			}
		}
	}
	return view
}

// WithoutComponentsFor devuelve un conjunto nuevo sin los componentes
// negociados del cliente dado. Reemplaza la mutación en sitio del agregado:
// el llamador decide qué persistir con el valor devuelto.
func WithoutComponentsFor(components []*entity.PriceComponent, clientID string) (kept, removed []*entity.PriceComponent) {
	for _, pc := range components {
		if pc.BelongsTo(clientID) {
			removed = append(removed, pc)
		} else {
			kept = append(kept, pc)
		}
	}
	return kept, removed
}

// WithoutComponentType devuelve un conjunto nuevo sin los componentes del
// cliente y tipo dados, sea cual sea su ventana de vigencia. Se usa al fijar
// un precio negociado: la fila anterior se elimina incondicionalmente.
func WithoutComponentType(components []*entity.PriceComponent, clientID string, t entity.ComponentType) (kept, removed []*entity.PriceComponent) {
	for _, pc := range components {
		if pc.BelongsTo(clientID) && pc.ComponentType == t {
			removed = append(removed, pc)
		} else {
			kept = append(kept, pc)
		}
	}
	return kept, removed
}
