package pricing

import (
	"time"

	"github.com/google/uuid"

	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

// BuildSnapshot materializa la copia inmutable de precios de una venta:
// un SalePriceComponent por cada una de las seis categorías, resuelto con
// el fallback negociación→defecto vigente en asOf. UsesDefaultPrice marca
// si el valor provino del defecto y no de una fila del cliente.
// Cambios posteriores en la grilla no tocan el snapshot.
func BuildSnapshot(components []*entity.PriceComponent, client *entity.Client, saleID string, asOf time.Time) []*entity.SalePriceComponent {
	snapshot := make([]*entity.SalePriceComponent, 0, len(entity.ComponentTypes()))
	for _, t := range entity.ComponentTypes() {
		amount, usedDefault := ResolveForClientTagged(components, t, client, asOf)
		snapshot = append(snapshot, &entity.SalePriceComponent{
			ID:               uuid.New().String(),
			SaleID:           saleID,
			ComponentType:    t,
			Amount:           amount,
			UsesDefaultPrice: usedDefault,
			CreatedAt:        asOf,
			UpdatedAt:        asOf,
		})
	}
	return snapshot
}

// NormalizeSnapshot procesa componentes suministrados por el llamador
// (sobreescritura manual al momento de la venta). Las entradas marcadas
// UsesDefaultPrice refrescan su monto contra el defecto vigente, para que
// una entrada obsoleta del cliente no pise cambios legítimos de la grilla;
// las marcadas como personalizadas se conservan tal cual. Todas quedan
// re-parentadas a la venta.
func NormalizeSnapshot(supplied []*entity.SalePriceComponent, components []*entity.PriceComponent, saleID string, asOf time.Time) []*entity.SalePriceComponent {
	normalized := make([]*entity.SalePriceComponent, 0, len(supplied))
	for _, spc := range supplied {
		entry := &entity.SalePriceComponent{
			ID:               spc.ID,
			SaleID:           saleID,
			ComponentType:    spc.ComponentType,
			Amount:           spc.Amount,
			UsesDefaultPrice: spc.UsesDefaultPrice,
			CreatedAt:        spc.CreatedAt,
			UpdatedAt:        asOf,
		}
		if entry.ID == "" {
			entry.ID = uuid.New().String()
			entry.CreatedAt = asOf
		}
		if entry.UsesDefaultPrice {
			entry.Amount = Resolve(components, entry.ComponentType, asOf)
		}
		normalized = append(normalized, entry)
	}
	return normalized
}
