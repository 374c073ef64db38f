// Package availability reconcilia cantidades entre el libro de ventas y el
// de recibos: lo vendido menos lo ya entregado por producto y cliente.
package availability

import "github.com/medarrival/medarrival-api/internal/domain/entity"

// AvailableQuantity cantidad pendiente de entrega de un producto para un
// cliente: Σ vendida − Σ recibida. Un resultado negativo (sobre-entrega) es
// legal y se devuelve tal cual; el llamador decide cómo presentarlo.
func AvailableQuantity(sales []*entity.Sale, receipts []*entity.Receipt, productID string) int {
	sold := 0
	for _, s := range sales {
		if s.ProductID == productID {
			sold += s.Quantity
		}
	}
	received := 0
	for _, r := range receipts {
		for _, item := range r.Items {
			if item.ProductID == productID {
				received += item.Quantity
			}
		}
	}
	return sold - received
}

// Outstanding cantidades pendientes por producto sobre las ventas y recibos
// de un cliente. Incluye valores negativos (sobre-entrega): filtrar es
// responsabilidad del llamador.
func Outstanding(sales []*entity.Sale, receipts []*entity.Receipt) map[string]int {
	pending := make(map[string]int)
	for _, s := range sales {
		pending[s.ProductID] += s.Quantity
	}
	for _, r := range receipts {
		for _, item := range r.Items {
			pending[item.ProductID] -= item.Quantity
		}
	}
	return pending
}

// OutstandingProductIDs productos con cantidad pendiente estrictamente
// positiva: el catálogo comprable del cliente se filtra a lo aún adeudado.
func OutstandingProductIDs(sales []*entity.Sale, receipts []*entity.Receipt) []string {
	pending := Outstanding(sales, receipts)
	var ids []string
	for _, s := range sales {
		if pending[s.ProductID] > 0 {
			ids = append(ids, s.ProductID)
			pending[s.ProductID] = 0 // evitar duplicados
		}
	}
	return ids
}
