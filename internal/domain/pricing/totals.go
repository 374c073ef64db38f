package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

// SaleTotal calcula el total de una venta: cantidad × suma del snapshot.
// Se recalcula en cada create/update antes de persistir; nunca se confía
// en un total suministrado por el llamador.
func SaleTotal(quantity int, snapshot []*entity.SalePriceComponent) decimal.Decimal {
	sum := decimal.Zero
	for _, spc := range snapshot {
		sum = sum.Add(spc.Amount)
	}
	return sum.Mul(decimal.NewFromInt(int64(quantity)))
}

// ItemSubtotal calcula el subtotal de una línea de recibo: cantidad × precio
// unitario. Derivado, se recalcula en cada persistencia.
func ItemSubtotal(item *entity.ReceiptItem) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// RecomputeReceipt recalcula los subtotales de todas las líneas y el total
// del recibo en sitio. Es la llamada explícita que cada operación mutadora
// hace antes de persistir (sin hooks ocultos de ciclo de vida).
func RecomputeReceipt(receipt *entity.Receipt) {
	total := decimal.Zero
	for _, item := range receipt.Items {
		item.Subtotal = ItemSubtotal(item)
		total = total.Add(item.Subtotal)
	}
	receipt.TotalAmount = total
}
