package availability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medarrival/medarrival-api/internal/domain/availability"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

func sale(productID string, qty int) *entity.Sale {
	return &entity.Sale{ProductID: productID, Quantity: qty}
}

func receipt(items ...*entity.ReceiptItem) *entity.Receipt {
	return &entity.Receipt{Items: items}
}

func item(productID string, qty int) *entity.ReceiptItem {
	return &entity.ReceiptItem{ProductID: productID, Quantity: qty}
}

// Pendiente = vendido − recibido, acumulando sobre ventas y recibos.
func TestAvailableQuantity_VendidoMenosRecibido(t *testing.T) {
	sales := []*entity.Sale{sale("p1", 10), sale("p1", 5), sale("p2", 3)}
	receipts := []*entity.Receipt{
		receipt(item("p1", 4)),
		receipt(item("p1", 2), item("p2", 1)),
	}

	assert.Equal(t, 9, availability.AvailableQuantity(sales, receipts, "p1"))
	assert.Equal(t, 2, availability.AvailableQuantity(sales, receipts, "p2"))
}

// La sobre-entrega devuelve el negativo tal cual, sin saturar en cero.
func TestAvailableQuantity_SobreEntrega_Negativo(t *testing.T) {
	sales := []*entity.Sale{sale("p1", 2)}
	receipts := []*entity.Receipt{receipt(item("p1", 5))}

	assert.Equal(t, -3, availability.AvailableQuantity(sales, receipts, "p1"))
}

func TestOutstanding_IncluyeNegativos(t *testing.T) {
	sales := []*entity.Sale{sale("p1", 2), sale("p2", 4)}
	receipts := []*entity.Receipt{receipt(item("p1", 5), item("p2", 1))}

	pending := availability.Outstanding(sales, receipts)
	assert.Equal(t, -3, pending["p1"])
	assert.Equal(t, 3, pending["p2"])
}

// Solo productos con pendiente estrictamente positivo, sin duplicados
// aunque el producto aparezca en varias ventas.
func TestOutstandingProductIDs_PositivosSinDuplicados(t *testing.T) {
	sales := []*entity.Sale{sale("p1", 2), sale("p2", 4), sale("p2", 1), sale("p3", 1)}
	receipts := []*entity.Receipt{receipt(item("p1", 5), item("p3", 1))}

	ids := availability.OutstandingProductIDs(sales, receipts)
	assert.Equal(t, []string{"p2"}, ids)
}
