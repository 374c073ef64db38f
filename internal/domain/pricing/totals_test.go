package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/domain/pricing"
)

// Venta de 5 unidades con grilla 90+10 → total 500.
func TestSaleTotal_CantidadPorSumaDelSnapshot(t *testing.T) {
	snapshot := []*entity.SalePriceComponent{
		{ComponentType: entity.ComponentPurchasePrice, Amount: dec("90")},
		{ComponentType: entity.ComponentTransport, Amount: dec("10")},
	}

	got := pricing.SaleTotal(5, snapshot)
	assert.Equal(t, "500", got.String())
}

func TestSaleTotal_SnapshotVacio_Cero(t *testing.T) {
	assert.True(t, pricing.SaleTotal(3, nil).IsZero())
}

// RecomputeReceipt rehace subtotales y total ignorando los valores cargados:
// 2×50 + 3×10 = 130.
func TestRecomputeReceipt_IgnoraValoresSuministrados(t *testing.T) {
	receipt := &entity.Receipt{
		Items: []*entity.ReceiptItem{
			{Quantity: 2, UnitPrice: dec("50"), Subtotal: dec("999")},
			{Quantity: 3, UnitPrice: dec("10"), Subtotal: dec("999")},
		},
		TotalAmount: dec("999"),
	}

	pricing.RecomputeReceipt(receipt)

	assert.Equal(t, "100", receipt.Items[0].Subtotal.String())
	assert.Equal(t, "30", receipt.Items[1].Subtotal.String())
	assert.Equal(t, "130", receipt.TotalAmount.String())
}

func TestRecomputeReceipt_SinLineas_TotalCero(t *testing.T) {
	receipt := &entity.Receipt{TotalAmount: dec("42")}
	pricing.RecomputeReceipt(receipt)
	assert.True(t, receipt.TotalAmount.IsZero())
}
