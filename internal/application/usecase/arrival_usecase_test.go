package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
)

func arrivalStore() *store {
	s := saleStore()
	seedSupplier(s, "sup1", "Pharma Distribution SARL")
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de arribos
// ──────────────────────────────────────────────────────────────────────────────

func TestArrivalUseCase_Create_VentasNuevasYExistentes(t *testing.T) {
	s := arrivalStore()
	saleUC := newSaleUC(s)
	uc := newArrivalUC(s)

	existing, err := saleUC.Create(dto.CreateSaleRequest{
		ProductID: "p1", ClientID: "c1", Quantity: 1, ExpectedDeliveryDate: deliveryDate(),
	})
	require.NoError(t, err)

	resp, err := uc.Create(dto.CreateArrivalRequest{
		InvoiceNumber: "INV-001",
		SupplierID:    "sup1",
		Sales: []dto.CreateSaleRequest{
			{ProductID: "p1", ClientID: "c1", Quantity: 3, ExpectedDeliveryDate: deliveryDate()},
		},
		SaleIDs: []string{existing.ID},
	})
	require.NoError(t, err)

	assert.Len(t, resp.SaleIDs, 2)
	// La venta embebida quedó persistida con su snapshot y total.
	assert.Len(t, s.sales, 2)
	assert.Len(t, s.arrivalSales[resp.ID], 2)
}

func TestArrivalUseCase_Create_FacturaDuplicada(t *testing.T) {
	s := arrivalStore()
	uc := newArrivalUC(s)

	_, err := uc.Create(dto.CreateArrivalRequest{InvoiceNumber: "INV-001", SupplierID: "sup1"})
	require.NoError(t, err)

	_, err = uc.Create(dto.CreateArrivalRequest{InvoiceNumber: "INV-001", SupplierID: "sup1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, s.arrivals, 1)
}

// Una venta embebida inválida aborta el arribo completo: nada se persiste.
func TestArrivalUseCase_Create_VentaInvalidaAbortaTodo(t *testing.T) {
	s := arrivalStore()
	uc := newArrivalUC(s)

	_, err := uc.Create(dto.CreateArrivalRequest{
		InvoiceNumber: "INV-002",
		SupplierID:    "sup1",
		Sales: []dto.CreateSaleRequest{
			{ProductID: "p1", ClientID: "c1", Quantity: 3, ExpectedDeliveryDate: deliveryDate()},
			{ProductID: "p1", ClientID: "c1", Quantity: 0, ExpectedDeliveryDate: deliveryDate()},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.arrivals)
	assert.Empty(t, s.sales)
}

func TestArrivalUseCase_Create_CamposObligatorios(t *testing.T) {
	uc := newArrivalUC(arrivalStore())

	_, err := uc.Create(dto.CreateArrivalRequest{SupplierID: "sup1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin número de factura")

	_, err = uc.Create(dto.CreateArrivalRequest{InvoiceNumber: "INV-003"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin proveedor")

	_, err = uc.Create(dto.CreateArrivalRequest{InvoiceNumber: "INV-003", SupplierID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound, "proveedor inexistente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestArrivalUseCase_GetByInvoiceNumber(t *testing.T) {
	s := arrivalStore()
	uc := newArrivalUC(s)

	created, err := uc.Create(dto.CreateArrivalRequest{InvoiceNumber: "INV-010", SupplierID: "sup1"})
	require.NoError(t, err)

	found, err := uc.GetByInvoiceNumber("INV-010")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = uc.GetByInvoiceNumber("INV-999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArrivalUseCase_ListByDateRange_RangoInvertido(t *testing.T) {
	uc := newArrivalUC(arrivalStore())
	start := time.Now()
	_, err := uc.ListByDateRange(start, start.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado: desasociación sin borrar ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestArrivalUseCase_Delete_DesasociaLasVentas(t *testing.T) {
	s := arrivalStore()
	uc := newArrivalUC(s)

	created, err := uc.Create(dto.CreateArrivalRequest{
		InvoiceNumber: "INV-020",
		SupplierID:    "sup1",
		Sales: []dto.CreateSaleRequest{
			{ProductID: "p1", ClientID: "c1", Quantity: 2, ExpectedDeliveryDate: deliveryDate()},
		},
	})
	require.NoError(t, err)
	require.Len(t, s.sales, 1)

	require.NoError(t, uc.Delete(created.ID))

	assert.Empty(t, s.arrivals)
	// Las ventas sobreviven al arribo, huérfanas de asociación.
	require.Len(t, s.sales, 1)
	for _, sale := range s.sales {
		assert.Empty(t, sale.ArrivalIDs)
	}
}
