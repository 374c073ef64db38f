package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

func saleStore() *store {
	s := newStore()
	seedProduct(s, "p1", "Seringue")
	seedDefaultPrice(s, "pc-pua", "p1", entity.ComponentPurchasePrice, "90")
	seedDefaultPrice(s, "pc-tr", "p1", entity.ComponentTransport, "10")
	seedClient(s, "c1", "Hôpital", entity.ClientStandard)
	return s
}

func deliveryDate() *time.Time {
	d := time.Now().AddDate(0, 0, 7)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta: snapshot congelado
// ──────────────────────────────────────────────────────────────────────────────

func TestSaleUseCase_Create_CongelaSnapshotYCalculaTotal(t *testing.T) {
	s := saleStore()
	uc := newSaleUC(s)

	resp, err := uc.Create(dto.CreateSaleRequest{
		ProductID:            "p1",
		ClientID:             "c1",
		Quantity:             5,
		ExpectedDeliveryDate: deliveryDate(),
	})
	require.NoError(t, err)

	// Una entrada por categoría; las ausentes en la grilla valen cero.
	assert.Len(t, resp.PriceComponents, len(entity.ComponentTypes()))
	// Total = 5 × (90 + 10).
	assert.True(t, resp.TotalAmount.Equal(mustDec("500")), "total %s", resp.TotalAmount)

	// Cambiar la grilla después no toca la venta persistida.
	s.prices["pc-pua"].Amount = mustDec("900")
	reread, err := uc.GetByID(resp.ID)
	require.NoError(t, err)
	assert.True(t, reread.TotalAmount.Equal(mustDec("500")))
}

// Componentes suministrados al vender: los personalizados se respetan, los
// marcados como precio por defecto se refrescan contra la grilla vigente.
func TestSaleUseCase_Create_SobreescrituraManual(t *testing.T) {
	s := saleStore()
	uc := newSaleUC(s)

	resp, err := uc.Create(dto.CreateSaleRequest{
		ProductID:            "p1",
		ClientID:             "c1",
		Quantity:             2,
		ExpectedDeliveryDate: deliveryDate(),
		PriceComponents: []dto.SalePriceComponentDTO{
			{ComponentType: "PURCHASE_PRICE", Amount: mustDec("50"), UsesDefaultPrice: false},
			{ComponentType: "TRANSPORT", Amount: mustDec("999"), UsesDefaultPrice: true},
		},
	})
	require.NoError(t, err)

	// 2 × (50 + 10): el transporte obsoleto se refrescó a 10.
	assert.True(t, resp.TotalAmount.Equal(mustDec("120")), "total %s", resp.TotalAmount)
}

func TestSaleUseCase_Create_EntradaInvalida(t *testing.T) {
	uc := newSaleUC(saleStore())

	_, err := uc.Create(dto.CreateSaleRequest{ProductID: "p1", ClientID: "c1", Quantity: 0, ExpectedDeliveryDate: deliveryDate()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.Create(dto.CreateSaleRequest{ProductID: "p1", ClientID: "c1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin fecha prevista de entrega")
}

func TestSaleUseCase_Create_ReferenciasInexistentes(t *testing.T) {
	uc := newSaleUC(saleStore())

	_, err := uc.Create(dto.CreateSaleRequest{ProductID: "ghost", ClientID: "c1", Quantity: 1, ExpectedDeliveryDate: deliveryDate()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(dto.CreateSaleRequest{ProductID: "p1", ClientID: "ghost", Quantity: 1, ExpectedDeliveryDate: deliveryDate()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Cliente negociado: el snapshot toma la negociación y cae al defecto en las
// categorías sin sobreescritura.
func TestSaleUseCase_Create_ClienteNegociado(t *testing.T) {
	s := saleStore()
	seedClient(s, "c2", "Clinique", entity.ClientNegotiated)
	negID := "c2"
	s.prices["pc-neg"] = &entity.PriceComponent{
		ID:            "pc-neg",
		ProductID:     "p1",
		ComponentType: entity.ComponentPurchasePrice,
		Amount:        mustDec("85"),
		EffectiveFrom: time.Now().AddDate(0, -1, 0),
		ClientID:      &negID,
	}
	uc := newSaleUC(s)

	resp, err := uc.Create(dto.CreateSaleRequest{
		ProductID:            "p1",
		ClientID:             "c2",
		Quantity:             2,
		ExpectedDeliveryDate: deliveryDate(),
	})
	require.NoError(t, err)
	// 2 × (85 negociado + 10 por defecto).
	assert.True(t, resp.TotalAmount.Equal(mustDec("190")), "total %s", resp.TotalAmount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualización
// ──────────────────────────────────────────────────────────────────────────────

// Editar la cantidad sin enviar componentes conserva el snapshot y solo
// recalcula el total.
func TestSaleUseCase_Update_SinComponentesConservaSnapshot(t *testing.T) {
	s := saleStore()
	uc := newSaleUC(s)

	created, err := uc.Create(dto.CreateSaleRequest{
		ProductID: "p1", ClientID: "c1", Quantity: 5, ExpectedDeliveryDate: deliveryDate(),
	})
	require.NoError(t, err)

	// La grilla cambia entre la venta y la edición.
	s.prices["pc-pua"].Amount = mustDec("900")

	qty := 3
	updated, err := uc.Update(created.ID, dto.UpdateSaleRequest{Quantity: &qty, Version: 0})
	require.NoError(t, err)
	// 3 × (90 + 10) con el snapshot original, no 3 × 910.
	assert.True(t, updated.TotalAmount.Equal(mustDec("300")), "total %s", updated.TotalAmount)
}

func TestSaleUseCase_Update_VersionObsoleta(t *testing.T) {
	s := saleStore()
	uc := newSaleUC(s)

	created, err := uc.Create(dto.CreateSaleRequest{
		ProductID: "p1", ClientID: "c1", Quantity: 5, ExpectedDeliveryDate: deliveryDate(),
	})
	require.NoError(t, err)

	qty := 4
	_, err = uc.Update(created.ID, dto.UpdateSaleRequest{Quantity: &qty, Version: 0})
	require.NoError(t, err)

	// Reenviar con la versión vieja debe chocar.
	_, err = uc.Update(created.ID, dto.UpdateSaleRequest{Quantity: &qty, Version: 0})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSaleUseCase_Update_ComponentesRehacenElSnapshot(t *testing.T) {
	s := saleStore()
	uc := newSaleUC(s)

	created, err := uc.Create(dto.CreateSaleRequest{
		ProductID: "p1", ClientID: "c1", Quantity: 2, ExpectedDeliveryDate: deliveryDate(),
	})
	require.NoError(t, err)

	updated, err := uc.Update(created.ID, dto.UpdateSaleRequest{
		PriceComponents: []dto.SalePriceComponentDTO{
			{ComponentType: "PURCHASE_PRICE", Amount: mustDec("40"), UsesDefaultPrice: false},
		},
		Version: 0,
	})
	require.NoError(t, err)
	// El snapshot se reemplazó por la única entrada enviada: 2 × 40.
	assert.True(t, updated.TotalAmount.Equal(mustDec("80")), "total %s", updated.TotalAmount)
	assert.Len(t, updated.PriceComponents, 1)
}
