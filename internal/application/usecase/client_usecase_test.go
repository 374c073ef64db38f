package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// CRUD
// ──────────────────────────────────────────────────────────────────────────────

func TestClientUseCase_Create_TipoPorDefecto(t *testing.T) {
	uc := newClientUC(newStore())

	resp, err := uc.Create(dto.CreateClientRequest{Name: "Hôpital Provincial"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ClientStandard), resp.ClientType)
}

func TestClientUseCase_Create_TipoInvalido(t *testing.T) {
	uc := newClientUC(newStore())

	_, err := uc.Create(dto.CreateClientRequest{Name: "X", ClientType: "VIP"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(dto.CreateClientRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos pendientes de entrega
// ──────────────────────────────────────────────────────────────────────────────

// Saldo pendiente = vendido − ya facturado en recibos. Solo se listan saldos
// estrictamente positivos y los productos borrados se omiten.
func TestClientUseCase_GetAvailableProducts(t *testing.T) {
	s := newStore()
	seedClient(s, "c1", "Hôpital", entity.ClientStandard)
	seedProduct(s, "p1", "Seringue")
	seedProduct(s, "p2", "Compresse")

	// p1: vendidas 15, facturadas 6 → pendientes 9.
	// p2: vendidas 4, facturadas 4 → saldo cero, no se lista.
	// ghost: venta de un producto borrado, se omite.
	s.sales["s1"] = &entity.Sale{ID: "s1", ProductID: "p1", ClientID: "c1", Quantity: 10}
	s.sales["s2"] = &entity.Sale{ID: "s2", ProductID: "p1", ClientID: "c1", Quantity: 5}
	s.sales["s3"] = &entity.Sale{ID: "s3", ProductID: "p2", ClientID: "c1", Quantity: 4}
	s.sales["s4"] = &entity.Sale{ID: "s4", ProductID: "ghost", ClientID: "c1", Quantity: 2}
	s.receipts["r1"] = &entity.Receipt{
		ID:       "r1",
		ClientID: "c1",
		Items: []*entity.ReceiptItem{
			{ID: "i1", ReceiptID: "r1", ProductID: "p1", Quantity: 6},
			{ID: "i2", ReceiptID: "r1", ProductID: "p2", Quantity: 4},
		},
	}

	uc := newClientUC(s)
	items, err := uc.GetAvailableProducts("c1")
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].Product.ID)
	assert.Equal(t, 9, items[0].AvailableQuantity)
}

func TestClientUseCase_GetAvailableProducts_ClienteInexistente(t *testing.T) {
	uc := newClientUC(newStore())
	_, err := uc.GetAvailableProducts("ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado por tipo
// ──────────────────────────────────────────────────────────────────────────────

func TestClientUseCase_ListByType(t *testing.T) {
	s := newStore()
	seedClient(s, "c1", "Hôpital", entity.ClientStandard)
	seedClient(s, "c2", "Clinique", entity.ClientNegotiated)
	uc := newClientUC(s)

	list, err := uc.ListByType("NEGOTIATED")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Clinique", list[0].Name)

	_, err = uc.ListByType("VIP")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
