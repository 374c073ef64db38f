package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/domain"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

func receiptStore() (*store, *memStorage) {
	s := newStore()
	seedClient(s, "c1", "Hôpital", entity.ClientStandard)
	seedClient(s, "c2", "Clinique", entity.ClientNegotiated)
	seedProduct(s, "p1", "Seringue")
	return s, newMemStorage()
}

func receiptItems() []dto.ReceiptItemDTO {
	return []dto.ReceiptItemDTO{
		// Subtotales adrede incorrectos: deben recalcularse al persistir.
		{ProductID: "p1", Quantity: 4, UnitPrice: mustDec("25"), Subtotal: mustDec("1")},
		{ProductID: "p1", Quantity: 3, UnitPrice: mustDec("10"), Subtotal: mustDec("1")},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Emisión
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiptUseCase_Create_RecalculaSubtotalesYTotal(t *testing.T) {
	s, storage := receiptStore()
	uc := newReceiptUC(s, storage)

	resp, err := uc.Create("c1", dto.CreateReceiptRequest{
		ReceiptNumber: "FACT-001",
		Items:         receiptItems(),
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].Subtotal.Equal(mustDec("100")), "subtotal %s", resp.Items[0].Subtotal)
	assert.True(t, resp.Items[1].Subtotal.Equal(mustDec("30")))
	assert.True(t, resp.TotalAmount.Equal(mustDec("130")), "total %s", resp.TotalAmount)
}

func TestReceiptUseCase_Create_GeneraNumeroSiFalta(t *testing.T) {
	s, storage := receiptStore()
	uc := newReceiptUC(s, storage)

	resp, err := uc.Create("c1", dto.CreateReceiptRequest{Items: receiptItems()})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ReceiptNumber, "FACTURE-"), "número generado %q", resp.ReceiptNumber)
}

func TestReceiptUseCase_Create_LineaInvalida(t *testing.T) {
	s, storage := receiptStore()
	uc := newReceiptUC(s, storage)

	_, err := uc.Create("c1", dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemDTO{{ProductID: "p1", Quantity: 0, UnitPrice: mustDec("5")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create("c1", dto.CreateReceiptRequest{
		Items: []dto.ReceiptItemDTO{{ProductID: "ghost", Quantity: 1, UnitPrice: mustDec("5")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pertenencia
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiptUseCase_GetByID_OtroCliente(t *testing.T) {
	s, storage := receiptStore()
	uc := newReceiptUC(s, storage)

	created, err := uc.Create("c1", dto.CreateReceiptRequest{Items: receiptItems()})
	require.NoError(t, err)

	_, err = uc.GetByID("c2", created.ID)
	assert.ErrorIs(t, err, domain.ErrWrongOwnership)

	_, err = uc.GetByID("c1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualización: reemplazo de líneas
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiptUseCase_Update_ReemplazaLineasCompletas(t *testing.T) {
	s, storage := receiptStore()
	uc := newReceiptUC(s, storage)

	created, err := uc.Create("c1", dto.CreateReceiptRequest{Items: receiptItems()})
	require.NoError(t, err)

	updated, err := uc.Update("c1", created.ID, dto.UpdateReceiptRequest{
		Items:   []dto.ReceiptItemDTO{{ProductID: "p1", Quantity: 1, UnitPrice: mustDec("7")}},
		Version: 0,
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.True(t, updated.TotalAmount.Equal(mustDec("7")))

	// Versión obsoleta tras la primera edición.
	_, err = uc.Update("c1", created.ID, dto.UpdateReceiptRequest{
		Items:   []dto.ReceiptItemDTO{{ProductID: "p1", Quantity: 1, UnitPrice: mustDec("7")}},
		Version: 0,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Documento y adjuntos
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiptUseCase_RenderDocument(t *testing.T) {
	s, storage := receiptStore()
	uc := newReceiptUC(s, storage)

	created, err := uc.Create("c1", dto.CreateReceiptRequest{ReceiptNumber: "FACT-007", Items: receiptItems()})
	require.NoError(t, err)

	data, filename, err := uc.RenderDocument("c1", created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "FACT-007.pdf", filename)
}

func TestReceiptUseCase_Attachments_CicloCompleto(t *testing.T) {
	s, storage := receiptStore()
	uc := newReceiptUC(s, storage)

	created, err := uc.Create("c1", dto.CreateReceiptRequest{Items: receiptItems()})
	require.NoError(t, err)

	att, err := uc.AddAttachment("c1", created.ID, "bon-livraison.pdf", "application/pdf", []byte("contenido"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("contenido")), att.SizeBytes)
	assert.Len(t, storage.files, 1)

	meta, data, err := uc.GetAttachment("c1", created.ID, att.ID)
	require.NoError(t, err)
	assert.Equal(t, "bon-livraison.pdf", meta.FileName)
	assert.Equal(t, []byte("contenido"), data)

	// Otro cliente no puede tocar el adjunto.
	_, _, err = uc.GetAttachment("c2", created.ID, att.ID)
	assert.ErrorIs(t, err, domain.ErrWrongOwnership)

	require.NoError(t, uc.DeleteAttachment("c1", created.ID, att.ID))
	assert.Empty(t, storage.files)
	assert.Empty(t, s.attachments)
}

func TestReceiptUseCase_AddAttachment_EntradaInvalida(t *testing.T) {
	s, storage := receiptStore()
	uc := newReceiptUC(s, storage)

	created, err := uc.Create("c1", dto.CreateReceiptRequest{Items: receiptItems()})
	require.NoError(t, err)

	_, err = uc.AddAttachment("c1", created.ID, "", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AddAttachment("c1", created.ID, "a.pdf", "application/pdf", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Borrar el recibo arrastra sus adjuntos, registros y archivos.
func TestReceiptUseCase_Delete_ArrastraAdjuntos(t *testing.T) {
	s, storage := receiptStore()
	uc := newReceiptUC(s, storage)

	created, err := uc.Create("c1", dto.CreateReceiptRequest{Items: receiptItems()})
	require.NoError(t, err)
	_, err = uc.AddAttachment("c1", created.ID, "scan.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete("c1", created.ID))
	assert.Empty(t, s.receipts)
	assert.Empty(t, s.attachments)
	assert.Empty(t, storage.files)
}
