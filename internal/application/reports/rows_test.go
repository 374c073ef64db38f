package reports_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medarrival/medarrival-api/internal/application/reports"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var saleDate = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// saleWith construye una venta con snapshot de compra/transporte y total.
func saleWith(productID, clientID string, qty, expectedQty int, purchase, transport, total string) *entity.Sale {
	return &entity.Sale{
		ID:               productID + "-" + clientID,
		ProductID:        productID,
		ClientID:         clientID,
		Quantity:         qty,
		ExpectedQuantity: expectedQty,
		TotalAmount:      dec(total),
		SaleDate:         saleDate,
		PriceComponents: []*entity.SalePriceComponent{
			{ComponentType: entity.ComponentPurchasePrice, Amount: dec(purchase)},
			{ComponentType: entity.ComponentTransport, Amount: dec(transport)},
		},
	}
}

func productsMap(names map[string]string) map[string]*entity.Product {
	m := make(map[string]*entity.Product, len(names))
	for id, name := range names {
		m[id] = &entity.Product{ID: id, Name: name}
	}
	return m
}

func clientsMap(names map[string]string) map[string]*entity.Client {
	m := make(map[string]*entity.Client, len(names))
	for id, name := range names {
		m[id] = &entity.Client{ID: id, Name: name, ClientType: entity.ClientStandard}
	}
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Bilan produit
// ──────────────────────────────────────────────────────────────────────────────

func TestMonthlyProductRows_AgrupaYOrdena(t *testing.T) {
	products := productsMap(map[string]string{"p1": "Seringue", "p2": "Compresse"})
	sales := []*entity.Sale{
		saleWith("p1", "c1", 5, 5, "90", "10", "500"),
		saleWith("p1", "c2", 5, 5, "90", "10", "500"),
		saleWith("p2", "c1", 2, 2, "45", "3", "96"),
	}

	rows, totals := reports.MonthlyProductRows(sales, products)
	require.Len(t, rows, 2)

	// Ordenadas por nombre: Compresse antes que Seringue.
	assert.Equal(t, "Compresse", rows[0].ProductName)
	assert.Equal(t, 2, rows[0].Quantity)
	assert.Equal(t, "96", rows[0].Revenue.String())
	assert.Equal(t, "48", rows[0].AvgUnitPrice.String())

	assert.Equal(t, "Seringue", rows[1].ProductName)
	assert.Equal(t, 10, rows[1].Quantity)
	assert.Equal(t, "1000", rows[1].Revenue.String())
	assert.Equal(t, "100", rows[1].AvgUnitPrice.String())

	assert.Equal(t, 12, totals.Quantity)
	assert.Equal(t, "1096", totals.Revenue.String())
}

// Cantidad agregada cero: el promedio degrada a cero en vez de dividir.
func TestMonthlyProductRows_CantidadCero_PromedioCero(t *testing.T) {
	products := productsMap(map[string]string{"p1": "Seringue"})
	sales := []*entity.Sale{saleWith("p1", "c1", 0, 0, "90", "10", "0")}

	rows, _ := reports.MonthlyProductRows(sales, products)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].AvgUnitPrice.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Rapport de prix
// ──────────────────────────────────────────────────────────────────────────────

func TestPricingRows_PTEnvironneEsPTAMasTransporte(t *testing.T) {
	products := productsMap(map[string]string{"p1": "Seringue"})
	sales := []*entity.Sale{
		saleWith("p1", "c1", 5, 5, "90", "10", "500"),
		saleWith("p1", "c2", 5, 5, "80", "10", "450"),
	}

	rows, totals := reports.PricingRows(sales, products)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, 10, row.Quantity)
	// AvgPUA = (90×5 + 80×5) / 10 = 85
	assert.Equal(t, "85", row.AvgPUA.String())
	assert.Equal(t, "950", row.PTA.String())
	assert.Equal(t, "100", row.Transport.String())
	assert.Equal(t, "1050", row.PTEnvironne.String())

	assert.Equal(t, "1050", totals.PTEnvironne.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Prévisionnel
// ──────────────────────────────────────────────────────────────────────────────

func TestForecastSections_AgrupaPorClienteConSubtotal(t *testing.T) {
	products := productsMap(map[string]string{"p1": "Seringue", "p2": "Compresse"})
	clients := clientsMap(map[string]string{"c1": "Hôpital", "c2": "Clinique"})
	sales := []*entity.Sale{
		saleWith("p1", "c2", 5, 8, "90", "10", "500"),
		saleWith("p2", "c1", 2, 4, "45", "3", "96"),
	}

	sections := reports.ForecastSections(sales, products, clients)
	require.Len(t, sections, 2)

	// Ordenadas por nombre de cliente: Clinique antes que Hôpital.
	assert.Equal(t, "Clinique", sections[0].ClientName)
	require.Len(t, sections[0].Rows, 1)
	assert.Equal(t, 8, sections[0].Rows[0].ExpectedQuantity)
	assert.Equal(t, "90", sections[0].Rows[0].UnitPrice.String())
	assert.Equal(t, "720", sections[0].Rows[0].ForecastAmount.String())
	assert.Equal(t, "720", sections[0].Total.String())

	assert.Equal(t, "Hôpital", sections[1].ClientName)
	assert.Equal(t, "180", sections[1].Total.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Récapitulatif de facturation
// ──────────────────────────────────────────────────────────────────────────────

func recapFixture() ([]*entity.Arrival, map[string]*entity.Sale, map[string]*entity.Product, map[string]*entity.Client) {
	conformSale := saleWith("p1", "c1", 5, 6, "90", "10", "500")
	conformSale.ID = "s1"
	offGridSale := saleWith("p1", "c2", 2, 2, "70", "10", "160")
	offGridSale.ID = "s2"
	orphanSale := saleWith("ghost", "c1", 1, 1, "10", "0", "10")
	orphanSale.ID = "s3"

	arrivals := []*entity.Arrival{
		{ID: "a1", InvoiceNumber: "INV-001", SaleIDs: []string{"s1", "s2", "s3"}},
	}
	salesByID := map[string]*entity.Sale{"s1": conformSale, "s2": offGridSale, "s3": orphanSale}

	products := productsMap(map[string]string{"p1": "Seringue"})
	products["p1"].PriceComponents = []*entity.PriceComponent{
		{
			ID: "g1", ProductID: "p1",
			ComponentType: entity.ComponentPurchasePrice,
			Amount:        dec("90"),
			EffectiveFrom: saleDate.AddDate(0, -1, 0),
		},
	}
	clients := clientsMap(map[string]string{"c1": "Hôpital", "c2": "Clinique"})
	return arrivals, salesByID, products, clients
}

func TestRecapRows_ControleContraLaGrilla(t *testing.T) {
	arrivals, salesByID, products, clients := recapFixture()

	rows := reports.RecapRows(arrivals, salesByID, products, clients, nil)
	require.Len(t, rows, 3)

	byClient := make(map[string]reports.RecapRow)
	for _, r := range rows {
		if r.ProductName != "Produit inconnu" {
			byClient[r.ClientName] = r
		}
	}

	conform := byClient["Hôpital"]
	assert.True(t, conform.Conform)
	assert.Equal(t, 6, conform.OrderedQty)
	assert.Equal(t, 5, conform.DeliveredQty)
	assert.Equal(t, "Facture N°INV-001", conform.InvoiceNumber)
	assert.True(t, conform.Ecart.IsZero())

	offGrid := byClient["Clinique"]
	assert.False(t, offGrid.Conform, "precio facturado 70 contra grilla 90 no es conforme")
	assert.Equal(t, "90", offGrid.GridUnitPrice.String())
	// (70 − 90) × 2 = −40
	assert.Equal(t, "-40", offGrid.Ecart.String())
	assert.NotEmpty(t, offGrid.Justification)
}

// Venta cuyo producto ya no existe: fila marcada con los literales de
// producto desconocido y no conforme.
func TestRecapRows_ProductoInexistente(t *testing.T) {
	arrivals, salesByID, products, clients := recapFixture()

	rows := reports.RecapRows(arrivals, salesByID, products, clients, nil)

	var orphan *reports.RecapRow
	for i := range rows {
		if rows[i].ProductName == "Produit inconnu" {
			orphan = &rows[i]
		}
	}
	require.NotNil(t, orphan)
	assert.False(t, orphan.Conform)
	assert.Equal(t, "Produit non trouvé dans le système", orphan.Justification)
}

// clientID no nulo restringe las filas a ese cliente.
func TestRecapRows_FiltraPorCliente(t *testing.T) {
	arrivals, salesByID, products, clients := recapFixture()

	clientID := "c2"
	rows := reports.RecapRows(arrivals, salesByID, products, clients, &clientID)
	require.Len(t, rows, 1)
	assert.Equal(t, "Clinique", rows[0].ClientName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fechas francesas
// ──────────────────────────────────────────────────────────────────────────────

func TestFrenchMonthYear_MayusculasConAcentos(t *testing.T) {
	assert.Equal(t, "AOÛT 2026", reports.FrenchMonthYear(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "FÉVRIER 2024", reports.FrenchMonthYear(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFrenchDate_DiaMesAnio(t *testing.T) {
	assert.Equal(t, "28/08/2026", reports.FrenchDate(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)))
}
