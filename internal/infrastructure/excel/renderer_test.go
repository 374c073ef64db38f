package excel_test

import (
	"bytes"
	"testing"

	xlsx "github.com/xuri/excelize/v2"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medarrival/medarrival-api/internal/application/reports"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
	"github.com/medarrival/medarrival-api/internal/infrastructure/excel"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Grilla de precios: export → import
// ──────────────────────────────────────────────────────────────────────────────

func TestPriceGrid_RoundTrip(t *testing.T) {
	r := excel.NewRenderer()
	in := []reports.PriceGridRow{
		{
			ProductName: "Seringue 10ml",
			Amounts: map[entity.ComponentType]decimal.Decimal{
				entity.ComponentPurchasePrice: dec("90.5"),
				entity.ComponentTransport:     dec("10.25"),
			},
		},
		{
			ProductName: "Compresse stérile",
			Amounts: map[entity.ComponentType]decimal.Decimal{
				entity.ComponentCustoms: dec("3"),
			},
		},
	}

	data, err := r.PriceGrid(in)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	out, err := r.ParsePriceGrid(data)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Seringue 10ml", out[0].ProductName)
	assert.True(t, out[0].Amounts[entity.ComponentPurchasePrice].Equal(dec("90.5")))
	assert.True(t, out[0].Amounts[entity.ComponentTransport].Equal(dec("10.25")))
	// Categorías sin monto no materializan entradas.
	_, ok := out[0].Amounts[entity.ComponentStorage]
	assert.False(t, ok)

	assert.Equal(t, "Compresse stérile", out[1].ProductName)
	assert.True(t, out[1].Amounts[entity.ComponentCustoms].Equal(dec("3")))
}

// El encabezado decide la categoría de cada columna, así que una grilla con
// columnas reordenadas o extra sigue importándose.
func TestParsePriceGrid_ColumnasReordenadasYDesconocidas(t *testing.T) {
	f := xlsx.NewFile()
	sheet := f.GetSheetName(0)
	for i, h := range []string{"Produit", "Commentaire", "TRANSPORT", "PURCHASE_PRICE"} {
		cell, _ := xlsx.CoordinatesToCellName(i+1, 1)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for i, v := range []any{"Gants", "à revoir", 7.5, 42} {
		cell, _ := xlsx.CoordinatesToCellName(i+1, 2)
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := excel.NewRenderer().ParsePriceGrid(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Gants", rows[0].ProductName)
	assert.True(t, rows[0].Amounts[entity.ComponentTransport].Equal(dec("7.5")))
	assert.True(t, rows[0].Amounts[entity.ComponentPurchasePrice].Equal(dec("42")))
	// "Commentaire" no es una categoría: se ignora.
	assert.Len(t, rows[0].Amounts, 2)
}

func TestParsePriceGrid_MontoInvalido(t *testing.T) {
	f := xlsx.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Produit"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "PURCHASE_PRICE"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Gants"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "mucho"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	_, err := excel.NewRenderer().ParsePriceGrid(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monto inválido")
}

func TestParsePriceGrid_FilasEnBlancoSeSaltan(t *testing.T) {
	f := xlsx.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Produit"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "TRANSPORT"))
	require.NoError(t, f.SetCellValue(sheet, "A3", "Gants"))
	require.NoError(t, f.SetCellValue(sheet, "B3", 5))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := excel.NewRenderer().ParsePriceGrid(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Gants", rows[0].ProductName)
}

func TestParsePriceGrid_ArchivoCorrupto(t *testing.T) {
	_, err := excel.NewRenderer().ParsePriceGrid([]byte("esto no es un xlsx"))
	require.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestMonthlyProductReport_HojaYTotales(t *testing.T) {
	rows := []reports.MonthlyProductRow{
		{ProductName: "Seringue", Quantity: 10, AvgUnitPrice: dec("100"), Revenue: dec("1000")},
	}
	totals := reports.MonthlyTotals{Quantity: 10, Revenue: dec("1000")}

	data, err := excel.NewRenderer().MonthlyProductReport("BILAN PRODUIT AOÛT 2026", rows, totals)
	require.NoError(t, err)

	f, err := xlsx.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Monthly Product Report", f.GetSheetName(0))

	title, err := f.GetCellValue("Monthly Product Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "BILAN PRODUIT AOÛT 2026", title)

	product, err := f.GetCellValue("Monthly Product Report", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Seringue", product)

	totalLabel, err := f.GetCellValue("Monthly Product Report", "A4")
	require.NoError(t, err)
	assert.Equal(t, "CA global =", totalLabel)
}

func TestExportAll_CuatroHojas(t *testing.T) {
	bundle := reports.Bundle{
		MonthlyTitle:  "BILAN PRODUIT",
		PricingTitle:  "RAPPORT DE PRIX",
		ForecastTitle: "PRÉVISIONNEL",
		RecapTitle:    "RÉCAPITULATIF",
	}
	data, err := excel.NewRenderer().ExportAll(bundle)
	require.NoError(t, err)

	f, err := xlsx.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{
		"Monthly Product Report",
		"Pricing Report",
		"Sales Forecast",
		"Récapitulatif Facturation",
	}, f.GetSheetList())
}
