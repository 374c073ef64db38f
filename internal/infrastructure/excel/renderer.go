// Package excel materializa los reportes de ventas y la grilla de precios
// como libros xlsx usando excelize. Los encabezados en francés replican el
// formato de los cuadros que el equipo comercial maneja a mano.
package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/medarrival/medarrival-api/internal/application/reports"
	"github.com/medarrival/medarrival-api/internal/domain/entity"
)

// Nombres de hoja de cada reporte.
const (
	sheetMonthly   = "Monthly Product Report"
	sheetPricing   = "Pricing Report"
	sheetForecast  = "Sales Forecast"
	sheetRecap     = "Récapitulatif Facturation"
	sheetPriceGrid = "Grille de prix"
)

// Renderer implementa reports.Renderer sobre excelize.
type Renderer struct{}

var _ reports.Renderer = (*Renderer)(nil)

// NewRenderer construye el renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// MonthlyProductReport genera el bilan produit en una sola hoja.
func (r *Renderer) MonthlyProductReport(title string, rows []reports.MonthlyProductRow, totals reports.MonthlyTotals) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := renameDefault(f, sheetMonthly); err != nil {
		return nil, err
	}
	if err := writeMonthlySheet(f, sheetMonthly, title, rows, totals); err != nil {
		return nil, err
	}
	return toBytes(f)
}

// PricingReport genera el rapport de prix en una sola hoja.
func (r *Renderer) PricingReport(title string, rows []reports.PricingRow, totals reports.PricingTotals) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := renameDefault(f, sheetPricing); err != nil {
		return nil, err
	}
	if err := writePricingSheet(f, sheetPricing, title, rows, totals); err != nil {
		return nil, err
	}
	return toBytes(f)
}

// ForecastReport genera el prévisionnel por cliente en una sola hoja.
func (r *Renderer) ForecastReport(title string, sections []reports.ForecastSection) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := renameDefault(f, sheetForecast); err != nil {
		return nil, err
	}
	if err := writeForecastSheet(f, sheetForecast, title, sections); err != nil {
		return nil, err
	}
	return toBytes(f)
}

// RecapReport genera el récapitulatif de facturation en una sola hoja.
func (r *Renderer) RecapReport(title string, rows []reports.RecapRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := renameDefault(f, sheetRecap); err != nil {
		return nil, err
	}
	if err := writeRecapSheet(f, sheetRecap, title, rows); err != nil {
		return nil, err
	}
	return toBytes(f)
}

// ExportAll genera el workbook con los cuatro reportes, una hoja por reporte.
func (r *Renderer) ExportAll(bundle reports.Bundle) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := renameDefault(f, sheetMonthly); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetPricing, sheetForecast, sheetRecap} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("excel: crear hoja %s: %w", name, err)
		}
	}
	if err := writeMonthlySheet(f, sheetMonthly, bundle.MonthlyTitle, bundle.MonthlyRows, bundle.MonthlyTotals); err != nil {
		return nil, err
	}
	if err := writePricingSheet(f, sheetPricing, bundle.PricingTitle, bundle.PricingRows, bundle.PricingTotals); err != nil {
		return nil, err
	}
	if err := writeForecastSheet(f, sheetForecast, bundle.ForecastTitle, bundle.ForecastSections); err != nil {
		return nil, err
	}
	if err := writeRecapSheet(f, sheetRecap, bundle.RecapTitle, bundle.RecapRows); err != nil {
		return nil, err
	}
	return toBytes(f)
}

// PriceGrid exporta la grilla vigente: una fila por producto, una columna
// por categoría de costo en orden canónico.
func (r *Renderer) PriceGrid(rows []reports.PriceGridRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := renameDefault(f, sheetPriceGrid); err != nil {
		return nil, err
	}

	headers := []string{"Produit"}
	for _, ct := range entity.ComponentTypes() {
		headers = append(headers, string(ct))
	}
	if err := writeHeaderRow(f, sheetPriceGrid, 1, headers); err != nil {
		return nil, err
	}
	for i, row := range rows {
		line := i + 2
		setCell(f, sheetPriceGrid, 1, line, row.ProductName)
		for j, ct := range entity.ComponentTypes() {
			if amt, ok := row.Amounts[ct]; ok {
				setCell(f, sheetPriceGrid, j+2, line, amt.InexactFloat64())
			}
		}
	}
	return toBytes(f)
}

// ParsePriceGrid lee una grilla exportada (posiblemente editada por el
// usuario) de vuelta a filas. Los nombres de columna del encabezado deciden
// qué categoría recibe cada monto; columnas desconocidas se ignoran.
func (r *Renderer) ParsePriceGrid(data []byte) ([]reports.PriceGridRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("excel: abrir grilla: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("excel: leer hoja %s: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	// Mapea columna → categoría según el encabezado.
	colType := make(map[int]entity.ComponentType)
	for idx, h := range raw[0] {
		ct := entity.ComponentType(strings.TrimSpace(h))
		if ct.IsValid() {
			colType[idx] = ct
		}
	}

	var rows []reports.PriceGridRow
	for n, cells := range raw[1:] {
		if len(cells) == 0 || strings.TrimSpace(cells[0]) == "" {
			continue
		}
		row := reports.PriceGridRow{
			ProductName: strings.TrimSpace(cells[0]),
			Amounts:     make(map[entity.ComponentType]decimal.Decimal),
		}
		for idx, cell := range cells {
			ct, ok := colType[idx]
			if !ok || strings.TrimSpace(cell) == "" {
				continue
			}
			amt, err := decimal.NewFromString(strings.TrimSpace(cell))
			if err != nil {
				return nil, fmt.Errorf("excel: fila %d, columna %s: monto inválido %q", n+2, ct, cell)
			}
			row.Amounts[ct] = amt
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ── hojas ─────────────────────────────────────────────────────────────────────

func writeMonthlySheet(f *excelize.File, sheet, title string, rows []reports.MonthlyProductRow, totals reports.MonthlyTotals) error {
	if err := writeTitle(f, sheet, title, 4); err != nil {
		return err
	}
	headers := []string{"Les produits", "Qtée achetée", "PU de vente", "CA/Pdt"}
	if err := writeHeaderRow(f, sheet, 2, headers); err != nil {
		return err
	}
	for i, row := range rows {
		line := i + 3
		setCell(f, sheet, 1, line, row.ProductName)
		setCell(f, sheet, 2, line, row.Quantity)
		setCell(f, sheet, 3, line, row.AvgUnitPrice.InexactFloat64())
		setCell(f, sheet, 4, line, row.Revenue.InexactFloat64())
	}
	totalLine := len(rows) + 3
	setCell(f, sheet, 1, totalLine, "CA global =")
	setCell(f, sheet, 2, totalLine, totals.Quantity)
	setCell(f, sheet, 4, totalLine, totals.Revenue.InexactFloat64())
	return boldRow(f, sheet, totalLine, 4)
}

func writePricingSheet(f *excelize.File, sheet, title string, rows []reports.PricingRow, totals reports.PricingTotals) error {
	if err := writeTitle(f, sheet, title, 6); err != nil {
		return err
	}
	headers := []string{"Les produits", "Qtée achetée", "PUA", "PTA", "Transport", "PT Environné"}
	if err := writeHeaderRow(f, sheet, 2, headers); err != nil {
		return err
	}
	for i, row := range rows {
		line := i + 3
		setCell(f, sheet, 1, line, row.ProductName)
		setCell(f, sheet, 2, line, row.Quantity)
		setCell(f, sheet, 3, line, row.AvgPUA.InexactFloat64())
		setCell(f, sheet, 4, line, row.PTA.InexactFloat64())
		setCell(f, sheet, 5, line, row.Transport.InexactFloat64())
		setCell(f, sheet, 6, line, row.PTEnvironne.InexactFloat64())
	}
	totalLine := len(rows) + 3
	setCell(f, sheet, 1, totalLine, "Total")
	setCell(f, sheet, 2, totalLine, totals.Quantity)
	setCell(f, sheet, 4, totalLine, totals.PTA.InexactFloat64())
	setCell(f, sheet, 5, totalLine, totals.Transport.InexactFloat64())
	setCell(f, sheet, 6, totalLine, totals.PTEnvironne.InexactFloat64())
	return boldRow(f, sheet, totalLine, 6)
}

func writeForecastSheet(f *excelize.File, sheet, title string, sections []reports.ForecastSection) error {
	if err := writeTitle(f, sheet, title, 4); err != nil {
		return err
	}
	line := 3
	for _, sec := range sections {
		setCell(f, sheet, 1, line, "Le client")
		setCell(f, sheet, 2, line, sec.ClientName)
		if err := boldRow(f, sheet, line, 2); err != nil {
			return err
		}
		line++

		headers := []string{"Le produit RP", "Qté Prévue d'être livrée", "PU de vente selon la grille", "Vente prévisionnelle"}
		if err := writeHeaderRow(f, sheet, line, headers); err != nil {
			return err
		}
		line++

		for _, row := range sec.Rows {
			setCell(f, sheet, 1, line, row.ProductName)
			setCell(f, sheet, 2, line, row.ExpectedQuantity)
			setCell(f, sheet, 3, line, row.UnitPrice.InexactFloat64())
			setCell(f, sheet, 4, line, row.ForecastAmount.InexactFloat64())
			line++
		}

		setCell(f, sheet, 1, line, "CA/Client prévu")
		setCell(f, sheet, 4, line, sec.Total.InexactFloat64())
		if err := boldRow(f, sheet, line, 4); err != nil {
			return err
		}
		line += 2 // fila en blanco entre clientes
	}
	return nil
}

func writeRecapSheet(f *excelize.File, sheet, title string, rows []reports.RecapRow) error {
	if err := writeTitle(f, sheet, title, 11); err != nil {
		return err
	}
	headers := []string{
		"Le client", "Le produit RP", "Qtée commandé", "Qtée livrée",
		"Prix Unitaire de vente", "PU de vente selon la G", "Contrôle",
		"Mt Total Fact", "N°de Facture de Vente", "Ecart", "Justification des écarts",
	}
	if err := writeHeaderRow(f, sheet, 2, headers); err != nil {
		return err
	}
	for i, row := range rows {
		line := i + 3
		controle := "conforme"
		if !row.Conform {
			controle = "non conforme"
		}
		setCell(f, sheet, 1, line, row.ClientName)
		setCell(f, sheet, 2, line, row.ProductName)
		setCell(f, sheet, 3, line, row.OrderedQty)
		setCell(f, sheet, 4, line, row.DeliveredQty)
		setCell(f, sheet, 5, line, row.UnitPrice.InexactFloat64())
		setCell(f, sheet, 6, line, row.GridUnitPrice.InexactFloat64())
		setCell(f, sheet, 7, line, controle)
		setCell(f, sheet, 8, line, row.TotalAmount.InexactFloat64())
		setCell(f, sheet, 9, line, row.InvoiceNumber)
		setCell(f, sheet, 10, line, row.Ecart.InexactFloat64())
		setCell(f, sheet, 11, line, row.Justification)
	}
	return nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func renameDefault(f *excelize.File, name string) error {
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	return nil
}

// writeTitle escribe el título en A1 mergeado sobre width columnas.
func writeTitle(f *excelize.File, sheet, title string, width int) error {
	setCell(f, sheet, 1, 1, title)
	end, _ := excelize.CoordinatesToCellName(width, 1)
	if err := f.MergeCell(sheet, "A1", end); err != nil {
		return fmt.Errorf("excel: merge título: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo título: %w", err)
	}
	return f.SetCellStyle(sheet, "A1", end, style)
}

func writeHeaderRow(f *excelize.File, sheet string, line int, headers []string) error {
	for i, h := range headers {
		setCell(f, sheet, i+1, line, h)
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo encabezado: %w", err)
	}
	start, _ := excelize.CoordinatesToCellName(1, line)
	end, _ := excelize.CoordinatesToCellName(len(headers), line)
	return f.SetCellStyle(sheet, start, end, style)
}

func boldRow(f *excelize.File, sheet string, line, width int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: estilo negrita: %w", err)
	}
	start, _ := excelize.CoordinatesToCellName(1, line)
	end, _ := excelize.CoordinatesToCellName(width, line)
	return f.SetCellStyle(sheet, start, end, style)
}

func setCell(f *excelize.File, sheet string, col, line int, value any) {
	cell, _ := excelize.CoordinatesToCellName(col, line)
	_ = f.SetCellValue(sheet, cell, value)
}

func toBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir workbook: %w", err)
	}
	return buf.Bytes(), nil
}
