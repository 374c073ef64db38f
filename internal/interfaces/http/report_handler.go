package http

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/medarrival/medarrival-api/internal/application/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler maneja la descarga de reportes xlsx y la grilla de
// precios (protegido).
type ReportHandler struct {
	exportUC    *reports.ExportUseCase
	priceGridUC *reports.PriceGridUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(exportUC *reports.ExportUseCase, priceGridUC *reports.PriceGridUseCase) *ReportHandler {
	return &ReportHandler{exportUC: exportUC, priceGridUC: priceGridUC}
}

// reportPeriod extrae el rango start/end obligatorio de los reportes.
func reportPeriod(c *fiber.Ctx) (time.Time, time.Time, error) {
	start, hasStart, err := queryDate(c, "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, hasEnd, err := queryDate(c, "end")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !hasStart || !hasEnd {
		return time.Time{}, time.Time{}, fmt.Errorf("start y end son requeridos (%s)", dateLayout)
	}
	return start, end, nil
}

// sendXLSX responde el workbook como descarga.
func sendXLSX(c *fiber.Ctx, data []byte, fileName string) error {
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.Send(data)
}

// MonthlyProduct godoc
// @Summary      Descargar el bilan produit del período
// @Tags         reports
// @Security     Bearer
// @Param        start  query  string  true  "Fecha inicial (YYYY-MM-DD)"
// @Param        end    query  string  true  "Fecha final (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/monthly-product [get]
func (h *ReportHandler) MonthlyProduct(c *fiber.Ctx) error {
	start, end, err := reportPeriod(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	data, err := h.exportUC.MonthlyProductReport(start, end)
	if err != nil {
		return fail(c, err)
	}
	return sendXLSX(c, data, "bilan-produit.xlsx")
}

// Pricing godoc
// @Summary      Descargar el rapport de prix del período
// @Tags         reports
// @Security     Bearer
// @Param        start  query  string  true  "Fecha inicial (YYYY-MM-DD)"
// @Param        end    query  string  true  "Fecha final (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/pricing [get]
func (h *ReportHandler) Pricing(c *fiber.Ctx) error {
	start, end, err := reportPeriod(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	data, err := h.exportUC.PricingReport(start, end)
	if err != nil {
		return fail(c, err)
	}
	return sendXLSX(c, data, "rapport-de-prix.xlsx")
}

// Forecast godoc
// @Summary      Descargar el prévisionnel de ventas por cliente del período
// @Tags         reports
// @Security     Bearer
// @Param        start  query  string  true  "Fecha inicial (YYYY-MM-DD)"
// @Param        end    query  string  true  "Fecha final (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/forecast [get]
func (h *ReportHandler) Forecast(c *fiber.Ctx) error {
	start, end, err := reportPeriod(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	data, err := h.exportUC.ForecastReport(start, end)
	if err != nil {
		return fail(c, err)
	}
	return sendXLSX(c, data, "previsionnel.xlsx")
}

// Recap godoc
// @Summary      Descargar el récapitulatif de facturation; client_id restringe a un cliente
// @Tags         reports
// @Security     Bearer
// @Param        start      query  string  true   "Fecha inicial (YYYY-MM-DD)"
// @Param        end        query  string  true   "Fecha final (YYYY-MM-DD)"
// @Param        client_id  query  string  false  "Cliente"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/recap [get]
func (h *ReportHandler) Recap(c *fiber.Ctx) error {
	start, end, err := reportPeriod(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	var clientID *string
	if raw := c.Query("client_id"); raw != "" {
		clientID = &raw
	}
	data, err := h.exportUC.RecapReport(start, end, clientID)
	if err != nil {
		return fail(c, err)
	}
	return sendXLSX(c, data, "recapitulatif-facturation.xlsx")
}

// ExportAll godoc
// @Summary      Descargar los cuatro reportes del período en un solo workbook
// @Tags         reports
// @Security     Bearer
// @Param        start  query  string  true  "Fecha inicial (YYYY-MM-DD)"
// @Param        end    query  string  true  "Fecha final (YYYY-MM-DD)"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/export-all [get]
func (h *ReportHandler) ExportAll(c *fiber.Ctx) error {
	start, end, err := reportPeriod(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	data, err := h.exportUC.ExportAll(start, end)
	if err != nil {
		return fail(c, err)
	}
	return sendXLSX(c, data, "reports.xlsx")
}

// PriceGridExport godoc
// @Summary      Descargar la grilla de precios vigente; client_id da la vista efectiva del cliente
// @Tags         reports
// @Security     Bearer
// @Param        client_id  query  string  false  "Cliente"
// @Success      200  {file}  binary
// @Router       /api/reports/price-grid [get]
func (h *ReportHandler) PriceGridExport(c *fiber.Ctx) error {
	var clientID *string
	if raw := c.Query("client_id"); raw != "" {
		clientID = &raw
	}
	data, err := h.priceGridUC.Export(clientID)
	if err != nil {
		return fail(c, err)
	}
	return sendXLSX(c, data, "grille-de-prix.xlsx")
}

// PriceGridImport godoc
// @Summary      Importar precios por defecto desde una grilla xlsx (multipart, campo "file")
// @Tags         reports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Grilla xlsx"
// @Success      200  {object}  reports.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/price-grid [post]
func (h *ReportHandler) PriceGridImport(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "campo file requerido")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "archivo ilegible")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "archivo ilegible")
	}
	out, err := h.priceGridUC.Import(data)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
