package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/application/usecase"
)

// ArrivalHandler maneja las peticiones HTTP para Arrival (protegido).
type ArrivalHandler struct {
	uc *usecase.ArrivalUseCase
}

// NewArrivalHandler construye el handler.
func NewArrivalHandler(uc *usecase.ArrivalUseCase) *ArrivalHandler {
	return &ArrivalHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar arribo de proveedor con sus ventas nuevas o existentes
// @Tags         arrivals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateArrivalRequest  true  "Datos del arribo"
// @Success      201   {object}  dto.ArrivalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/arrivals [post]
func (h *ArrivalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateArrivalRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener arribo por ID
// @Tags         arrivals
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del arribo"
// @Success      200  {object}  dto.ArrivalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/arrivals/{id} [get]
func (h *ArrivalHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if out == nil {
		return notFound(c, "arribo no encontrado")
	}
	return c.JSON(out)
}

// GetByInvoiceNumber godoc
// @Summary      Obtener arribo por número de factura del proveedor
// @Tags         arrivals
// @Security     Bearer
// @Produce      json
// @Param        invoiceNumber  path  string  true  "Número de factura"
// @Success      200  {object}  dto.ArrivalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/arrivals/invoice/{invoiceNumber} [get]
func (h *ArrivalHandler) GetByInvoiceNumber(c *fiber.Ctx) error {
	out, err := h.uc.GetByInvoiceNumber(c.Params("invoiceNumber"))
	if err != nil {
		return fail(c, err)
	}
	if out == nil {
		return notFound(c, "arribo no encontrado")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar arribos; supplier_id o el rango start/end filtran el listado
// @Tags         arrivals
// @Security     Bearer
// @Produce      json
// @Param        supplier_id  query  string  false  "Filtrar por proveedor"
// @Param        start        query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        end          query  string  false  "Fecha final (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ArrivalListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/arrivals [get]
func (h *ArrivalHandler) List(c *fiber.Ctx) error {
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		out, err := h.uc.ListBySupplier(supplierID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(out)
	}

	start, hasStart, err := queryDate(c, "start")
	if err != nil {
		return badRequest(c, err.Error())
	}
	end, hasEnd, err := queryDate(c, "end")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if hasStart != hasEnd {
		return badRequest(c, "start y end van juntos")
	}
	if hasStart {
		out, err := h.uc.ListByDateRange(start, end)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(out)
	}

	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar arribo; sus ventas quedan desasociadas, nunca borradas
// @Tags         arrivals
// @Security     Bearer
// @Param        id  path  string  true  "ID del arribo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/arrivals/{id} [delete]
func (h *ArrivalHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
