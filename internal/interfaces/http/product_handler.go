package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto con sus precios por defecto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.Name == "" {
		return badRequest(c, "name es requerido")
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto; client_id da la vista de precios efectiva para ese cliente
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true   "ID del producto"
// @Param        client_id  query  string  false  "Cliente para la vista de precios"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	clientID := c.Query("client_id")

	var (
		out *dto.ProductResponse
		err error
	)
	if clientID != "" {
		out, err = h.uc.GetWithClientPricing(id, clientID)
	} else {
		out, err = h.uc.GetByID(id)
	}
	if err != nil {
		return fail(c, err)
	}
	if out == nil {
		return notFound(c, "producto no encontrado")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto; los componentes enviados reemplazan los precios por defecto vigentes
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar producto
// @Tags         products
// @Security     Bearer
// @Param        id  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetCustomPricing godoc
// @Summary      Fijar precios negociados de un cliente para un producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path  string  true  "ID del producto"
// @Param        clientId  path  string  true  "ID del cliente"
// @Param        body      body  dto.SetCustomPricingRequest  true  "Montos por tipo de componente"
// @Success      200  {object}  dto.ProductResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/custom-pricing/{clientId} [put]
func (h *ProductHandler) SetCustomPricing(c *fiber.Ctx) error {
	var in dto.SetCustomPricingRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.SetCustomPricing(c.Params("id"), c.Params("clientId"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// RemoveCustomPricing godoc
// @Summary      Retirar los precios negociados de un cliente; vuelve a la grilla por defecto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id        path  string  true  "ID del producto"
// @Param        clientId  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/custom-pricing/{clientId} [delete]
func (h *ProductHandler) RemoveCustomPricing(c *fiber.Ctx) error {
	out, err := h.uc.RemoveCustomPricing(c.Params("id"), c.Params("clientId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
