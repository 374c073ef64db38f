package http

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/medarrival/medarrival-api/internal/application/dto"
	"github.com/medarrival/medarrival-api/internal/application/usecase"
)

// dateLayout formato de fechas en query params.
const dateLayout = "2006-01-02"

// queryDate parsea un query param de fecha. ok=false si el param no vino.
func queryDate(c *fiber.Ctx, key string) (time.Time, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parámetro %s: se espera %s", key, dateLayout)
	}
	return t, true, nil
}

// ReceiptHandler maneja los recibos de un cliente (protegido, anidado
// bajo /clients/:id/receipts).
type ReceiptHandler struct {
	uc *usecase.ReceiptUseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *usecase.ReceiptUseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc}
}

// Create godoc
// @Summary      Emitir recibo para un cliente
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.CreateReceiptRequest  true  "Datos del recibo"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/receipts [post]
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Create(c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar recibos del cliente; start y end acotan por fecha
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del cliente"
// @Param        start  query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        end    query  string  false  "Fecha final (YYYY-MM-DD)"
// @Success      200  {array}  dto.ReceiptResponse
// @Router       /api/clients/{id}/receipts [get]
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	clientID := c.Params("id")
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

	var out []dto.ReceiptResponse
	if hasStart {
		out, err = h.uc.ListByClientAndDateRange(clientID, start, end)
	} else {
		out, err = h.uc.ListByClient(clientID)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener recibo del cliente
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del cliente"
// @Param        receiptId  path  string  true  "ID del recibo"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/receipts/{receiptId} [get]
func (h *ReceiptHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"), c.Params("receiptId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar recibo; las líneas enviadas reemplazan las existentes
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string  true  "ID del cliente"
// @Param        receiptId  path  string  true  "ID del recibo"
// @Param        body       body  dto.UpdateReceiptRequest  true  "Datos a actualizar"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/receipts/{receiptId} [put]
func (h *ReceiptHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Update(c.Params("id"), c.Params("receiptId"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar recibo con sus líneas y adjuntos
// @Tags         receipts
// @Security     Bearer
// @Param        id         path  string  true  "ID del cliente"
// @Param        receiptId  path  string  true  "ID del recibo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/receipts/{receiptId} [delete]
func (h *ReceiptHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id"), c.Params("receiptId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RenderDocument godoc
// @Summary      Descargar el PDF imprimible del recibo
// @Tags         receipts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id         path  string  true  "ID del cliente"
// @Param        receiptId  path  string  true  "ID del recibo"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/receipts/{receiptId}/document [get]
func (h *ReceiptHandler) RenderDocument(c *fiber.Ctx) error {
	data, fileName, err := h.uc.RenderDocument(c.Params("id"), c.Params("receiptId"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	return c.Send(data)
}

// AddAttachment godoc
// @Summary      Adjuntar un archivo al recibo (multipart, campo "file")
// @Tags         receipts
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id         path      string  true  "ID del cliente"
// @Param        receiptId  path      string  true  "ID del recibo"
// @Param        file       formData  file    true  "Archivo"
// @Success      201  {object}  dto.ReceiptAttachmentDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/receipts/{receiptId}/attachments [post]
func (h *ReceiptHandler) AddAttachment(c *fiber.Ctx) error {
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

	contentType := fh.Header.Get("Content-Type")
	out, err := h.uc.AddAttachment(c.Params("id"), c.Params("receiptId"), fh.Filename, contentType, data)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetAttachment godoc
// @Summary      Descargar un adjunto del recibo
// @Tags         receipts
// @Security     Bearer
// @Produce      application/octet-stream
// @Param        id            path  string  true  "ID del cliente"
// @Param        receiptId     path  string  true  "ID del recibo"
// @Param        attachmentId  path  string  true  "ID del adjunto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/receipts/{receiptId}/attachments/{attachmentId} [get]
func (h *ReceiptHandler) GetAttachment(c *fiber.Ctx) error {
	att, data, err := h.uc.GetAttachment(c.Params("id"), c.Params("receiptId"), c.Params("attachmentId"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, att.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, att.FileName))
	return c.Send(data)
}

// DeleteAttachment godoc
// @Summary      Borrar un adjunto del recibo
// @Tags         receipts
// @Security     Bearer
// @Param        id            path  string  true  "ID del cliente"
// @Param        receiptId     path  string  true  "ID del recibo"
// @Param        attachmentId  path  string  true  "ID del adjunto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/receipts/{receiptId}/attachments/{attachmentId} [delete]
func (h *ReceiptHandler) DeleteAttachment(c *fiber.Ctx) error {
	if err := h.uc.DeleteAttachment(c.Params("id"), c.Params("receiptId"), c.Params("attachmentId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
