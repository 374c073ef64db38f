package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medarrival/medarrival-api/internal/application/usecase"
)

// KpiHandler maneja las métricas del dashboard (protegido).
type KpiHandler struct {
	uc *usecase.KpiUseCase
}

// NewKpiHandler construye el handler.
func NewKpiHandler(uc *usecase.KpiUseCase) *KpiHandler {
	return &KpiHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Métricas del período: facturación diaria, arribos, tops y ventas por categoría
// @Tags         kpis
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "Fecha inicial (YYYY-MM-DD)"
// @Param        end    query  string  true  "Fecha final (YYYY-MM-DD)"
// @Success      200  {object}  dto.KpiResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/kpis [get]
func (h *KpiHandler) Dashboard(c *fiber.Ctx) error {
	start, end, err := reportPeriod(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.uc.GetDashboard(c.Context(), start, end)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
