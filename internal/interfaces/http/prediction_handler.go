package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
)

// PredictionHandler historial y cálculo de pronósticos.
type PredictionHandler struct {
	uc PredictionService
}

// NewPredictionHandler construye el handler.
func NewPredictionHandler(uc PredictionService) *PredictionHandler {
	return &PredictionHandler{uc: uc}
}

// List godoc
// @Summary      Historial de pronósticos
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(50)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.ForecastListResponse
// @Router       /api/predictions [get]
func (h *PredictionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Historial de pronósticos de un producto
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        limit      query  int     false  "Límite"  default(50)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ForecastListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/predictions/product/{productId} [get]
func (h *PredictionHandler) ListByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ListByProduct(c.UserContext(), c.Params("productId"), pageFromQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Calculate godoc
// @Summary      Calcular y guardar pronóstico de un producto
// @Description  Guarda el pronóstico en el historial y genera las alertas que correspondan.
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        days       query  int     false  "Ventana en días"
// @Success      201  {object}  dto.PredictionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/predictions/calculate/{productId} [post]
func (h *PredictionHandler) Calculate(c *fiber.Ctx) error {
	days, ok := daysFromQuery(c)
	if !ok {
		return badRequest(c, "VALIDATION", "days debe ser mayor que 0")
	}
	out, err := h.uc.Calculate(c.UserContext(), c.Params("productId"), days)
	if err != nil {
		if out != nil && errors.Is(err, domain.ErrPersistence) {
			// Pronóstico calculado pero no guardado: se devuelve igual para no perderlo.
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"code":     "PERSISTENCE",
				"message":  err.Error(),
				"forecast": out.Forecast,
			})
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CalculateAll godoc
// @Summary      Recalcular todos los productos activos
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días"
// @Success      200  {object}  dto.BatchPredictionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/predictions/calculate [post]
func (h *PredictionHandler) CalculateAll(c *fiber.Ctx) error {
	days, ok := daysFromQuery(c)
	if !ok {
		return badRequest(c, "VALIDATION", "days debe ser mayor que 0")
	}
	return c.JSON(h.uc.CalculateAll(c.UserContext(), days))
}

// Report godoc
// @Summary      Reporte de reabastecimiento (PDF)
// @Tags         predictions
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/predictions/report [get]
func (h *PredictionHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.uc.ReorderReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="reorder-report.pdf"`)
	return c.Send(pdf)
}

// SweepLowStock godoc
// @Summary      Evaluar stock bajo en todos los productos
// @Tags         predictions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/predictions/sweep-low-stock [post]
func (h *PredictionHandler) SweepLowStock(c *fiber.Ctx) error {
	n, err := h.uc.SweepLowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"alerts_emitted": n, "message": fmt.Sprintf("%d alertas emitidas", n)})
}
