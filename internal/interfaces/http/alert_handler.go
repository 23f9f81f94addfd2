package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/dto"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/repository"
)

// AlertHandler listado y ciclo de vida de alertas.
type AlertHandler struct {
	svc AlertService
}

// NewAlertHandler construye el handler.
func NewAlertHandler(svc AlertService) *AlertHandler {
	return &AlertHandler{svc: svc}
}

// CreateSystemAlertRequest body para POST /api/alerts.
type CreateSystemAlertRequest struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        status      query  string  false  "new | read | addressed"
// @Param        type        query  string  false  "low_stock | predicted_stockout | system"
// @Param        product_id  query  string  false  "Producto"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.AlertListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	var req dto.AlertListRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros inválidos")
	}
	req.DefaultPage()
	list, err := h.svc.List(c.UserContext(), repository.AlertFilter{
		Status:    entity.AlertStatus(req.Status),
		Type:      entity.AlertType(req.Type),
		ProductID: req.ProductID,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AlertListResponse{
		Items: dto.ToAlertResponses(list),
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset},
	})
}

// Create godoc
// @Summary      Crear alerta de sistema
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  CreateSystemAlertRequest  true  "Alerta"
// @Success      201  {object}  dto.AlertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/alerts [post]
func (h *AlertHandler) Create(c *fiber.Ctx) error {
	var in CreateSystemAlertRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	a, err := h.svc.CreateSystemAlert(c.UserContext(), in.ProductID, in.Message)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAlertResponse(a))
}

// UpdateStatus godoc
// @Summary      Cambiar estado de una alerta
// @Description  Transiciones permitidas: new → read → addressed.
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la alerta"
// @Param        body  body  dto.UpdateAlertStatusRequest  true  "Nuevo estado"
// @Success      200  {object}  dto.AlertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id} [patch]
func (h *AlertHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateAlertStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	status := entity.AlertStatus(in.Status)
	if !status.IsValid() {
		return badRequest(c, "VALIDATION", "status debe ser new, read o addressed")
	}
	a, err := h.svc.UpdateStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToAlertResponse(a))
}

// Delete godoc
// @Summary      Eliminar alerta
// @Tags         alerts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la alerta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id} [delete]
func (h *AlertHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
