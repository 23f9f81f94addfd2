package dto

import "time"

// AlertListRequest filtros de GET /api/alerts.
type AlertListRequest struct {
	Status    string `query:"status"`
	Type      string `query:"type"`
	ProductID string `query:"product_id"`
	PageRequest
}

// UpdateAlertStatusRequest body para PATCH /api/alerts/:id.
type UpdateAlertStatusRequest struct {
	Status string `json:"status"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AlertListResponse lista paginada de alertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
