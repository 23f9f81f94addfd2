package dto

import "github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"

const dateLayout = "2006-01-02"

// ToForecastResponse convierte el pronóstico a su forma JSON.
func ToForecastResponse(r *entity.ForecastResult) ForecastResponse {
	out := ForecastResponse{
		ID:                      r.ID,
		ProductID:               r.ProductID,
		WindowDays:              r.WindowDays,
		AverageDailyConsumption: r.AverageDailyConsumption.Round(2),
		Trend: TrendDTO{
			Type:             string(r.Trend.Type),
			Slope:            r.Trend.Slope,
			PercentageChange: r.Trend.PercentageChange,
		},
		SuggestedReorderQuantity: r.SuggestedReorderQuantity,
		ComputedAt:               r.ComputedAt,
	}
	if r.PredictedStockoutDate != nil {
		d := r.PredictedStockoutDate.UTC().Format(dateLayout)
		out.PredictedStockoutDate = &d
	}
	return out
}

// ToForecastResponses convierte una lista de pronósticos.
func ToForecastResponses(rs []*entity.ForecastResult) []ForecastResponse {
	out := make([]ForecastResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, ToForecastResponse(r))
	}
	return out
}

// ToAlertResponse convierte una alerta.
func ToAlertResponse(a *entity.Alert) AlertResponse {
	return AlertResponse{
		ID:        a.ID,
		ProductID: a.ProductID,
		Type:      string(a.Type),
		Message:   a.Message,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ToAlertResponses convierte una lista de alertas.
func ToAlertResponses(as []*entity.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(as))
	for _, a := range as {
		out = append(out, ToAlertResponse(a))
	}
	return out
}

// ToMovementResponse convierte un movimiento.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:                m.ID,
		ProductID:         m.ProductID,
		Type:              m.Type,
		Quantity:          m.Quantity,
		Reason:            m.Reason,
		Notes:             m.Notes,
		DocumentReference: m.DocumentReference,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
	}
}

// ToProductResponse convierte un producto.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		UnitOfMeasure: p.UnitOfMeasure,
		Supplier: SupplierDTO{
			Name:        p.SupplierName,
			ContactInfo: p.SupplierContact,
			Email:       p.SupplierEmail,
		},
		CurrentStock: p.CurrentStock,
		ReorderPoint: p.ReorderPoint,
		SafetyStock:  p.SafetyStock,
		LeadTimeDays: p.LeadTimeDays,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
