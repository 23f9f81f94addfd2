package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/application/dto"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain"
	"github.com/ConnectRajiv/Predictive-Reorder-System/internal/domain/entity"
	apphttp "github.com/ConnectRajiv/Predictive-Reorder-System/internal/interfaces/http"
	pkgjwt "github.com/ConnectRajiv/Predictive-Reorder-System/pkg/jwt"
)

type testEnv struct {
	app         *fiber.App
	products    *fakeProducts
	movements   *fakeMovements
	predictions *fakePredictions
	alerts      *fakeAlerts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		products:    newFakeProducts(),
		movements:   newFakeMovements(),
		predictions: &fakePredictions{},
		alerts: newFakeAlerts(&entity.Alert{
			ID: "a-1", ProductID: "p-1", Type: entity.AlertTypeLowStock,
			Message: "stock bajo", Status: entity.AlertStatusNew,
			CreatedAt: fixedNow, UpdatedAt: fixedNow,
		}),
	}
	env.app = fiber.New()
	apphttp.Router(env.app, apphttp.RouterDeps{
		ServiceName: "predictive-reorder",
		Products:    env.products,
		Register:    env.movements,
		Movements:   env.movements,
		Predictions: env.predictions,
		Alerts:      env.alerts,
		JWTSecret:   testJWTSecret,
		MetricsHandler: nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
			_, _ = w.Write([]byte("reorder_forecasts_total 1\n"))
		}),
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, role string, body any) *nethttp.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *nethttp.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Health y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_SinToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet, "/health", "", nil)
	body := decode[map[string]string](t, resp)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestMetrics_Montado(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "reorder_forecasts_total")
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet, "/api/products", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Products
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CrearYObtener(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, fiber.MethodPost, "/api/products", pkgjwt.RolePlanner, map[string]any{
		"sku": "SKU-1", "name": "Tornillo", "initial_stock": 25,
	})
	created := decode[dto.ProductResponse](t, resp)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "SKU-1", created.SKU)
	assert.Equal(t, "25", created.CurrentStock.String())

	resp = env.do(t, fiber.MethodGet, "/api/products/"+created.ID, pkgjwt.RoleViewer, nil)
	got := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Tornillo", got.Name)
}

func TestProducts_SKUDuplicado_Retorna409(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{"sku": "SKU-1", "name": "Tornillo"}
	resp := env.do(t, fiber.MethodPost, "/api/products", pkgjwt.RoleAdmin, body)
	resp.Body.Close()

	resp = env.do(t, fiber.MethodPost, "/api/products", pkgjwt.RoleAdmin, body)
	errResp := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errResp.Code)
}

func TestProducts_SinCamposRequeridos_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodPost, "/api/products", pkgjwt.RoleAdmin, map[string]any{"name": "Sin SKU"})
	errResp := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestProducts_ViewerNoPuedeCrear(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodPost, "/api/products", pkgjwt.RoleViewer, map[string]any{"sku": "X", "name": "Y"})
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProducts_NoExiste_Retorna404(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet, "/api/products/nope", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProducts_ForecastBajoDemanda(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet, "/api/products/p-9/forecast?days=14", pkgjwt.RoleViewer, nil)
	out := decode[dto.ForecastResponse](t, resp)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "p-9", out.ProductID)
	assert.Equal(t, 14, env.predictions.lastDays)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transactions
// ──────────────────────────────────────────────────────────────────────────────

func TestTransactions_Crear(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodPost, "/api/transactions", pkgjwt.RolePlanner, map[string]any{
		"product_id": "p-1", "type": "out", "quantity": "3", "reason": "sale",
	})
	out := decode[dto.MovementResponse](t, resp)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "out", out.Type)
	assert.Equal(t, testUserID, env.movements.last.UserID, "el usuario sale del token")
	assert.Equal(t, "3", env.movements.last.Quantity.String())
}

func TestTransactions_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{fmt.Errorf("%w: cantidad", domain.ErrInvalidInput), fiber.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("%w: producto", domain.ErrNotFound), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.ErrConcurrencyConflict, fiber.StatusConflict, "CONCURRENCY_CONFLICT"},
		{fmt.Errorf("boom"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			env := newTestEnv(t)
			env.movements.err = tc.err
			resp := env.do(t, fiber.MethodPost, "/api/transactions", pkgjwt.RolePlanner, map[string]any{
				"product_id": "p-1", "type": "out", "quantity": 1,
			})
			errResp := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, errResp.Code)
		})
	}
}

func TestTransactions_ListPasaFiltros(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet,
		"/api/transactions?product_id=p-1&type=out&start_date=2026-01-01&end_date=2026-01-31&limit=10",
		pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "p-1", env.movements.lastList.ProductID)
	assert.Equal(t, "out", env.movements.lastList.Type)
	assert.Equal(t, "2026-01-01", env.movements.lastList.StartDate)
	assert.Equal(t, 10, env.movements.lastList.Limit)
}

func TestTransactions_DeleteSoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.movements.stored["m-7"] = &dto.MovementResponse{ID: "m-7"}

	resp := env.do(t, fiber.MethodDelete, "/api/transactions/m-7", pkgjwt.RolePlanner, nil)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.do(t, fiber.MethodDelete, "/api/transactions/m-7", pkgjwt.RoleAdmin, nil)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = env.do(t, fiber.MethodGet, "/api/transactions/m-7", pkgjwt.RoleAdmin, nil)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Predictions
// ──────────────────────────────────────────────────────────────────────────────

func TestPredictions_Calculate(t *testing.T) {
	env := newTestEnv(t)
	env.predictions.calcResp = &dto.PredictionResponse{
		Forecast: dto.ForecastResponse{ProductID: "p-1", WindowDays: 30},
		Alerts:   []dto.AlertResponse{{ID: "a-9", Type: "low_stock"}},
	}

	resp := env.do(t, fiber.MethodPost, "/api/predictions/calculate/p-1", pkgjwt.RolePlanner, nil)
	out := decode[dto.PredictionResponse](t, resp)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "p-1", out.Forecast.ProductID)
	require.Len(t, out.Alerts, 1)
	assert.Equal(t, 0, env.predictions.lastDays, "sin days se usa la ventana por defecto")
}

func TestPredictions_Calculate_FalloAlGuardarDevuelveElPronostico(t *testing.T) {
	env := newTestEnv(t)
	env.predictions.calcResp = &dto.PredictionResponse{Forecast: dto.ForecastResponse{ProductID: "p-1"}}
	env.predictions.calcErr = fmt.Errorf("%w: guardar", domain.ErrPersistence)

	resp := env.do(t, fiber.MethodPost, "/api/predictions/calculate/p-1", pkgjwt.RolePlanner, nil)
	body := decode[map[string]any](t, resp)

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "PERSISTENCE", body["code"])
	forecast, ok := body["forecast"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p-1", forecast["product_id"])
}

func TestPredictions_Calculate_ProductoInexistente(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodPost, "/api/predictions/calculate/nope", pkgjwt.RolePlanner, nil)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPredictions_DaysNegativo_Retorna400(t *testing.T) {
	for _, days := range []string{"-3", "0", "abc", "7.5"} {
		t.Run(days, func(t *testing.T) {
			env := newTestEnv(t)
			resp := env.do(t, fiber.MethodPost, "/api/predictions/calculate?days="+days, pkgjwt.RolePlanner, nil)
			out := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION", out.Code)
			assert.Zero(t, env.predictions.lastDays, "no debe llegar al caso de uso")
		})
	}
}

func TestProducts_ForecastDaysInvalido_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet, "/api/products/p-1/forecast?days=abc", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPredictions_CalculateAll(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodPost, "/api/predictions/calculate?days=7", pkgjwt.RoleAdmin, nil)
	out := decode[dto.BatchPredictionResponse](t, resp)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, 7, env.predictions.lastDays)
}

func TestPredictions_ListByProduct_NoExiste(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet, "/api/predictions/product/nope", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPredictions_Report(t *testing.T) {
	env := newTestEnv(t)
	env.predictions.report = []byte("%PDF-1.3 fake")

	resp := env.do(t, fiber.MethodGet, "/api/predictions/report", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, "%PDF", string(raw[:4]))
}

// ──────────────────────────────────────────────────────────────────────────────
// Alerts
// ──────────────────────────────────────────────────────────────────────────────

func TestAlerts_ListPasaFiltros(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet, "/api/alerts?status=new&type=low_stock&product_id=p-1", pkgjwt.RoleViewer, nil)
	out := decode[dto.AlertListResponse](t, resp)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, entity.AlertStatusNew, env.alerts.lastFilter.Status)
	assert.Equal(t, entity.AlertTypeLowStock, env.alerts.lastFilter.Type)
	assert.Equal(t, "p-1", env.alerts.lastFilter.ProductID)
	assert.Equal(t, 50, env.alerts.lastFilter.Limit)
}

func TestAlerts_ListEstadoInvalido_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodGet, "/api/alerts?status=closed", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAlerts_CicloDeVida(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, fiber.MethodPatch, "/api/alerts/a-1", pkgjwt.RolePlanner, map[string]string{"status": "read"})
	out := decode[dto.AlertResponse](t, resp)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "read", out.Status)

	resp = env.do(t, fiber.MethodPatch, "/api/alerts/a-1", pkgjwt.RolePlanner, map[string]string{"status": "addressed"})
	out = decode[dto.AlertResponse](t, resp)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "addressed", out.Status)

	resp = env.do(t, fiber.MethodPatch, "/api/alerts/a-1", pkgjwt.RolePlanner, map[string]string{"status": "new"})
	errResp := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", errResp.Code)
}

func TestAlerts_EstadoDesconocido_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, fiber.MethodPatch, "/api/alerts/a-1", pkgjwt.RolePlanner, map[string]string{"status": "closed"})
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAlerts_CrearSistemaYBorrar(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, fiber.MethodPost, "/api/alerts", pkgjwt.RoleAdmin, map[string]string{"message": "mantenimiento"})
	out := decode[dto.AlertResponse](t, resp)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "system", out.Type)

	resp = env.do(t, fiber.MethodDelete, "/api/alerts/"+out.ID, pkgjwt.RoleAdmin, nil)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = env.do(t, fiber.MethodDelete, "/api/alerts/"+out.ID, pkgjwt.RoleAdmin, nil)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
