package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Donaciones-api/internal/interfaces/http"
)

// newAPI arma la API completa sobre el store en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	opts := inventory.Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) },
	}
	cache := inventory.NopCache{}
	serials := inventory.NewSerialAllocator(store, opts)
	repos := store.Repos()

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		Coordinator:   inventory.NewCoordinator(store, serials, cache, opts),
		Serials:       serials,
		Stock:         inventory.NewStockUseCase(store, repos, cache),
		Expiry:        inventory.NewExpiryUseCase(repos, cache, opts),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Stock),
		Logs:          inventory.NewLogUseCase(repos.Logs),
		Batches:       inventory.NewBatchQueryUseCase(repos),
		Parties:       inventory.NewPartyUseCase(repos, opts),
		Catalog:       inventory.NewCatalogUseCase(repos, opts),
		JWTSecret:     testJWTSecret,
		JWTIssuer:     testIssuer,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func donateAndReceive(t *testing.T, app *fiber.App, name, category string, qty int, expiry string) dto.DonationResponse {
	t.Helper()
	var don dto.DonationResponse
	status := call(t, app, http.MethodPost, "/api/donations", apphttp.RoleStaff, map[string]any{
		"donor_name": "Parroquia San José",
		"items": []map[string]any{
			{"item_name": name, "item_category": category, "quantity": qty, "expiry_date": expiry},
		},
	}, &don)
	require.Equal(t, http.StatusCreated, status)
	for _, it := range don.Items {
		var line dto.DonationLineItemResponse
		require.Equal(t, http.StatusOK,
			call(t, app, http.MethodPost, "/api/donations/items/"+it.ID+"/handle", apphttp.RoleStaff, nil, &line))
		assert.True(t, line.IsHandled)
	}
	return don
}

func TestAPI_EscenarioEntregaYAnulacion(t *testing.T) {
	app := newAPI(t)
	don := donateAndReceive(t, app, "arroz", "alimentos", 10, "")
	assert.Equal(t, "A00001", don.SerialNumber)

	var disb dto.DisbursementResponse
	status := call(t, app, http.MethodPost, "/api/disbursements", apphttp.RoleStaff, map[string]any{
		"recipient_name": "Comedor Norte",
		"items":          []map[string]any{{"item_name": "arroz", "item_category": "alimentos", "quantity": "7"}},
	}, &disb)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "B00001", disb.SerialNumber)

	var apiErr dto.ErrorResponse
	status = call(t, app, http.MethodPost, "/api/disbursements", apphttp.RoleStaff, map[string]any{
		"recipient_name": "Comedor Norte",
		"items":          []map[string]any{{"item_name": "arroz", "item_category": "alimentos", "quantity": 5}},
	}, &apiErr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", apiErr.Code)
	assert.Contains(t, apiErr.Message, "have 3, need 5")

	var list dto.StockListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/stock?name=ARR", apphttp.RoleViewer, nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(3), list.Items[0].TotalStock)

	assert.Equal(t, http.StatusNoContent,
		call(t, app, http.MethodDelete, "/api/disbursements/"+disb.ID, apphttp.RoleAdmin, nil, nil))

	var rec dto.StockResponse
	require.Equal(t, http.StatusOK,
		call(t, app, http.MethodGet, "/api/stock/"+list.Items[0].ID, apphttp.RoleViewer, nil, &rec))
	assert.Equal(t, int64(10), rec.TotalStock)

	var logs dto.InventoryLogListResponse
	require.Equal(t, http.StatusOK,
		call(t, app, http.MethodGet, "/api/inventory/logs?stock_id="+rec.ID, apphttp.RoleViewer, nil, &logs))
	require.Len(t, logs.Items, 3)
	assert.Equal(t, "disbursement B00001 deleted", logs.Items[0].Reason)
}

func TestAPI_Roles(t *testing.T) {
	app := newAPI(t)

	var apiErr dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/disbursements", apphttp.RoleViewer, map[string]any{
		"items": []map[string]any{{"item_name": "arroz", "item_category": "alimentos", "quantity": 1}},
	}, &apiErr)
	assert.Equal(t, http.StatusForbidden, status)

	status = call(t, app, http.MethodPost, "/api/inventory/adjustments", apphttp.RoleStaff, map[string]any{
		"stock_id": "x", "change_type": "INCREASE", "change_amount": 1, "reason": "conteo",
	}, &apiErr)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestAPI_Errores(t *testing.T) {
	app := newAPI(t)

	var apiErr dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound,
		call(t, app, http.MethodGet, "/api/disbursements/no-existe", apphttp.RoleViewer, nil, &apiErr))
	assert.Equal(t, "NOT_FOUND", apiErr.Code)

	assert.Equal(t, http.StatusBadRequest,
		call(t, app, http.MethodPost, "/api/disbursements", apphttp.RoleStaff, map[string]any{
			"items": []map[string]any{{"item_name": "arroz", "item_category": "alimentos", "quantity": 1.5}},
		}, &apiErr))
	assert.Equal(t, "VALIDATION", apiErr.Code)

	assert.Equal(t, http.StatusBadRequest,
		call(t, app, http.MethodPost, "/api/serials/OTRO", apphttp.RoleStaff, nil, &apiErr))

	assert.Equal(t, http.StatusBadRequest,
		call(t, app, http.MethodGet, "/api/inventory/logs?from=ayer", apphttp.RoleViewer, nil, &apiErr))

	var party dto.PartyResponse
	require.Equal(t, http.StatusCreated,
		call(t, app, http.MethodPost, "/api/donors", apphttp.RoleStaff, map[string]any{"name": "Banco de Alimentos"}, &party))
	assert.Equal(t, http.StatusConflict,
		call(t, app, http.MethodPost, "/api/donors", apphttp.RoleStaff, map[string]any{"name": "Banco de Alimentos"}, &apiErr))
	assert.Equal(t, "DUPLICATE", apiErr.Code)
}

func TestAPI_HandleItemDosVeces(t *testing.T) {
	app := newAPI(t)
	don := donateAndReceive(t, app, "leche", "lácteos", 4, "2024-06-20")

	var apiErr dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/donations/items/"+don.Items[0].ID+"/handle", apphttp.RoleStaff, nil, &apiErr)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", apiErr.Code)
}

func TestAPI_ReporteVencimientos(t *testing.T) {
	app := newAPI(t)
	donateAndReceive(t, app, "leche", "lácteos", 4, "2024-06-20")
	donateAndReceive(t, app, "atún", "enlatados", 2, "2024-06-01")
	donateAndReceive(t, app, "frijol", "granos", 3, "2025-01-01")

	var report dto.ExpiryReport
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/expiry?detail=true", apphttp.RoleViewer, nil, &report))
	assert.Equal(t, "2024-06-10", report.Today)
	require.Len(t, report.Expiring, 1)
	assert.Equal(t, "leche", report.Expiring[0].ItemName)
	require.Len(t, report.Expiring[0].Batches, 1)
	require.Len(t, report.Expired, 1)
	assert.Equal(t, "atún", report.Expired[0].ItemName)
}

func TestAPI_SerialesYCatalogo(t *testing.T) {
	app := newAPI(t)

	var serial dto.SerialResponse
	require.Equal(t, http.StatusCreated,
		call(t, app, http.MethodPost, "/api/serials/donation", apphttp.RoleStaff, nil, &serial))
	assert.Equal(t, "DONATION", serial.Type)
	assert.Equal(t, "A00001", serial.SerialNumber)

	var item dto.CatalogItemResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPut, "/api/catalog", apphttp.RoleAdmin, map[string]any{
		"item_name": "arroz", "item_category": "alimentos", "units": []string{"kg", "bulto"}, "default_unit": 1,
	}, &item))
	assert.Equal(t, "bulto", item.Default)

	var items []dto.CatalogItemResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/catalog", apphttp.RoleViewer, nil, &items))
	assert.Len(t, items, 1)
}

func TestAPI_ListadoVacioInformaPagina(t *testing.T) {
	app := newAPI(t)

	var body map[string]any
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/disbursements?limit=500", apphttp.RoleViewer, nil, &body))
	page, ok := body["page"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(100), page["limit"], "se acota al máximo")
	assert.Equal(t, float64(0), page["total"], "el total se informa aunque sea cero")

	var apiErr dto.ErrorResponse
	require.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/disbursements/no-existe", apphttp.RoleViewer, nil, &apiErr))
	assert.Equal(t, dto.CodeNotFound, apiErr.Code)
}
