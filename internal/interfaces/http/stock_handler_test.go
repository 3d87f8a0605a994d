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

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Inventario-ledger/pkg/jwt"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	store := memory.NewStore(time.Second)
	store.AddProduct(&entity.Product{ID: "prod-a", SKU: "SKU-A", Name: "Producto A", ReorderPoint: 10, MaxStockLevel: 500, IsActive: true})
	store.AddWarehouse(&entity.Warehouse{ID: "wh-1", Name: "Principal", IsActive: true})
	store.AddWarehouse(&entity.Warehouse{ID: "wh-2", Name: "Sucursal", IsActive: true})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:    inventory.NewStockLedgerUseCase(memory.NewTxRunner(store), nil, logger.Nop()),
		Queries:   inventory.NewStockQueryUseCase(store.StockRepository(), store.ProductRepository(), store.MovementRepository()),
		Movements: inventory.NewMovementQueryUseCase(store.MovementRepository()),
		Validator: testValidator(t),
	})
	return &apiClient{t: t, app: app}
}

// do envía la petición con el rol dado y decodifica la respuesta en out (si no es nil).
func (a *apiClient) do(method, path, role string, body any, out any) int {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(a.t, role))
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *apiClient) receive(batch string, qty int64, expiry string) dto.OperationResponse {
	a.t.Helper()
	var out dto.OperationResponse
	status := a.do(http.MethodPost, "/api/stock/receipts", pkgjwt.RoleBodeguero, map[string]any{
		"product_id":   "prod-a",
		"warehouse_id": "wh-1",
		"batch_number": batch,
		"quantity":     qty,
		"unit_cost":    "2.50",
		"expiry_date":  expiry,
	}, &out)
	require.Equal(a.t, http.StatusCreated, status)
	return out
}

func TestStockAPI_ReceiveYSell(t *testing.T) {
	api := newAPI(t)
	created := api.receive("L1", 40, "2099-01-20")
	require.NotNil(t, created.Stock)
	assert.Equal(t, int64(40), created.Stock.CurrentQuantity)
	assert.Equal(t, "2099-01-20", created.Stock.ExpiryDate)
	require.Len(t, created.Movements, 1)
	assert.Equal(t, string(entity.MovementTypePurchaseIn), created.Movements[0].Type)
	assert.Equal(t, testUserID, created.Movements[0].CreatedBy)

	var sold dto.OperationResponse
	status := api.do(http.MethodPost, "/api/stock/sales", pkgjwt.RoleVendedor, dto.SellRequest{
		ProductID: "prod-a", WarehouseID: "wh-1", Quantity: 35, ReferenceNumber: "FAC-1",
	}, &sold)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, sold.Movements, 1)
	assert.Equal(t, int64(-35), sold.Movements[0].Quantity)
	require.Len(t, sold.Alerts, 1)
	assert.Equal(t, string(entity.StockAlertLowStock), sold.Alerts[0].Type)

	var got dto.StockResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock/"+created.Stock.ID, pkgjwt.RoleVendedor, nil, &got))
	assert.Equal(t, int64(5), got.CurrentQuantity)
	assert.Equal(t, int64(5), got.AvailableQuantity)
}

func TestStockAPI_MapeoDeErrores(t *testing.T) {
	api := newAPI(t)
	created := api.receive("L1", 10, "")
	id := created.Stock.ID

	var errBody dto.ErrorResponse
	status := api.do(http.MethodPost, "/api/stock/sales", pkgjwt.RoleVendedor, dto.SellRequest{
		ProductID: "prod-a", WarehouseID: "wh-1", Quantity: 11,
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)

	status = api.do(http.MethodPost, "/api/stock/sales", pkgjwt.RoleVendedor, dto.SellRequest{
		ProductID: "prod-a", WarehouseID: "wh-1", Quantity: 0,
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)

	status = api.do(http.MethodPost, "/api/stock/sales", pkgjwt.RoleVendedor, dto.SellRequest{
		ProductID: "no-existe", WarehouseID: "wh-1", Quantity: 1,
	}, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errBody.Code)

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/stock/"+id+"/reservations", pkgjwt.RoleVendedor,
		dto.ReservationRequest{Quantity: 4}, nil))
	status = api.do(http.MethodPost, "/api/stock/"+id+"/adjustments", pkgjwt.RoleAdmin,
		dto.AdjustRequest{NewQuantity: 3, Reason: "conteo"}, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVARIANT_VIOLATION", errBody.Code)

	status = api.do(http.MethodPost, "/api/stock/receipts", pkgjwt.RoleBodeguero, map[string]any{
		"product_id": "prod-a", "warehouse_id": "wh-1", "quantity": 1, "expiry_date": "20-01-2025",
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)

	status = api.do(http.MethodGet, "/api/stock/no-existe", pkgjwt.RoleAdmin, nil, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStockAPI_PermisosPorRol(t *testing.T) {
	api := newAPI(t)
	created := api.receive("L1", 10, "")

	status := api.do(http.MethodPost, "/api/stock/receipts", pkgjwt.RoleVendedor, dto.ReceiveRequest{
		ProductID: "prod-a", WarehouseID: "wh-1", Quantity: 1,
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status = api.do(http.MethodDelete, "/api/stock/"+created.Stock.ID, pkgjwt.RoleBodeguero, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Con existencias no se puede desactivar.
	status = api.do(http.MethodDelete, "/api/stock/"+created.Stock.ID, pkgjwt.RoleAdmin, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/stock/"+created.Stock.ID+"/adjustments", pkgjwt.RoleAdmin,
		dto.AdjustRequest{NewQuantity: 0, Reason: "conteo"}, nil))
	var deactivated dto.StockResponse
	status = api.do(http.MethodDelete, "/api/stock/"+created.Stock.ID, pkgjwt.RoleAdmin, nil, &deactivated)
	assert.Equal(t, http.StatusOK, status)
	assert.False(t, deactivated.IsActive)
}

func TestStockAPI_TrasladoYConsultas(t *testing.T) {
	api := newAPI(t)
	api.receive("L1", 30, "2099-03-01")

	var moved dto.OperationResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/stock/transfers", pkgjwt.RoleBodeguero, dto.TransferRequest{
		ProductID: "prod-a", FromWarehouseID: "wh-1", ToWarehouseID: "wh-2", Quantity: 12,
	}, &moved))
	require.Len(t, moved.Movements, 2)
	ref := moved.Movements[0].ReferenceNumber
	require.NotEmpty(t, ref)

	var byRef dto.MovementListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/movements?reference_number="+ref, pkgjwt.RoleAdmin, nil, &byRef))
	assert.Len(t, byRef.Items, 2)

	var huge dto.MovementListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/movements?limit=1000000", pkgjwt.RoleAdmin, nil, &huge))
	assert.Equal(t, dto.MaxPageLimit, huge.Page.Limit)
	var hugeStock dto.StockListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock?limit=1000000", pkgjwt.RoleAdmin, nil, &hugeStock))
	assert.Equal(t, dto.MaxPageLimit, hugeStock.Page.Limit)

	var totals dto.ProductTotalsResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/products/prod-a/stock", pkgjwt.RoleVendedor, nil, &totals))
	assert.Equal(t, int64(30), totals.Quantity)
	assert.Equal(t, int64(0), totals.Reserved)
	assert.Equal(t, []string{"L1"}, totals.Batches)

	var avail dto.AvailabilityResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock/availability?product_id=prod-a&warehouse_id=wh-2&quantity=12", pkgjwt.RoleVendedor, nil, &avail))
	assert.True(t, avail.Available)
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock/availability?product_id=prod-a&quantity=31", pkgjwt.RoleVendedor, nil, &avail))
	assert.False(t, avail.Available)

	var list dto.StockListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock?product_id=prod-a", pkgjwt.RoleVendedor, nil, &list))
	assert.Len(t, list.Items, 2)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/stock?status=PERDIDO", pkgjwt.RoleVendedor, nil, &errBody))
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/movements?type=ROBO", pkgjwt.RoleVendedor, nil, &errBody))

	var rc dto.ReconciliationResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock/"+list.Items[0].ID+"/reconciliation", pkgjwt.RoleAdmin, nil, &rc))
	assert.True(t, rc.Balanced)

	var valuation dto.ValuationResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock/valuation", pkgjwt.RoleAdmin, nil, &valuation))
	assert.Equal(t, "75", valuation.Total.String())
}

func TestStockAPI_BajaDeLote(t *testing.T) {
	api := newAPI(t)
	api.receive("L9", 8, "2000-01-01")

	var expiring []dto.StockResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock/expiring?days=0", pkgjwt.RoleAdmin, nil, &expiring))
	require.Len(t, expiring, 1)

	var expired []dto.StockResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock/expired", pkgjwt.RoleAdmin, nil, &expired))
	require.Len(t, expired, 1)
	assert.Equal(t, "L9", expired[0].BatchNumber)

	var out dto.OperationResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/stock/batches/L9/expire", pkgjwt.RoleBodeguero,
		dto.BatchWriteOffRequest{Reason: "vencido"}, &out))
	require.Len(t, out.Movements, 1)
	assert.Equal(t, string(entity.MovementTypeExpiredOut), out.Movements[0].Type)
	assert.Equal(t, int64(-8), out.Movements[0].Quantity)
	assert.Equal(t, string(entity.StockStatusExpired), out.Records[0].Status)
}

func TestStockAPI_BajaDeLoteConservaReferenciaTrasOtrasPeticiones(t *testing.T) {
	api := newAPI(t)
	api.receive("LOTE-AAAA", 5, "2000-01-01")

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/stock/batches/LOTE-AAAA/expire", pkgjwt.RoleBodeguero, nil, nil))
	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/stock/batches/ZZZZ-ZZZZ", pkgjwt.RoleAdmin, nil, nil))
	}

	var list dto.MovementListResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/movements?type=EXPIRED_OUT", pkgjwt.RoleAdmin, nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "LOTE-AAAA", list.Items[0].ReferenceNumber)
	assert.Equal(t, "LOTE-AAAA", list.Items[0].BatchNumber)
}
