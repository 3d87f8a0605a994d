package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// StockHandler operaciones y consultas del libro de stock (protegido).
type StockHandler struct {
	ledger  *inventory.StockLedgerUseCase
	queries *inventory.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *inventory.StockLedgerUseCase, queries *inventory.StockQueryUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, queries: queries}
}

func operationResponse(res *inventory.MovementResult) dto.OperationResponse {
	out := dto.OperationResponse{
		Records:   dto.StocksFromEntities(res.Records),
		Movements: dto.MovementsFromEntities(res.Movements),
		Alerts:    dto.AlertsFromEntities(res.Alerts),
	}
	if res.Stock != nil {
		s := dto.StockFromEntity(res.Stock)
		out.Stock = &s
	}
	return out
}

// Receive godoc
// @Summary      Recibir mercancía
// @Description  Suma cantidad a (producto, bodega, lote), creando el registro si no existe. Movimiento PURCHASE_IN.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "Recepción"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/receipts [post]
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	manufacture, err := dto.ParseDate(in.ManufactureDate)
	if err != nil {
		return badRequest(c, "VALIDATION", "manufacture_date debe tener formato YYYY-MM-DD")
	}
	expiry, err := dto.ParseDate(in.ExpiryDate)
	if err != nil {
		return badRequest(c, "VALIDATION", "expiry_date debe tener formato YYYY-MM-DD")
	}
	res, err := h.ledger.Receive(c.Context(), inventory.ReceiveInput{
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		BatchNumber:     in.BatchNumber,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		ManufactureDate: manufacture,
		ExpiryDate:      expiry,
		SupplierBatch:   in.SupplierBatch,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(operationResponse(res))
}

// Sell godoc
// @Summary      Registrar venta
// @Description  Descuenta stock GOOD de la bodega, lote por lote, empezando por el vencimiento más próximo.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SellRequest  true  "Venta"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/sales [post]
func (h *StockHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.ledger.Sell(c.Context(), inventory.SellInput{
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		Quantity:        in.Quantity,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(operationResponse(res))
}

// Transfer godoc
// @Summary      Trasladar entre bodegas
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "Traslado"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.ledger.Transfer(c.Context(), inventory.TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(operationResponse(res))
}

// Adjust godoc
// @Summary      Ajustar cantidad de un registro
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del registro"
// @Param        body  body  dto.AdjustRequest  true  "Nueva cantidad y estado opcional"
// @Success      200   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/adjustments [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	var status *entity.StockStatus
	if in.Status != nil {
		s := entity.StockStatus(*in.Status)
		status = &s
	}
	res, err := h.ledger.Adjust(c.Context(), inventory.AdjustInput{
		StockID:     c.Params("id"),
		NewQuantity: in.NewQuantity,
		Status:      status,
		Reason:      in.Reason,
		Notes:       in.Notes,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(operationResponse(res))
}

// Reserve godoc
// @Summary      Reservar stock de un registro
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del registro"
// @Param        body  body  dto.ReservationRequest  true  "Cantidad"
// @Success      200   {object}  dto.OperationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/reservations [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.ledger.Reserve(c.Context(), inventory.ReservationInput{
		StockID:         c.Params("id"),
		Quantity:        in.Quantity,
		ReferenceNumber: in.ReferenceNumber,
		Reason:          in.Reason,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(operationResponse(res))
}

// Release godoc
// @Summary      Liberar una reserva
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del registro"
// @Param        body  body  dto.ReservationRequest  true  "Cantidad"
// @Success      200   {object}  dto.OperationResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/releases [post]
func (h *StockHandler) Release(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.ledger.ReleaseReservation(c.Context(), inventory.ReservationInput{
		StockID:         c.Params("id"),
		Quantity:        in.Quantity,
		ReferenceNumber: in.ReferenceNumber,
		Reason:          in.Reason,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(operationResponse(res))
}

// Return godoc
// @Summary      Devolución de cliente
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del registro"
// @Param        body  body  dto.ReturnRequest  true  "Cantidad devuelta"
// @Success      201   {object}  dto.OperationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/returns [post]
func (h *StockHandler) Return(c *fiber.Ctx) error {
	var in dto.ReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	res, err := h.ledger.Return(c.Context(), inventory.ReturnInput{
		StockID:         c.Params("id"),
		Quantity:        in.Quantity,
		ReferenceNumber: in.ReferenceNumber,
		Reason:          in.Reason,
		Notes:           in.Notes,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(operationResponse(res))
}

// Deactivate godoc
// @Summary      Desactivar un registro (baja lógica)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Deactivate(c *fiber.Ctx) error {
	stock, err := h.ledger.Deactivate(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockFromEntity(stock))
}

// MarkBatchExpired godoc
// @Summary      Dar de baja un lote vencido
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        batch  path  string                    true   "Número de lote"
// @Param        body   body  dto.BatchWriteOffRequest  false  "Motivo"
// @Success      200    {object}  dto.OperationResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/stock/batches/{batch}/expire [post]
func (h *StockHandler) MarkBatchExpired(c *fiber.Ctx) error {
	return h.writeOff(c, h.ledger.MarkBatchExpired)
}

// MarkBatchDamaged godoc
// @Summary      Dar de baja un lote dañado
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        batch  path  string                    true   "Número de lote"
// @Param        body   body  dto.BatchWriteOffRequest  false  "Motivo"
// @Success      200    {object}  dto.OperationResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/stock/batches/{batch}/damage [post]
func (h *StockHandler) MarkBatchDamaged(c *fiber.Ctx) error {
	return h.writeOff(c, h.ledger.MarkBatchDamaged)
}

func (h *StockHandler) writeOff(c *fiber.Ctx, op func(ctx context.Context, in inventory.BatchWriteOffInput) (*inventory.MovementResult, error)) error {
	var in dto.BatchWriteOffRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	res, err := op(c.Context(), inventory.BatchWriteOffInput{
		BatchNumber: utils.CopyString(c.Params("batch")),
		Reason:      in.Reason,
		UserID:      GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(operationResponse(res))
}

// GetByID godoc
// @Summary      Obtener registro de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	stock, err := h.queries.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockFromEntity(stock))
}

// List godoc
// @Summary      Listar registros activos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Producto"
// @Param        warehouse_id    query  string  false  "Bodega"
// @Param        batch_number    query  string  false  "Lote"
// @Param        status          query  string  false  "GOOD, DAMAGED, EXPIRED..."
// @Param        only_available  query  bool    false  "Solo GOOD con disponible > 0"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	status := entity.StockStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return badRequest(c, "VALIDATION", "status desconocido")
	}
	list, err := h.queries.List(c.Context(), repository.StockFilter{
		ProductID:     c.Query("product_id"),
		WarehouseID:   c.Query("warehouse_id"),
		BatchNumber:   c.Query("batch_number"),
		Status:        status,
		OnlyAvailable: c.QueryBool("only_available"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockListResponse{
		Items: dto.StocksFromEntities(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// FindByBatch godoc
// @Summary      Registros de un lote
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        batch  path  string  true  "Número de lote"
// @Success      200    {array}  dto.StockResponse
// @Router       /api/stock/batches/{batch} [get]
func (h *StockHandler) FindByBatch(c *fiber.Ctx) error {
	list, err := h.queries.FindByBatch(c.Context(), c.Params("batch"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StocksFromEntities(list))
}

// Expired godoc
// @Summary      Registros con existencias y fecha de vencimiento pasada
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockResponse
// @Router       /api/stock/expired [get]
func (h *StockHandler) Expired(c *fiber.Ctx) error {
	list, err := h.queries.FindExpired(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StocksFromEntities(list))
}

// LowStock godoc
// @Summary      Registros en o bajo el punto de reorden
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.queries.FindLowStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StocksFromEntities(list))
}

// Expiring godoc
// @Summary      Registros que vencen dentro de N días
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Días"  default(30)
// @Success      200   {array}  dto.StockResponse
// @Router       /api/stock/expiring [get]
func (h *StockHandler) Expiring(c *fiber.Ctx) error {
	list, err := h.queries.FindExpiringWithin(c.Context(), c.QueryInt("days", 30))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StocksFromEntities(list))
}

// NeedingAttention godoc
// @Summary      Registros con stock bajo o por vencer
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Días"  default(30)
// @Success      200   {array}  dto.StockResponse
// @Router       /api/stock/attention [get]
func (h *StockHandler) NeedingAttention(c *fiber.Ctx) error {
	list, err := h.queries.FindNeedingAttention(c.Context(), c.QueryInt("days", 30))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StocksFromEntities(list))
}

// Available godoc
// @Summary      Registros con disponible para vender
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {array}  dto.StockResponse
// @Router       /api/stock/available [get]
func (h *StockHandler) Available(c *fiber.Ctx) error {
	list, err := h.queries.FindAvailable(c.Context(), c.Query("product_id"), c.Query("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StocksFromEntities(list))
}

// Availability godoc
// @Summary      ¿Se puede despachar una cantidad?
// @Description  Con warehouse_id verifica una bodega; sin él suma todas las bodegas.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        quantity      query  int     true   "Cantidad"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/availability [get]
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	quantity := int64(c.QueryInt("quantity", 0))
	if productID == "" {
		return badRequest(c, "VALIDATION", "product_id es requerido")
	}
	var ok bool
	var err error
	if warehouseID != "" {
		ok, err = h.queries.CheckAvailability(c.Context(), productID, warehouseID, quantity)
	} else {
		ok, err = h.queries.CanFulfillOrder(c.Context(), productID, quantity)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{ProductID: productID, WarehouseID: warehouseID, Quantity: quantity, Available: ok})
}

// ProductTotals godoc
// @Summary      Totales de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductTotalsResponse
// @Router       /api/products/{id}/stock [get]
func (h *StockHandler) ProductTotals(c *fiber.Ctx) error {
	productID := c.Params("id")
	total, err := h.queries.TotalQuantityByProduct(c.Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	reserved, err := h.queries.TotalReservedByProduct(c.Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	available, err := h.queries.TotalAvailableByProduct(c.Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	batches, err := h.queries.DistinctBatches(c.Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	if batches == nil {
		batches = []string{}
	}
	return c.JSON(dto.ProductTotalsResponse{ProductID: productID, Quantity: total, Reserved: reserved, Available: available, Batches: batches})
}

// Valuation godoc
// @Summary      Valorización del stock activo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValuationResponse
// @Router       /api/stock/valuation [get]
func (h *StockHandler) Valuation(c *fiber.Ctx) error {
	v, err := h.queries.Valuation(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ValuationResponse{Total: v.Total, ByWarehouse: v.ByWarehouse, ByProduct: v.ByProduct})
}

// Reconcile godoc
// @Summary      Conciliar un registro con su historial
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/reconciliation [get]
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	rc, err := h.queries.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReconciliationResponse{
		StockID:          rc.Stock.ID,
		CurrentQuantity:  rc.Stock.CurrentQuantity,
		ReservedQuantity: rc.Stock.ReservedQuantity,
		ReplayedQuantity: rc.Replayed.CurrentQuantity,
		ReplayedReserved: rc.Replayed.ReservedQuantity,
		Balanced:         rc.Balanced,
	})
}
