package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// StockLedgerUseCase operaciones que cambian cantidades de stock. Cada operación es una transacción:
// bloquea los registros (SELECT FOR UPDATE en orden de ID), los modifica, agrega los movimientos
// y hace Commit; ante cualquier error no queda nada escrito. Las alertas se emiten tras el commit.
type StockLedgerUseCase struct {
	txRunner TxRunner
	notifier AlertNotifier
	log      *logger.Logger
	now      Clock
}

// NewStockLedgerUseCase construye el caso de uso. notifier y log pueden ser nil.
func NewStockLedgerUseCase(txRunner TxRunner, notifier AlertNotifier, log *logger.Logger) *StockLedgerUseCase {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockLedgerUseCase{
		txRunner: txRunner,
		notifier: notifier,
		log:      log.Component("stock_ledger"),
		now:      time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo.
func (uc *StockLedgerUseCase) WithClock(c Clock) *StockLedgerUseCase {
	uc.now = c
	return uc
}

// ReceiveInput entrada de una recepción de mercancía (compra).
type ReceiveInput struct {
	ProductID       string
	WarehouseID     string
	BatchNumber     string // vacío = stock sin lote
	Quantity        int64
	UnitCost        decimal.Decimal
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
	SupplierBatch   string
	ReferenceNumber string
	Notes           string
	UserID          string
}

// AdjustInput corrección administrativa: fija la cantidad actual y opcionalmente reclasifica el estado.
type AdjustInput struct {
	StockID     string
	NewQuantity int64
	Status      *entity.StockStatus
	Reason      string
	Notes       string
	UserID      string
}

// SellInput venta de un producto en una bodega (asignación FEFO entre lotes).
type SellInput struct {
	ProductID       string
	WarehouseID     string
	Quantity        int64
	ReferenceNumber string // factura / orden
	Notes           string
	UserID          string
}

// TransferInput traslado entre bodegas. Si ReferenceNumber está vacío se genera uno.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
	ReferenceNumber string
	Notes           string
	UserID          string
}

// ReservationInput reserva o liberación sobre un registro concreto (un solo lote).
type ReservationInput struct {
	StockID         string
	Quantity        int64
	ReferenceNumber string
	Reason          string
	UserID          string
}

// ReturnInput devolución de cliente hacia un registro existente.
type ReturnInput struct {
	StockID         string
	Quantity        int64
	ReferenceNumber string
	Reason          string
	Notes           string
	UserID          string
}

// BatchWriteOffInput baja masiva de un lote (vencido o dañado).
type BatchWriteOffInput struct {
	BatchNumber string
	Reason      string
	UserID      string
}

// run ejecuta fn en una transacción y, si hubo commit, publica las alertas.
func (uc *StockLedgerUseCase) run(ctx context.Context, actor string, alerts bool, fn func(t *ledgerTx) error) (*MovementResult, error) {
	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		t := newLedgerTx(repos, uc.now(), actor)
		if err := fn(t); err != nil {
			return err
		}
		if alerts {
			if err := t.collectAlerts(ctx); err != nil {
				return err
			}
		}
		result = t.result
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(result.Alerts) > 0 {
		uc.notifier.Notify(result.Alerts...)
	}
	return result, nil
}

// Receive suma mercancía a (producto, bodega, lote), creando el registro si no existe.
// Actualiza el costo unitario si viene positivo y guarda la metadata del lote. Movimiento PURCHASE_IN.
func (uc *StockLedgerUseCase) Receive(ctx context.Context, in ReceiveInput) (*MovementResult, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, fmt.Errorf("%w: producto y bodega son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad recibida debe ser positiva", domain.ErrInvalidInput)
	}
	if in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	if in.ExpiryDate != nil && in.ManufactureDate != nil && in.ExpiryDate.Before(*in.ManufactureDate) {
		return nil, fmt.Errorf("%w: la fecha de vencimiento es anterior a la de fabricación", domain.ErrInvalidInput)
	}

	res, err := uc.run(ctx, in.UserID, true, func(t *ledgerTx) error {
		if _, err := t.requireProduct(ctx, in.ProductID); err != nil {
			return err
		}
		if _, err := t.requireWarehouse(ctx, in.WarehouseID); err != nil {
			return err
		}

		seed := &entity.StockRecord{
			ID:              uuid.New().String(),
			ProductID:       in.ProductID,
			WarehouseID:     in.WarehouseID,
			BatchNumber:     in.BatchNumber,
			UnitCost:        in.UnitCost,
			ManufactureDate: in.ManufactureDate,
			ExpiryDate:      in.ExpiryDate,
			SupplierBatch:   in.SupplierBatch,
			ReceivedDate:    t.now,
			Status:          entity.StockStatusGood,
			IsActive:        true,
			CreatedAt:       t.now,
			UpdatedAt:       t.now,
		}
		stock, _, err := t.repos.Stock.GetOrCreate(ctx, seed)
		if err != nil {
			return err
		}

		prevQty, prevReserved := stock.CurrentQuantity, stock.ReservedQuantity
		stock.CurrentQuantity += in.Quantity
		if in.UnitCost.IsPositive() {
			stock.UnitCost = in.UnitCost
		}
		if in.ExpiryDate != nil {
			stock.ExpiryDate = in.ExpiryDate
		}
		if in.ManufactureDate != nil {
			stock.ManufactureDate = in.ManufactureDate
		}
		if in.SupplierBatch != "" {
			stock.SupplierBatch = in.SupplierBatch
		}
		if in.Notes != "" {
			stock.Notes = in.Notes
		}
		_, err = t.write(ctx, stock, prevQty, prevReserved, entity.MovementTypePurchaseIn, movementMeta{
			Reference: in.ReferenceNumber,
			Notes:     in.Notes,
		})
		return err
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("product_id", in.ProductID).Str("warehouse_id", in.WarehouseID).Msg("recepción rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("warehouse_id", in.WarehouseID).
		Str("batch", in.BatchNumber).
		Int64("quantity", in.Quantity).
		Int64("new_quantity", res.Stock.CurrentQuantity).
		Msg("mercancía recibida")
	return res, nil
}

// Adjust fija la cantidad actual de un registro (corrección administrativa).
// Falla con ErrInvariantViolation si la nueva cantidad queda por debajo de lo reservado.
// Si nada cambia no se escribe movimiento.
func (uc *StockLedgerUseCase) Adjust(ctx context.Context, in AdjustInput) (*MovementResult, error) {
	if in.StockID == "" {
		return nil, fmt.Errorf("%w: stock_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.NewQuantity < 0 {
		return nil, fmt.Errorf("%w: la nueva cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, *in.Status)
	}

	res, err := uc.run(ctx, in.UserID, true, func(t *ledgerTx) error {
		stock, err := t.lockStock(ctx, in.StockID)
		if err != nil {
			return err
		}
		if in.NewQuantity < stock.ReservedQuantity {
			return fmt.Errorf("%w: stock %s tiene %d reservados, no se puede ajustar a %d",
				domain.ErrInvariantViolation, stock.ID, stock.ReservedQuantity, in.NewQuantity)
		}

		statusChanged := in.Status != nil && *in.Status != stock.Status
		if in.NewQuantity == stock.CurrentQuantity && !statusChanged {
			t.touch(stock)
			return nil
		}

		prevQty, prevReserved := stock.CurrentQuantity, stock.ReservedQuantity
		stock.CurrentQuantity = in.NewQuantity
		if statusChanged {
			stock.Status = *in.Status
		}
		typ := entity.MovementTypeAdjustmentIn
		if in.NewQuantity < prevQty {
			typ = entity.MovementTypeAdjustmentOut
		}
		_, err = t.write(ctx, stock, prevQty, prevReserved, typ, movementMeta{Reason: in.Reason, Notes: in.Notes})
		return err
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("stock_id", in.StockID).Msg("ajuste rechazado")
		return nil, err
	}
	uc.log.Info().Str("stock_id", in.StockID).Int64("new_quantity", in.NewQuantity).Str("reason", in.Reason).Msg("stock ajustado")
	return res, nil
}

// Sell descuenta quantity de (producto, bodega) tomando de los lotes en orden FEFO.
// Si el disponible no alcanza falla con ErrInsufficientStock sin modificar nada.
// Escribe un SALE_OUT por cada lote tocado.
func (uc *StockLedgerUseCase) Sell(ctx context.Context, in SellInput) (*MovementResult, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, fmt.Errorf("%w: producto y bodega son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad vendida debe ser positiva", domain.ErrInvalidInput)
	}

	res, err := uc.run(ctx, in.UserID, true, func(t *ledgerTx) error {
		if _, err := t.requireProduct(ctx, in.ProductID); err != nil {
			return err
		}
		if _, err := t.requireWarehouse(ctx, in.WarehouseID); err != nil {
			return err
		}
		records, err := t.repos.Stock.LockForAllocation(ctx, in.ProductID, in.WarehouseID)
		if err != nil {
			return err
		}
		plan := inventory.Allocate(records, in.Quantity)
		if !plan.Fulfilled() {
			return fmt.Errorf("%w: producto %s en bodega %s: solicitado %d, disponible %d",
				domain.ErrInsufficientStock, in.ProductID, in.WarehouseID, in.Quantity, plan.Allocated())
		}
		for _, a := range plan.Allocations {
			stock := a.Stock
			prevQty, prevReserved := stock.CurrentQuantity, stock.ReservedQuantity
			stock.CurrentQuantity -= a.Quantity
			if _, err := t.write(ctx, stock, prevQty, prevReserved, entity.MovementTypeSaleOut, movementMeta{
				Reference: in.ReferenceNumber,
				Notes:     in.Notes,
			}); err != nil {
				return err
			}
		}
		t.result.Allocations = plan.Allocations
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("product_id", in.ProductID).Int64("quantity", in.Quantity).Msg("venta rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("warehouse_id", in.WarehouseID).
		Int64("quantity", in.Quantity).
		Int("batches", len(res.Allocations)).
		Str("reference", in.ReferenceNumber).
		Msg("venta registrada")
	return res, nil
}

// Transfer mueve quantity de un producto entre bodegas, lote por lote (FEFO en el origen).
// El destino conserva lote, vencimiento, costo y fecha de recepción del origen.
// Escribe TRANSFER_OUT en el origen y TRANSFER_IN en el destino, enlazados por la referencia.
func (uc *StockLedgerUseCase) Transfer(ctx context.Context, in TransferInput) (*MovementResult, error) {
	if in.ProductID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return nil, fmt.Errorf("%w: producto, bodega origen y destino son obligatorios", domain.ErrInvalidInput)
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, fmt.Errorf("%w: la bodega origen y destino son la misma", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad a trasladar debe ser positiva", domain.ErrInvalidInput)
	}
	reference := in.ReferenceNumber
	if reference == "" {
		reference = "TRF-" + uuid.New().String()
	}

	res, err := uc.run(ctx, in.UserID, true, func(t *ledgerTx) error {
		if _, err := t.requireProduct(ctx, in.ProductID); err != nil {
			return err
		}
		if _, err := t.requireWarehouse(ctx, in.FromWarehouseID); err != nil {
			return err
		}
		if _, err := t.requireWarehouse(ctx, in.ToWarehouseID); err != nil {
			return err
		}

		// Un solo SELECT FOR UPDATE ordenado cubre origen y destino.
		records, err := t.repos.Stock.LockForAllocation(ctx, in.ProductID, in.FromWarehouseID, in.ToWarehouseID)
		if err != nil {
			return err
		}
		var source []*entity.StockRecord
		destByBatch := make(map[string]*entity.StockRecord)
		for _, r := range records {
			switch r.WarehouseID {
			case in.FromWarehouseID:
				source = append(source, r)
			case in.ToWarehouseID:
				destByBatch[r.BatchNumber] = r
			}
		}

		plan := inventory.Allocate(source, in.Quantity)
		if !plan.Fulfilled() {
			return fmt.Errorf("%w: producto %s en bodega %s: solicitado %d, disponible %d",
				domain.ErrInsufficientStock, in.ProductID, in.FromWarehouseID, in.Quantity, plan.Allocated())
		}

		meta := movementMeta{
			Reference:   reference,
			Notes:       in.Notes,
			Source:      in.FromWarehouseID,
			Destination: in.ToWarehouseID,
		}
		for _, a := range plan.Allocations {
			src := a.Stock
			prevQty, prevReserved := src.CurrentQuantity, src.ReservedQuantity
			src.CurrentQuantity -= a.Quantity
			if _, err := t.write(ctx, src, prevQty, prevReserved, entity.MovementTypeTransferOut, meta); err != nil {
				return err
			}

			dest := destByBatch[src.BatchNumber]
			if dest == nil {
				dest, _, err = t.repos.Stock.GetOrCreate(ctx, &entity.StockRecord{
					ID:              uuid.New().String(),
					ProductID:       src.ProductID,
					WarehouseID:     in.ToWarehouseID,
					BatchNumber:     src.BatchNumber,
					UnitCost:        src.UnitCost,
					ManufactureDate: src.ManufactureDate,
					ExpiryDate:      src.ExpiryDate,
					SupplierBatch:   src.SupplierBatch,
					ReceivedDate:    src.ReceivedDate,
					Status:          entity.StockStatusGood,
					IsActive:        true,
					CreatedAt:       t.now,
					UpdatedAt:       t.now,
				})
				if err != nil {
					return err
				}
				destByBatch[src.BatchNumber] = dest
			}
			if dest.Status != entity.StockStatusGood {
				if dest.CurrentQuantity > 0 {
					return fmt.Errorf("%w: el lote destino %s está en estado %s con existencias",
						domain.ErrInvariantViolation, dest.ID, dest.Status)
				}
				dest.Status = entity.StockStatusGood
			}
			if dest.UnitCost.IsZero() {
				dest.UnitCost = src.UnitCost
			}
			if dest.ExpiryDate == nil {
				dest.ExpiryDate = src.ExpiryDate
			}

			prevQty, prevReserved = dest.CurrentQuantity, dest.ReservedQuantity
			dest.CurrentQuantity += a.Quantity
			if _, err := t.write(ctx, dest, prevQty, prevReserved, entity.MovementTypeTransferIn, meta); err != nil {
				return err
			}
		}
		t.result.Allocations = plan.Allocations
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("product_id", in.ProductID).Int64("quantity", in.Quantity).Msg("traslado rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("from", in.FromWarehouseID).
		Str("to", in.ToWarehouseID).
		Int64("quantity", in.Quantity).
		Str("reference", reference).
		Msg("traslado registrado")
	return res, nil
}

// Reserve aparta quantity de un registro concreto. Requiere disponible suficiente en ese lote.
func (uc *StockLedgerUseCase) Reserve(ctx context.Context, in ReservationInput) (*MovementResult, error) {
	if in.StockID == "" {
		return nil, fmt.Errorf("%w: stock_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad a reservar debe ser positiva", domain.ErrInvalidInput)
	}

	res, err := uc.run(ctx, in.UserID, false, func(t *ledgerTx) error {
		stock, err := t.lockStock(ctx, in.StockID)
		if err != nil {
			return err
		}
		if stock.AvailableQuantity() < in.Quantity {
			return fmt.Errorf("%w: stock %s disponible %d, solicitado %d",
				domain.ErrInsufficientStock, stock.ID, stock.AvailableQuantity(), in.Quantity)
		}
		prevQty, prevReserved := stock.CurrentQuantity, stock.ReservedQuantity
		stock.ReservedQuantity += in.Quantity
		_, err = t.write(ctx, stock, prevQty, prevReserved, entity.MovementTypeReservation, movementMeta{
			Reference: in.ReferenceNumber,
			Reason:    in.Reason,
		})
		return err
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("stock_id", in.StockID).Int64("quantity", in.Quantity).Msg("reserva rechazada")
		return nil, err
	}
	uc.log.Info().Str("stock_id", in.StockID).Int64("quantity", in.Quantity).Msg("stock reservado")
	return res, nil
}

// ReleaseReservation libera quantity reservada de un registro. No puede liberar más de lo reservado.
func (uc *StockLedgerUseCase) ReleaseReservation(ctx context.Context, in ReservationInput) (*MovementResult, error) {
	if in.StockID == "" {
		return nil, fmt.Errorf("%w: stock_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad a liberar debe ser positiva", domain.ErrInvalidInput)
	}

	res, err := uc.run(ctx, in.UserID, false, func(t *ledgerTx) error {
		stock, err := t.lockStock(ctx, in.StockID)
		if err != nil {
			return err
		}
		if stock.ReservedQuantity < in.Quantity {
			return fmt.Errorf("%w: stock %s tiene %d reservados, no se pueden liberar %d",
				domain.ErrInvariantViolation, stock.ID, stock.ReservedQuantity, in.Quantity)
		}
		prevQty, prevReserved := stock.CurrentQuantity, stock.ReservedQuantity
		stock.ReservedQuantity -= in.Quantity
		_, err = t.write(ctx, stock, prevQty, prevReserved, entity.MovementTypeRelease, movementMeta{
			Reference: in.ReferenceNumber,
			Reason:    in.Reason,
		})
		return err
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("stock_id", in.StockID).Int64("quantity", in.Quantity).Msg("liberación rechazada")
		return nil, err
	}
	uc.log.Info().Str("stock_id", in.StockID).Int64("quantity", in.Quantity).Msg("reserva liberada")
	return res, nil
}

// Return reingresa unidades devueltas por un cliente a un registro existente (RETURN_IN).
func (uc *StockLedgerUseCase) Return(ctx context.Context, in ReturnInput) (*MovementResult, error) {
	if in.StockID == "" {
		return nil, fmt.Errorf("%w: stock_id es obligatorio", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad devuelta debe ser positiva", domain.ErrInvalidInput)
	}

	res, err := uc.run(ctx, in.UserID, true, func(t *ledgerTx) error {
		stock, err := t.lockStock(ctx, in.StockID)
		if err != nil {
			return err
		}
		prevQty, prevReserved := stock.CurrentQuantity, stock.ReservedQuantity
		stock.CurrentQuantity += in.Quantity
		_, err = t.write(ctx, stock, prevQty, prevReserved, entity.MovementTypeReturnIn, movementMeta{
			Reference: in.ReferenceNumber,
			Reason:    in.Reason,
			Notes:     in.Notes,
		})
		return err
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("stock_id", in.StockID).Msg("devolución rechazada")
		return nil, err
	}
	uc.log.Info().Str("stock_id", in.StockID).Int64("quantity", in.Quantity).Msg("devolución registrada")
	return res, nil
}

// MarkBatchExpired da de baja todos los registros activos del lote con existencias (EXPIRED_OUT).
func (uc *StockLedgerUseCase) MarkBatchExpired(ctx context.Context, in BatchWriteOffInput) (*MovementResult, error) {
	return uc.writeOffBatch(ctx, in, entity.StockStatusExpired, entity.MovementTypeExpiredOut)
}

// MarkBatchDamaged da de baja todos los registros activos del lote con existencias (DAMAGED_OUT).
func (uc *StockLedgerUseCase) MarkBatchDamaged(ctx context.Context, in BatchWriteOffInput) (*MovementResult, error) {
	return uc.writeOffBatch(ctx, in, entity.StockStatusDamaged, entity.MovementTypeDamagedOut)
}

// writeOffBatch deja en cero la cantidad de cada registro del lote, descarta sus reservas y fija el estado.
// Un lote sin registros activos es ErrNotFound; registros ya en cero se omiten.
func (uc *StockLedgerUseCase) writeOffBatch(
	ctx context.Context,
	in BatchWriteOffInput,
	status entity.StockStatus,
	typ entity.MovementType,
) (*MovementResult, error) {
	if in.BatchNumber == "" {
		return nil, fmt.Errorf("%w: número de lote obligatorio", domain.ErrInvalidInput)
	}

	res, err := uc.run(ctx, in.UserID, false, func(t *ledgerTx) error {
		records, err := t.repos.Stock.LockByBatch(ctx, in.BatchNumber)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("%w: lote %s", domain.ErrNotFound, in.BatchNumber)
		}
		for _, stock := range records {
			if stock.CurrentQuantity <= 0 {
				continue
			}
			prevQty, prevReserved := stock.CurrentQuantity, stock.ReservedQuantity
			stock.CurrentQuantity = 0
			stock.ReservedQuantity = 0
			stock.Status = status
			if _, err := t.write(ctx, stock, prevQty, prevReserved, typ, movementMeta{
				Reference: in.BatchNumber,
				Reason:    in.Reason,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("batch", in.BatchNumber).Msg("baja de lote rechazada")
		return nil, err
	}
	uc.log.Warn().
		Str("batch", in.BatchNumber).
		Str("status", string(status)).
		Int("records", len(res.Movements)).
		Msg("lote dado de baja")
	return res, nil
}

// Deactivate retira lógicamente un registro vacío (sin existencias ni reservas). No escribe movimiento.
func (uc *StockLedgerUseCase) Deactivate(ctx context.Context, stockID, userID string) (*entity.StockRecord, error) {
	if stockID == "" {
		return nil, fmt.Errorf("%w: stock_id es obligatorio", domain.ErrInvalidInput)
	}
	res, err := uc.run(ctx, userID, false, func(t *ledgerTx) error {
		stock, err := t.lockStock(ctx, stockID)
		if err != nil {
			return err
		}
		if stock.CurrentQuantity != 0 || stock.ReservedQuantity != 0 {
			return fmt.Errorf("%w: stock %s aún tiene %d unidades (%d reservadas)",
				domain.ErrInvariantViolation, stock.ID, stock.CurrentQuantity, stock.ReservedQuantity)
		}
		stock.IsActive = false
		stock.UpdatedAt = t.now
		if err := t.repos.Stock.Save(ctx, stock); err != nil {
			return err
		}
		t.touch(stock)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("stock_id", stockID).Str("user_id", userID).Msg("registro de stock desactivado")
	return res.Stock, nil
}
