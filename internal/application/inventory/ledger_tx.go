package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

// MovementResult registros y movimientos producidos por una operación del libro.
type MovementResult struct {
	Stock       *entity.StockRecord   // último registro modificado
	Records     []*entity.StockRecord // todos los registros tocados, en orden
	Allocations []inventory.Allocation
	Movements   []*entity.StockMovement
	Alerts      []entity.StockAlert
}

type movementMeta struct {
	Reference   string
	Reason      string
	Notes       string
	Source      string
	Destination string
}

type productWarehouse struct {
	productID   string
	warehouseID string
}

// ledgerTx estado de una operación dentro de su transacción: repos, actor, hora y deltas por
// (producto, bodega) para calcular alertas antes del commit.
type ledgerTx struct {
	repos  Repos
	now    time.Time
	actor  string
	result *MovementResult
	seen   map[string]int
	deltas map[productWarehouse]int64
	order  []productWarehouse
}

func newLedgerTx(repos Repos, now time.Time, actor string) *ledgerTx {
	return &ledgerTx{
		repos:  repos,
		now:    now,
		actor:  actor,
		result: &MovementResult{},
		seen:   make(map[string]int),
		deltas: make(map[productWarehouse]int64),
	}
}

func (t *ledgerTx) requireProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := t.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

func (t *ledgerTx) requireWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	w, err := t.repos.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("%w: bodega %s", domain.ErrNotFound, id)
	}
	return w, nil
}

// lockStock bloquea un registro activo por ID.
func (t *ledgerTx) lockStock(ctx context.Context, id string) (*entity.StockRecord, error) {
	s, err := t.repos.Stock.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || !s.IsActive {
		return nil, fmt.Errorf("%w: stock %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// write valida invariantes, persiste el registro y agrega el movimiento que documenta el cambio
// desde (prevQty, prevReserved). Ambos quedan en la misma transacción.
func (t *ledgerTx) write(
	ctx context.Context,
	stock *entity.StockRecord,
	prevQty, prevReserved int64,
	typ entity.MovementType,
	meta movementMeta,
) (*entity.StockMovement, error) {
	if err := stock.CheckInvariants(); err != nil {
		return nil, err
	}
	stock.UpdatedAt = t.now
	if err := t.repos.Stock.Save(ctx, stock); err != nil {
		return nil, err
	}

	reason := meta.Reason
	if reason == "" {
		reason = typ.Description()
	}
	mov := &entity.StockMovement{
		ID:                     uuid.New().String(),
		StockID:                stock.ID,
		ProductID:              stock.ProductID,
		WarehouseID:            stock.WarehouseID,
		BatchNumber:            stock.BatchNumber,
		Type:                   typ,
		Quantity:               stock.CurrentQuantity - prevQty,
		ReservedChange:         stock.ReservedQuantity - prevReserved,
		PreviousQuantity:       prevQty,
		NewQuantity:            stock.CurrentQuantity,
		UnitCost:               stock.UnitCost,
		ReferenceNumber:        meta.Reference,
		Reason:                 reason,
		Notes:                  meta.Notes,
		SourceWarehouseID:      meta.Source,
		DestinationWarehouseID: meta.Destination,
		CreatedBy:              t.actor,
		CreatedAt:              t.now,
	}
	if err := t.repos.Movements.Append(ctx, mov); err != nil {
		return nil, err
	}

	t.touch(stock)
	t.result.Movements = append(t.result.Movements, mov)
	if mov.Quantity != 0 {
		k := productWarehouse{stock.ProductID, stock.WarehouseID}
		if _, ok := t.deltas[k]; !ok {
			t.order = append(t.order, k)
		}
		t.deltas[k] += mov.Quantity
	}
	return mov, nil
}

// touch registra el registro en el resultado sin escribir movimiento.
func (t *ledgerTx) touch(stock *entity.StockRecord) {
	if i, ok := t.seen[stock.ID]; ok {
		t.result.Records[i] = stock
	} else {
		t.seen[stock.ID] = len(t.result.Records)
		t.result.Records = append(t.result.Records, stock)
	}
	t.result.Stock = stock
}

// collectAlerts evalúa los umbrales de cada (producto, bodega) con cambio neto de cantidad.
// El total posterior se lee dentro de la transacción, así que ya incluye las escrituras propias.
func (t *ledgerTx) collectAlerts(ctx context.Context) error {
	for _, k := range t.order {
		delta := t.deltas[k]
		if delta == 0 {
			continue
		}
		product, err := t.repos.Products.GetByID(ctx, k.productID)
		if err != nil {
			return err
		}
		after, err := t.repos.Stock.SumQuantity(ctx, k.productID, k.warehouseID)
		if err != nil {
			return err
		}
		t.result.Alerts = append(t.result.Alerts,
			inventory.CrossedThresholds(product, k.warehouseID, after-delta, after, t.now)...)
	}
	return nil
}
