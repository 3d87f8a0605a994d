package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre el stock (fuera de la transacción de escritura).
type StockQueryUseCase struct {
	stockRepo    repository.StockRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	now          Clock
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{
		stockRepo:    stockRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		now:          time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo.
func (uc *StockQueryUseCase) WithClock(c Clock) *StockQueryUseCase {
	uc.now = c
	return uc
}

// GetByID obtiene un registro de stock (activo o no).
func (uc *StockQueryUseCase) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	s, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: stock %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// List registros activos según filtro.
func (uc *StockQueryUseCase) List(ctx context.Context, filter repository.StockFilter) ([]*entity.StockRecord, error) {
	return uc.stockRepo.ListActive(ctx, filter)
}

// FindByProductAndWarehouse todos los lotes activos de un producto en una bodega.
func (uc *StockQueryUseCase) FindByProductAndWarehouse(ctx context.Context, productID, warehouseID string) ([]*entity.StockRecord, error) {
	if productID == "" || warehouseID == "" {
		return nil, fmt.Errorf("%w: producto y bodega son obligatorios", domain.ErrInvalidInput)
	}
	return uc.stockRepo.ListActive(ctx, repository.StockFilter{ProductID: productID, WarehouseID: warehouseID})
}

// FindByBatch registros activos de un número de lote (en todas las bodegas).
func (uc *StockQueryUseCase) FindByBatch(ctx context.Context, batchNumber string) ([]*entity.StockRecord, error) {
	if batchNumber == "" {
		return nil, fmt.Errorf("%w: número de lote obligatorio", domain.ErrInvalidInput)
	}
	return uc.stockRepo.ListActive(ctx, repository.StockFilter{BatchNumber: batchNumber})
}

// FindLowStock registros con 0 < cantidad <= punto de reorden del producto.
func (uc *StockQueryUseCase) FindLowStock(ctx context.Context) ([]*entity.StockRecord, error) {
	return uc.stockRepo.ListLowStock(ctx)
}

// FindExpiringWithin registros con existencias que vencen hasta hoy + days (incluye los ya vencidos).
func (uc *StockQueryUseCase) FindExpiringWithin(ctx context.Context, days int) ([]*entity.StockRecord, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days no puede ser negativo", domain.ErrInvalidInput)
	}
	threshold := startOfDay(uc.now()).AddDate(0, 0, days)
	return uc.stockRepo.ListActive(ctx, repository.StockFilter{ExpiringBefore: &threshold, OnlyPositive: true})
}

// FindExpired registros con existencias cuya fecha de vencimiento ya pasó (candidatos a MarkBatchExpired).
func (uc *StockQueryUseCase) FindExpired(ctx context.Context) ([]*entity.StockRecord, error) {
	records, err := uc.stockRepo.ListActive(ctx, repository.StockFilter{OnlyPositive: true})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	var out []*entity.StockRecord
	for _, r := range records {
		if r.IsExpired(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindAvailable registros GOOD con disponible > 0. productID y warehouseID vacíos no filtran.
func (uc *StockQueryUseCase) FindAvailable(ctx context.Context, productID, warehouseID string) ([]*entity.StockRecord, error) {
	return uc.stockRepo.ListActive(ctx, repository.StockFilter{
		ProductID:     productID,
		WarehouseID:   warehouseID,
		OnlyAvailable: true,
	})
}

// TotalQuantityByProduct Σ cantidad actual del producto en todas las bodegas.
func (uc *StockQueryUseCase) TotalQuantityByProduct(ctx context.Context, productID string) (int64, error) {
	records, err := uc.byProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return inventory.TotalQuantity(records), nil
}

// TotalReservedByProduct Σ reservado del producto en todas las bodegas.
func (uc *StockQueryUseCase) TotalReservedByProduct(ctx context.Context, productID string) (int64, error) {
	records, err := uc.byProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return inventory.TotalReserved(records), nil
}

// TotalAvailableByProduct Σ disponible (actual - reservado) del producto en todas las bodegas.
func (uc *StockQueryUseCase) TotalAvailableByProduct(ctx context.Context, productID string) (int64, error) {
	records, err := uc.byProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return inventory.TotalAvailable(records), nil
}

// CheckAvailability indica si una venta de quantity en (producto, bodega) se podría asignar hoy.
func (uc *StockQueryUseCase) CheckAvailability(ctx context.Context, productID, warehouseID string, quantity int64) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	records, err := uc.FindByProductAndWarehouse(ctx, productID, warehouseID)
	if err != nil {
		return false, err
	}
	return inventory.TotalAllocatable(records) >= quantity, nil
}

// CanFulfillOrder indica si el stock asignable del producto, sumando todas las bodegas, cubre quantity.
func (uc *StockQueryUseCase) CanFulfillOrder(ctx context.Context, productID string, quantity int64) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	records, err := uc.byProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	return inventory.TotalAllocatable(records) >= quantity, nil
}

// FindNeedingAttention registros en o bajo el punto de reorden, o que vencen dentro de days.
func (uc *StockQueryUseCase) FindNeedingAttention(ctx context.Context, days int) ([]*entity.StockRecord, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days no puede ser negativo", domain.ErrInvalidInput)
	}
	records, err := uc.stockRepo.ListActive(ctx, repository.StockFilter{})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	products := make(map[string]*entity.Product)
	var out []*entity.StockRecord
	for _, r := range records {
		p, ok := products[r.ProductID]
		if !ok {
			if p, err = uc.productRepo.GetByID(ctx, r.ProductID); err != nil {
				return nil, err
			}
			products[r.ProductID] = p
		}
		lowStock := p != nil && r.CurrentQuantity <= p.ReorderPoint
		if lowStock || r.IsExpiringWithin(days, now) {
			out = append(out, r)
		}
	}
	return out, nil
}

// DistinctBatches números de lote activos de un producto.
func (uc *StockQueryUseCase) DistinctBatches(ctx context.Context, productID string) ([]string, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: producto obligatorio", domain.ErrInvalidInput)
	}
	return uc.stockRepo.DistinctBatches(ctx, productID)
}

// Valuation reporte completo: total, por bodega y por producto.
func (uc *StockQueryUseCase) Valuation(ctx context.Context) (inventory.Valuation, error) {
	records, err := uc.stockRepo.ListActive(ctx, repository.StockFilter{})
	if err != nil {
		return inventory.Valuation{}, err
	}
	return inventory.Valuate(records), nil
}

// ValuationTotal Σ cantidad × costo unitario de todo el stock activo.
func (uc *StockQueryUseCase) ValuationTotal(ctx context.Context) (decimal.Decimal, error) {
	v, err := uc.Valuation(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Total, nil
}

// ValuationByWarehouse valor del stock activo de una bodega.
func (uc *StockQueryUseCase) ValuationByWarehouse(ctx context.Context, warehouseID string) (decimal.Decimal, error) {
	if warehouseID == "" {
		return decimal.Zero, fmt.Errorf("%w: bodega obligatoria", domain.ErrInvalidInput)
	}
	records, err := uc.stockRepo.ListActive(ctx, repository.StockFilter{WarehouseID: warehouseID})
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.Valuate(records).Total, nil
}

// ValuationByProduct valor del stock activo de un producto.
func (uc *StockQueryUseCase) ValuationByProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	records, err := uc.byProduct(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return inventory.Valuate(records).Total, nil
}

// Reconciliation compara el registro con lo que reconstruye su historial de movimientos.
type Reconciliation struct {
	Stock    *entity.StockRecord
	Replayed inventory.Snapshot
	Balanced bool
}

// Reconcile reproduce los movimientos de un registro y verifica que den su cantidad y reserva actuales.
func (uc *StockQueryUseCase) Reconcile(ctx context.Context, stockID string) (*Reconciliation, error) {
	stock, err := uc.GetByID(ctx, stockID)
	if err != nil {
		return nil, err
	}
	movements, err := uc.movementRepo.List(ctx, repository.MovementFilter{StockID: stockID})
	if err != nil {
		return nil, err
	}
	snapshots, err := inventory.Replay(movements)
	if err != nil {
		return nil, err
	}
	snap := snapshots[stockID]
	return &Reconciliation{
		Stock:    stock,
		Replayed: snap,
		Balanced: snap.CurrentQuantity == stock.CurrentQuantity && snap.ReservedQuantity == stock.ReservedQuantity,
	}, nil
}

func (uc *StockQueryUseCase) byProduct(ctx context.Context, productID string) ([]*entity.StockRecord, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: producto obligatorio", domain.ErrInvalidInput)
	}
	return uc.stockRepo.ListActive(ctx, repository.StockFilter{ProductID: productID})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
