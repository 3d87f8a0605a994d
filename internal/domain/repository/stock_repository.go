package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// StockFilter criterios para listar registros de stock activos. Campos vacíos no filtran.
type StockFilter struct {
	ProductID      string
	WarehouseID    string
	BatchNumber    string
	Status         entity.StockStatus
	OnlyAvailable  bool       // status GOOD y current - reserved > 0
	OnlyPositive   bool       // current > 0
	ExpiringBefore *time.Time // expiry_date <= valor (excluye registros sin vencimiento)
	Limit          int
	Offset         int
}

// StockRepository puerto del almacén de registros de stock (producto, bodega, lote).
// Los métodos *ForUpdate y Lock* bloquean filas y solo tienen sentido dentro de una transacción;
// siempre bloquean en orden ascendente de ID para evitar interbloqueos.
// Las lecturas sin resultado devuelven (nil, nil), igual que el resto de repositorios.
type StockRepository interface {
	Get(ctx context.Context, key entity.StockKey) (*entity.StockRecord, error)
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error)

	// GetOrCreate devuelve (bloqueado) el registro activo con la clave de seed o lo crea con
	// cantidades en cero y la metadata de seed. Es la única vía de creación de registros.
	GetOrCreate(ctx context.Context, seed *entity.StockRecord) (*entity.StockRecord, bool, error)

	// LockForAllocation bloquea todos los registros activos del producto en las bodegas indicadas.
	LockForAllocation(ctx context.Context, productID string, warehouseIDs ...string) ([]*entity.StockRecord, error)
	// LockByBatch bloquea todos los registros activos de un número de lote.
	LockByBatch(ctx context.Context, batchNumber string) ([]*entity.StockRecord, error)

	Save(ctx context.Context, stock *entity.StockRecord) error

	ListActive(ctx context.Context, filter StockFilter) ([]*entity.StockRecord, error)
	// ListLowStock registros activos con 0 < current <= punto de reorden del producto.
	ListLowStock(ctx context.Context) ([]*entity.StockRecord, error)
	// SumQuantity total de CurrentQuantity activo de un producto en una bodega.
	SumQuantity(ctx context.Context, productID, warehouseID string) (int64, error)
	DistinctBatches(ctx context.Context, productID string) ([]string, error)
}
