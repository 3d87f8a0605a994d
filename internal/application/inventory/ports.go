package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Stock      repository.StockRepository
	Movements  repository.StockMovementRepository
	Products   repository.ProductRepository
	Warehouses repository.WarehouseRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback: ni el stock ni el libro de movimientos cambian.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// AlertNotifier recibe las señales de stock bajo / sobre-stock. No debe bloquear.
type AlertNotifier interface {
	Notify(alerts ...entity.StockAlert)
}

// NopNotifier descarta las alertas.
type NopNotifier struct{}

func (NopNotifier) Notify(...entity.StockAlert) {}

// Clock fuente de tiempo inyectable (tests).
type Clock func() time.Time
