package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones del Store: toma el turno exclusivo (con espera acotada),
// trabaja sobre una copia y la publica si fn termina sin error.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn en una transacción. Si no obtiene el turno en lockTimeout devuelve ErrConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	timer := time.NewTimer(r.store.lockTimeout)
	defer timer.Stop()
	select {
	case r.store.slot <- struct{}{}:
	case <-timer.C:
		return fmt.Errorf("%w: tiempo de espera agotado por el bloqueo del stock", domain.ErrConflict)
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-r.store.slot }()

	r.store.mu.RLock()
	work := r.store.committed.clone()
	r.store.mu.RUnlock()

	repos := inventory.Repos{
		Stock:      &StockRepo{store: r.store, work: work},
		Movements:  &MovementRepo{store: r.store, work: work},
		Products:   &ProductRepo{store: r.store},
		Warehouses: &WarehouseRepo{store: r.store},
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	r.store.committed = work
	r.store.mu.Unlock()
	return nil
}
