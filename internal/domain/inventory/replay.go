package inventory

import (
	"fmt"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Snapshot cantidades reconstruidas de un registro a partir de su historial.
type Snapshot struct {
	CurrentQuantity  int64
	ReservedQuantity int64
}

// Replay reconstruye las cantidades de cada StockRecord sumando los deltas de sus movimientos
// en el orden dado (orden de inserción). Falla si algún movimiento no es consistente consigo mismo
// o con el anterior del mismo registro.
func Replay(movements []*entity.StockMovement) (map[string]Snapshot, error) {
	out := make(map[string]Snapshot)
	for _, m := range movements {
		if !m.Consistent() {
			return nil, fmt.Errorf("%w: movimiento %s: %d -> %d no corresponde al delta %d",
				domain.ErrInvariantViolation, m.ID, m.PreviousQuantity, m.NewQuantity, m.Quantity)
		}
		snap := out[m.StockID]
		if snap.CurrentQuantity != m.PreviousQuantity {
			return nil, fmt.Errorf("%w: movimiento %s parte de %d pero el historial lleva %d",
				domain.ErrInvariantViolation, m.ID, m.PreviousQuantity, snap.CurrentQuantity)
		}
		snap.CurrentQuantity += m.Quantity
		snap.ReservedQuantity += m.ReservedChange
		out[m.StockID] = snap
	}
	return out, nil
}
