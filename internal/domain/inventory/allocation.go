package inventory

import (
	"sort"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// Allocation cantidad a tomar de un registro de stock concreto.
type Allocation struct {
	Stock    *entity.StockRecord
	Quantity int64
}

// Plan resultado del motor de asignación. Remainder es lo que no se pudo cubrir (0 = completo).
type Plan struct {
	Requested   int64
	Allocations []Allocation
	Remainder   int64
}

// Fulfilled indica si el plan cubre toda la cantidad solicitada.
func (p Plan) Fulfilled() bool { return p.Remainder == 0 }

// Allocated total asignado entre todos los registros.
func (p Plan) Allocated() int64 { return p.Requested - p.Remainder }

// SortForAllocation ordena los registros FEFO/FIFO: vencimiento ascendente (sin vencimiento al final),
// luego fecha de recepción, fecha de creación e ID como desempate estable.
func SortForAllocation(records []*entity.StockRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case a.ExpiryDate != nil && b.ExpiryDate == nil:
			return true
		case a.ExpiryDate == nil && b.ExpiryDate != nil:
			return false
		case a.ExpiryDate != nil && b.ExpiryDate != nil && !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		if !a.ReceivedDate.Equal(b.ReceivedDate) {
			return a.ReceivedDate.Before(b.ReceivedDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// Allocate reparte requested entre los registros asignables (activos, GOOD, disponible > 0)
// tomando min(restante, disponible) de cada uno en orden FEFO/FIFO.
// No modifica los registros: solo produce el plan. requested <= 0 devuelve un plan vacío.
func Allocate(records []*entity.StockRecord, requested int64) Plan {
	plan := Plan{Requested: requested}
	if requested <= 0 {
		plan.Requested = 0
		return plan
	}

	candidates := make([]*entity.StockRecord, 0, len(records))
	for _, r := range records {
		if r != nil && r.Allocatable() {
			candidates = append(candidates, r)
		}
	}
	SortForAllocation(candidates)

	remaining := requested
	for _, r := range candidates {
		if remaining == 0 {
			break
		}
		take := min(remaining, r.AvailableQuantity())
		plan.Allocations = append(plan.Allocations, Allocation{Stock: r, Quantity: take})
		remaining -= take
	}
	plan.Remainder = remaining
	return plan
}
