package inventory

import (
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Valuation valorización del stock activo (Σ CurrentQuantity × UnitCost).
type Valuation struct {
	Total       decimal.Decimal
	ByWarehouse map[string]decimal.Decimal
	ByProduct   map[string]decimal.Decimal
}

// Valuate agrega el valor de los registros activos. Función pura.
func Valuate(records []*entity.StockRecord) Valuation {
	v := Valuation{
		Total:       decimal.Zero,
		ByWarehouse: make(map[string]decimal.Decimal),
		ByProduct:   make(map[string]decimal.Decimal),
	}
	for _, r := range records {
		if r == nil || !r.IsActive {
			continue
		}
		value := r.Value()
		v.Total = v.Total.Add(value)
		v.ByWarehouse[r.WarehouseID] = v.ByWarehouse[r.WarehouseID].Add(value)
		v.ByProduct[r.ProductID] = v.ByProduct[r.ProductID].Add(value)
	}
	return v
}

// TotalQuantity suma CurrentQuantity de los registros activos.
func TotalQuantity(records []*entity.StockRecord) int64 {
	var total int64
	for _, r := range records {
		if r != nil && r.IsActive {
			total += r.CurrentQuantity
		}
	}
	return total
}

// TotalReserved suma ReservedQuantity de los registros activos.
func TotalReserved(records []*entity.StockRecord) int64 {
	var total int64
	for _, r := range records {
		if r != nil && r.IsActive {
			total += r.ReservedQuantity
		}
	}
	return total
}

// TotalAvailable suma AvailableQuantity de los registros activos.
func TotalAvailable(records []*entity.StockRecord) int64 {
	var total int64
	for _, r := range records {
		if r != nil && r.IsActive {
			total += r.AvailableQuantity()
		}
	}
	return total
}

// TotalAllocatable suma lo que el motor de asignación podría tomar (solo registros GOOD).
func TotalAllocatable(records []*entity.StockRecord) int64 {
	var total int64
	for _, r := range records {
		if r != nil && r.Allocatable() {
			total += r.AvailableQuantity()
		}
	}
	return total
}
