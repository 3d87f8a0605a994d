package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

func TestValuate_AgrupaPorBodegaYProducto(t *testing.T) {
	a := lot("A", 10, 0, nil, received)
	a.UnitCost = decimal.RequireFromString("5.00")
	b := lot("B", 4, 2, nil, received)
	b.WarehouseID = "wh-2"
	b.UnitCost = decimal.RequireFromString("2.50")
	c := lot("C", 3, 0, nil, received)
	c.ProductID = "prod-b"
	c.UnitCost = decimal.RequireFromString("1.00")
	retired := lot("Z", 100, 0, nil, received)
	retired.IsActive = false
	retired.UnitCost = decimal.RequireFromString("99")

	v := inventory.Valuate([]*entity.StockRecord{a, b, c, retired})

	assert.True(t, decimal.RequireFromString("63").Equal(v.Total), v.Total.String())
	assert.True(t, decimal.RequireFromString("53").Equal(v.ByWarehouse["wh-1"]))
	assert.True(t, decimal.RequireFromString("10").Equal(v.ByWarehouse["wh-2"]))
	assert.True(t, decimal.RequireFromString("60").Equal(v.ByProduct["prod-a"]))
	assert.True(t, decimal.RequireFromString("3").Equal(v.ByProduct["prod-b"]))

	records := []*entity.StockRecord{a, b, c, retired}
	assert.Equal(t, int64(17), inventory.TotalQuantity(records))
	assert.Equal(t, int64(2), inventory.TotalReserved(records))
	assert.Equal(t, int64(15), inventory.TotalAvailable(records))
}
