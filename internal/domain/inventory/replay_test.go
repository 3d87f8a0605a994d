package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
)

func TestReplay_ReconstruyeCantidades(t *testing.T) {
	movs := []*entity.StockMovement{
		{ID: "1", StockID: "s1", Type: entity.MovementTypePurchaseIn, Quantity: 100, PreviousQuantity: 0, NewQuantity: 100},
		{ID: "2", StockID: "s1", Type: entity.MovementTypeReservation, ReservedChange: 30, PreviousQuantity: 100, NewQuantity: 100},
		{ID: "3", StockID: "s2", Type: entity.MovementTypeTransferIn, Quantity: 5, PreviousQuantity: 0, NewQuantity: 5},
		{ID: "4", StockID: "s1", Type: entity.MovementTypeSaleOut, Quantity: -20, PreviousQuantity: 100, NewQuantity: 80},
		{ID: "5", StockID: "s1", Type: entity.MovementTypeRelease, ReservedChange: -10, PreviousQuantity: 80, NewQuantity: 80},
	}

	snaps, err := inventory.Replay(movs)
	require.NoError(t, err)
	assert.Equal(t, inventory.Snapshot{CurrentQuantity: 80, ReservedQuantity: 20}, snaps["s1"])
	assert.Equal(t, inventory.Snapshot{CurrentQuantity: 5}, snaps["s2"])
}

func TestReplay_DetectaHistorialRoto(t *testing.T) {
	movs := []*entity.StockMovement{
		{ID: "1", StockID: "s1", Quantity: 10, PreviousQuantity: 0, NewQuantity: 10},
		{ID: "2", StockID: "s1", Quantity: -5, PreviousQuantity: 8, NewQuantity: 3},
	}
	_, err := inventory.Replay(movs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))

	_, err = inventory.Replay([]*entity.StockMovement{{ID: "x", StockID: "s", Quantity: 4, PreviousQuantity: 0, NewQuantity: 3}})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
}
