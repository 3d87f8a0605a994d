package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// MovementFilter criterios del historial de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID       string
	WarehouseID     string
	StockID         string
	Type            entity.MovementType
	ReferenceNumber string
	From            *time.Time
	To              *time.Time
	Limit           int // 0 = sin límite
	Offset          int
}

// StockMovementRepository puerto del libro de movimientos (solo inserción y lectura).
type StockMovementRepository interface {
	Append(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// List devuelve los movimientos en orden de inserción (created_at, luego secuencia).
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
