package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

// MovementQueryUseCase historial del libro de movimientos (solo lectura).
type MovementQueryUseCase struct {
	movementRepo repository.StockMovementRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(movementRepo repository.StockMovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{movementRepo: movementRepo}
}

// GetByID obtiene un movimiento.
func (uc *MovementQueryUseCase) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return m, nil
}

// List movimientos según filtro, en orden de inserción.
func (uc *MovementQueryUseCase) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, filter.Type)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: paginación negativa", domain.ErrInvalidInput)
	}
	return uc.movementRepo.List(ctx, filter)
}

func (uc *MovementQueryUseCase) ByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: producto obligatorio", domain.ErrInvalidInput)
	}
	return uc.List(ctx, repository.MovementFilter{ProductID: productID, Limit: limit, Offset: offset})
}

func (uc *MovementQueryUseCase) ByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockMovement, error) {
	if warehouseID == "" {
		return nil, fmt.Errorf("%w: bodega obligatoria", domain.ErrInvalidInput)
	}
	return uc.List(ctx, repository.MovementFilter{WarehouseID: warehouseID, Limit: limit, Offset: offset})
}

func (uc *MovementQueryUseCase) ByType(ctx context.Context, typ entity.MovementType, limit, offset int) ([]*entity.StockMovement, error) {
	if typ == "" {
		return nil, fmt.Errorf("%w: tipo obligatorio", domain.ErrInvalidInput)
	}
	return uc.List(ctx, repository.MovementFilter{Type: typ, Limit: limit, Offset: offset})
}

// ByReference movimientos de una misma transacción externa (factura, orden, traslado).
func (uc *MovementQueryUseCase) ByReference(ctx context.Context, reference string) ([]*entity.StockMovement, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: referencia obligatoria", domain.ErrInvalidInput)
	}
	return uc.List(ctx, repository.MovementFilter{ReferenceNumber: reference})
}

// ByDateRange movimientos con created_at en [from, to].
func (uc *MovementQueryUseCase) ByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.List(ctx, repository.MovementFilter{From: &from, To: &to, Limit: limit, Offset: offset})
}

// History historial completo de un registro de stock.
func (uc *MovementQueryUseCase) History(ctx context.Context, stockID string) ([]*entity.StockMovement, error) {
	if stockID == "" {
		return nil, fmt.Errorf("%w: stock_id obligatorio", domain.ErrInvalidInput)
	}
	return uc.List(ctx, repository.MovementFilter{StockID: stockID})
}
