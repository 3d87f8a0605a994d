package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos en memoria; el orden del slice es el orden de inserción.
type MovementRepo struct {
	store *Store
	work  *state
}

func (r *MovementRepo) Append(_ context.Context, movement *entity.StockMovement) error {
	if r.work == nil {
		return errReadOnly
	}
	r.work.movements = append(r.work.movements, detachMovement(movement))
	return nil
}

// detachMovement copia el movimiento sin compartir la memoria de sus textos con el llamador.
func detachMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	c.ID = strings.Clone(m.ID)
	c.StockID = strings.Clone(m.StockID)
	c.ProductID = strings.Clone(m.ProductID)
	c.WarehouseID = strings.Clone(m.WarehouseID)
	c.BatchNumber = strings.Clone(m.BatchNumber)
	c.ReferenceNumber = strings.Clone(m.ReferenceNumber)
	c.Reason = strings.Clone(m.Reason)
	c.Notes = strings.Clone(m.Notes)
	c.SourceWarehouseID = strings.Clone(m.SourceWarehouseID)
	c.DestinationWarehouseID = strings.Clone(m.DestinationWarehouseID)
	c.CreatedBy = strings.Clone(m.CreatedBy)
	return &c
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	r.store.view(r.work, func(st *state) {
		for _, m := range st.movements {
			if m.ID == id {
				c := *m
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.store.view(r.work, func(st *state) {
		for _, m := range st.movements {
			if matchMovement(m, filter) {
				c := *m
				out = append(out, &c)
			}
		}
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func matchMovement(m *entity.StockMovement, f repository.MovementFilter) bool {
	switch {
	case f.ProductID != "" && m.ProductID != f.ProductID:
		return false
	case f.WarehouseID != "" && m.WarehouseID != f.WarehouseID:
		return false
	case f.StockID != "" && m.StockID != f.StockID:
		return false
	case f.Type != "" && m.Type != f.Type:
		return false
	case f.ReferenceNumber != "" && m.ReferenceNumber != f.ReferenceNumber:
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && m.CreatedAt.After(*f.To):
		return false
	}
	return true
}
