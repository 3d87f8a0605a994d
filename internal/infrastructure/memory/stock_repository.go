package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo StockRepository en memoria. Con work == nil solo lee el estado comprometido.
// Siempre devuelve copias: los cambios se aplican únicamente con Save.
type StockRepo struct {
	store *Store
	work  *state
}

func (r *StockRepo) Get(_ context.Context, key entity.StockKey) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	r.store.view(r.work, func(st *state) {
		if s := findActive(st, key); s != nil {
			out = s.Clone()
		}
	})
	return out, nil
}

func (r *StockRepo) GetByID(_ context.Context, id string) (*entity.StockRecord, error) {
	var out *entity.StockRecord
	r.store.view(r.work, func(st *state) {
		if s, ok := st.stocks[id]; ok {
			out = s.Clone()
		}
	})
	return out, nil
}

// GetByIDForUpdate igual que GetByID: la transacción ya tiene el turno exclusivo.
func (r *StockRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	if r.work == nil {
		return nil, errReadOnly
	}
	return r.GetByID(ctx, id)
}

func (r *StockRepo) GetOrCreate(_ context.Context, seed *entity.StockRecord) (*entity.StockRecord, bool, error) {
	if r.work == nil {
		return nil, false, errReadOnly
	}
	if s := findActive(r.work, seed.Key()); s != nil {
		return s.Clone(), false, nil
	}
	s := seed.Clone()
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	s.CurrentQuantity, s.ReservedQuantity = 0, 0
	s.IsActive = true
	if s.Status == "" {
		s.Status = entity.StockStatusGood
	}
	r.work.stocks[s.ID] = s
	return s.Clone(), true, nil
}

func (r *StockRepo) LockForAllocation(_ context.Context, productID string, warehouseIDs ...string) ([]*entity.StockRecord, error) {
	if r.work == nil {
		return nil, errReadOnly
	}
	wanted := make(map[string]bool, len(warehouseIDs))
	for _, w := range warehouseIDs {
		wanted[w] = true
	}
	var out []*entity.StockRecord
	for _, s := range r.work.stocks {
		if s.IsActive && s.ProductID == productID && wanted[s.WarehouseID] {
			out = append(out, s.Clone())
		}
	}
	sortByID(out)
	return out, nil
}

func (r *StockRepo) LockByBatch(_ context.Context, batchNumber string) ([]*entity.StockRecord, error) {
	if r.work == nil {
		return nil, errReadOnly
	}
	var out []*entity.StockRecord
	for _, s := range r.work.stocks {
		if s.IsActive && batchNumber != "" && s.BatchNumber == batchNumber {
			out = append(out, s.Clone())
		}
	}
	sortByID(out)
	return out, nil
}

func (r *StockRepo) Save(_ context.Context, stock *entity.StockRecord) error {
	if r.work == nil {
		return errReadOnly
	}
	r.work.stocks[stock.ID] = stock.Clone()
	return nil
}

func (r *StockRepo) ListActive(_ context.Context, filter repository.StockFilter) ([]*entity.StockRecord, error) {
	var out []*entity.StockRecord
	r.store.view(r.work, func(st *state) {
		for _, s := range st.stocks {
			if matchStock(s, filter) {
				out = append(out, s.Clone())
			}
		}
	})
	sortByCreation(out)
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *StockRepo) ListLowStock(_ context.Context) ([]*entity.StockRecord, error) {
	r.store.mu.RLock()
	reorder := make(map[string]int64, len(r.store.products))
	for id, p := range r.store.products {
		reorder[id] = p.ReorderPoint
	}
	r.store.mu.RUnlock()

	var out []*entity.StockRecord
	r.store.view(r.work, func(st *state) {
		for _, s := range st.stocks {
			rp, ok := reorder[s.ProductID]
			if s.IsActive && ok && s.CurrentQuantity > 0 && s.CurrentQuantity <= rp {
				out = append(out, s.Clone())
			}
		}
	})
	sortByCreation(out)
	return out, nil
}

func (r *StockRepo) SumQuantity(_ context.Context, productID, warehouseID string) (int64, error) {
	var total int64
	r.store.view(r.work, func(st *state) {
		for _, s := range st.stocks {
			if s.IsActive && s.ProductID == productID && s.WarehouseID == warehouseID {
				total += s.CurrentQuantity
			}
		}
	})
	return total, nil
}

func (r *StockRepo) DistinctBatches(_ context.Context, productID string) ([]string, error) {
	set := make(map[string]struct{})
	r.store.view(r.work, func(st *state) {
		for _, s := range st.stocks {
			if s.IsActive && s.ProductID == productID && s.BatchNumber != "" {
				set[s.BatchNumber] = struct{}{}
			}
		}
	})
	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Strings(out)
	return out, nil
}

func findActive(st *state, key entity.StockKey) *entity.StockRecord {
	for _, s := range st.stocks {
		if s.IsActive && s.Key() == key {
			return s
		}
	}
	return nil
}

func matchStock(s *entity.StockRecord, f repository.StockFilter) bool {
	switch {
	case !s.IsActive:
		return false
	case f.ProductID != "" && s.ProductID != f.ProductID:
		return false
	case f.WarehouseID != "" && s.WarehouseID != f.WarehouseID:
		return false
	case f.BatchNumber != "" && s.BatchNumber != f.BatchNumber:
		return false
	case f.Status != "" && s.Status != f.Status:
		return false
	case f.OnlyAvailable && !s.Allocatable():
		return false
	case f.OnlyPositive && s.CurrentQuantity <= 0:
		return false
	case f.ExpiringBefore != nil && (s.ExpiryDate == nil || s.ExpiryDate.After(*f.ExpiringBefore)):
		return false
	}
	return true
}

func sortByID(records []*entity.StockRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
}

func sortByCreation(records []*entity.StockRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
