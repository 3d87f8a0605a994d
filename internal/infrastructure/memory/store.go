// Package memory implementa el libro de stock en memoria: una sola transacción de escritura a la vez
// sobre una copia del estado, que se publica completa en el commit.
package memory

import (
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// errReadOnly se devuelve al escribir con repositorios obtenidos fuera de TxRunner.Run.
var errReadOnly = errors.New("memory: escritura fuera de una transacción")

type state struct {
	stocks    map[string]*entity.StockRecord
	movements []*entity.StockMovement
}

func newState() *state {
	return &state{stocks: make(map[string]*entity.StockRecord)}
}

// clone copia los registros de stock; los movimientos son inmutables y se comparten.
func (s *state) clone() *state {
	c := &state{
		stocks:    make(map[string]*entity.StockRecord, len(s.stocks)),
		movements: make([]*entity.StockMovement, len(s.movements), len(s.movements)+8),
	}
	for id, r := range s.stocks {
		c.stocks[id] = r.Clone()
	}
	copy(c.movements, s.movements)
	return c
}

// Store estado comprometido más los registros de productos y bodegas.
type Store struct {
	mu         sync.RWMutex
	committed  *state
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse

	slot        chan struct{}
	lockTimeout time.Duration
}

// NewStore crea un almacén vacío. lockTimeout acota la espera por el turno de escritura.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &Store{
		committed:   newState(),
		products:    make(map[string]*entity.Product),
		warehouses:  make(map[string]*entity.Warehouse),
		slot:        make(chan struct{}, 1),
		lockTimeout: lockTimeout,
	}
}

// AddProduct registra (o reemplaza) un producto del catálogo.
func (s *Store) AddProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *p
	s.products[p.ID] = &c
}

// AddWarehouse registra (o reemplaza) una bodega.
func (s *Store) AddWarehouse(w *entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *w
	s.warehouses[w.ID] = &c
}

// StockRepository repositorio de lectura sobre el estado comprometido.
func (s *Store) StockRepository() *StockRepo {
	return &StockRepo{store: s}
}

// MovementRepository repositorio de lectura sobre el estado comprometido.
func (s *Store) MovementRepository() *MovementRepo {
	return &MovementRepo{store: s}
}

// ProductRepository lectura del catálogo.
func (s *Store) ProductRepository() *ProductRepo {
	return &ProductRepo{store: s}
}

// WarehouseRepository lectura de bodegas.
func (s *Store) WarehouseRepository() *WarehouseRepo {
	return &WarehouseRepo{store: s}
}

// view ejecuta fn sobre el estado de la transacción si existe, si no sobre el comprometido con RLock.
func (s *Store) view(work *state, fn func(st *state)) {
	if work != nil {
		fn(work)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.committed)
}
