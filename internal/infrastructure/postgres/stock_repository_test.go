package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// startPostgres levanta un contenedor PostgreSQL con el esquema migrado.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("ledger"),
		tcpostgres.WithPassword("ledger"),
		tcpostgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminar contenedor: %v", err)
		}
	})
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	// Idempotente.
	require.NoError(t, postgres.Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `
		INSERT INTO products (id, sku, name, reorder_point, max_stock_level) VALUES
			('prod-a', 'SKU-A', 'Producto A', 10, 500),
			('prod-b', 'SKU-B', 'Producto B', 0, 0);
		INSERT INTO warehouses (id, name) VALUES ('wh-1', 'Principal'), ('wh-2', 'Sucursal');`)
	require.NoError(t, err)
	return pool
}

func TestPostgresLedger(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()
	log := logger.Nop()
	now := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	runner := postgres.NewTxRunner(pool, 2*time.Second, 5, log)
	ledger := inventory.NewStockLedgerUseCase(runner, nil, log).WithClock(clock)
	queries := inventory.NewStockQueryUseCase(
		postgres.NewStockRepository(pool), postgres.NewProductRepository(pool), postgres.NewStockMovementRepository(pool),
	).WithClock(clock)
	movements := inventory.NewMovementQueryUseCase(postgres.NewStockMovementRepository(pool))

	expiry := func(d int) *time.Time {
		v := time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	t.Run("Receive crea y luego acumula sobre el mismo registro", func(t *testing.T) {
		first, err := ledger.Receive(ctx, inventory.ReceiveInput{
			ProductID: "prod-a", WarehouseID: "wh-1", BatchNumber: "L1", Quantity: 40,
			UnitCost: decimal.NewFromInt(2), ExpiryDate: expiry(20), UserID: "u1",
		})
		require.NoError(t, err)
		second, err := ledger.Receive(ctx, inventory.ReceiveInput{
			ProductID: "prod-a", WarehouseID: "wh-1", BatchNumber: "L1", Quantity: 10, UserID: "u1",
		})
		require.NoError(t, err)

		assert.Equal(t, first.Stock.ID, second.Stock.ID)
		assert.Equal(t, int64(50), second.Stock.CurrentQuantity)
		assert.True(t, second.Stock.UnitCost.Equal(decimal.NewFromInt(2)))
		require.NotNil(t, second.Stock.ExpiryDate)
		assert.True(t, second.Stock.ExpiryDate.Equal(*expiry(20)))

		stored, err := queries.GetByID(ctx, first.Stock.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), stored.CurrentQuantity)
		assert.Equal(t, entity.StockStatusGood, stored.Status)
	})

	t.Run("Sell asigna por vencimiento más próximo", func(t *testing.T) {
		_, err := ledger.Receive(ctx, inventory.ReceiveInput{
			ProductID: "prod-a", WarehouseID: "wh-1", BatchNumber: "L0", Quantity: 5,
			UnitCost: decimal.NewFromInt(3), ExpiryDate: expiry(5),
		})
		require.NoError(t, err)

		res, err := ledger.Sell(ctx, inventory.SellInput{
			ProductID: "prod-a", WarehouseID: "wh-1", Quantity: 8, ReferenceNumber: "FAC-1",
		})
		require.NoError(t, err)
		require.Len(t, res.Movements, 2)
		assert.Equal(t, "L0", res.Movements[0].BatchNumber)
		assert.Equal(t, int64(-5), res.Movements[0].Quantity)
		assert.Equal(t, "L1", res.Movements[1].BatchNumber)
		assert.Equal(t, int64(-3), res.Movements[1].Quantity)

		list, err := movements.ByReference(ctx, "FAC-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, m := range list {
			assert.Equal(t, entity.MovementTypeSaleOut, m.Type)
			assert.True(t, m.Consistent())
		}
	})

	t.Run("Sell sin stock suficiente no escribe nada", func(t *testing.T) {
		before, err := movements.ByProduct(ctx, "prod-a", 0, 0)
		require.NoError(t, err)

		_, err = ledger.Sell(ctx, inventory.SellInput{ProductID: "prod-a", WarehouseID: "wh-1", Quantity: 10_000})
		require.ErrorIs(t, err, domain.ErrInsufficientStock)

		after, err := movements.ByProduct(ctx, "prod-a", 0, 0)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("Transfer mueve entre bodegas con la misma referencia", func(t *testing.T) {
		res, err := ledger.Transfer(ctx, inventory.TransferInput{
			ProductID: "prod-a", FromWarehouseID: "wh-1", ToWarehouseID: "wh-2", Quantity: 7,
		})
		require.NoError(t, err)
		require.NotEmpty(t, res.Movements)
		ref := res.Movements[0].ReferenceNumber
		assert.NotEmpty(t, ref)

		list, err := movements.ByReference(ctx, ref)
		require.NoError(t, err)
		var in, out int64
		for _, m := range list {
			switch m.Type {
			case entity.MovementTypeTransferIn:
				in += m.Quantity
				assert.Equal(t, "wh-2", m.WarehouseID)
			case entity.MovementTypeTransferOut:
				out += m.Quantity
				assert.Equal(t, "wh-1", m.WarehouseID)
			}
		}
		assert.Equal(t, int64(7), in)
		assert.Equal(t, int64(-7), out)

		total, err := queries.TotalQuantityByProduct(ctx, "prod-a")
		require.NoError(t, err)
		assert.Equal(t, int64(47), total)
	})

	t.Run("Reserve y Release respetan la cantidad disponible", func(t *testing.T) {
		recs, err := queries.FindByProductAndWarehouse(ctx, "prod-a", "wh-1")
		require.NoError(t, err)
		var target *entity.StockRecord
		for _, rec := range recs {
			if rec.AvailableQuantity() >= 2 {
				target = rec
				break
			}
		}
		require.NotNil(t, target)

		_, err = ledger.Reserve(ctx, inventory.ReservationInput{StockID: target.ID, Quantity: target.AvailableQuantity() + 1})
		require.ErrorIs(t, err, domain.ErrInsufficientStock)

		res, err := ledger.Reserve(ctx, inventory.ReservationInput{StockID: target.ID, Quantity: 2, ReferenceNumber: "ORD-9"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Stock.ReservedQuantity)

		_, err = ledger.ReleaseReservation(ctx, inventory.ReservationInput{StockID: target.ID, Quantity: 3})
		require.ErrorIs(t, err, domain.ErrInvariantViolation)

		res, err = ledger.ReleaseReservation(ctx, inventory.ReservationInput{StockID: target.ID, Quantity: 2})
		require.NoError(t, err)
		assert.Zero(t, res.Stock.ReservedQuantity)
	})

	t.Run("el historial reproduce la cantidad actual", func(t *testing.T) {
		recs, err := queries.FindByBatch(ctx, "L1")
		require.NoError(t, err)
		for _, rec := range recs {
			rc, err := queries.Reconcile(ctx, rec.ID)
			require.NoError(t, err)
			assert.True(t, rc.Balanced, "registro %s", rec.ID)
		}
	})

	t.Run("los movimientos no se pueden modificar", func(t *testing.T) {
		_, err := pool.Exec(ctx, "UPDATE stock_movements SET quantity = 0")
		require.Error(t, err)
		_, err = pool.Exec(ctx, "DELETE FROM stock_movements")
		require.Error(t, err)
	})

	t.Run("CHECK de base de datos se traduce a violación de invariante", func(t *testing.T) {
		recs, err := queries.FindByBatch(ctx, "L1")
		require.NoError(t, err)
		require.NotEmpty(t, recs)
		bad := recs[0].Clone()
		bad.ReservedQuantity = bad.CurrentQuantity + 1

		err = postgres.NewStockRepository(pool).Save(ctx, bad)
		require.ErrorIs(t, err, domain.ErrInvariantViolation)
	})

	t.Run("ventas concurrentes no sobrevenden", func(t *testing.T) {
		_, err := ledger.Receive(ctx, inventory.ReceiveInput{ProductID: "prod-b", WarehouseID: "wh-1", Quantity: 20})
		require.NoError(t, err)

		var wg sync.WaitGroup
		var mu sync.Mutex
		ok, short := 0, 0
		for i := 0; i < 30; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := ledger.Sell(ctx, inventory.SellInput{ProductID: "prod-b", WarehouseID: "wh-1", Quantity: 1})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					ok++
				case errors.Is(err, domain.ErrInsufficientStock):
					short++
				default:
					t.Errorf("error inesperado: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 20, ok)
		assert.Equal(t, 10, short)
		total, err := queries.TotalQuantityByProduct(ctx, "prod-b")
		require.NoError(t, err)
		assert.Zero(t, total)

		sold, err := movements.List(ctx, repository.MovementFilter{ProductID: "prod-b", Type: entity.MovementTypeSaleOut})
		require.NoError(t, err)
		assert.Len(t, sold, 20)
	})

	t.Run("valuación y lotes distintos", func(t *testing.T) {
		batches, err := queries.DistinctBatches(ctx, "prod-a")
		require.NoError(t, err)
		assert.Contains(t, batches, "L1")

		total, err := queries.ValuationTotal(ctx)
		require.NoError(t, err)
		assert.True(t, total.GreaterThan(decimal.Zero))
	})
}
