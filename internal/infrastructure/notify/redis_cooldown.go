package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// CooldownPublisher suprime alertas repetidas del mismo tipo para el mismo producto y bodega
// durante ttl (SET NX con expiración). Si Redis falla, la alerta se publica igual.
type CooldownPublisher struct {
	next Publisher
	rdb  redis.UniversalClient
	ttl  time.Duration
	log  *logger.Logger
}

// NewRedisClient conecta a Redis y verifica con PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar redis: %w", err)
	}
	return rdb, nil
}

func NewCooldownPublisher(next Publisher, rdb redis.UniversalClient, ttl time.Duration, log *logger.Logger) *CooldownPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &CooldownPublisher{next: next, rdb: rdb, ttl: ttl, log: log.Component("alerts_cooldown")}
}

func (p *CooldownPublisher) Publish(ctx context.Context, a entity.StockAlert) error {
	key := fmt.Sprintf("stock-alert:%s:%s", a.Type, alertKey(a))
	fresh, err := p.rdb.SetNX(ctx, key, a.OccurredAt.Unix(), p.ttl).Result()
	if err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("redis no disponible, se publica sin cooldown")
		return p.next.Publish(ctx, a)
	}
	if !fresh {
		p.log.Debug().Str("key", key).Msg("alerta en cooldown, omitida")
		return nil
	}
	return p.next.Publish(ctx, a)
}

func (p *CooldownPublisher) Close() error {
	err := p.next.Close()
	if cerr := p.rdb.Close(); err == nil {
		err = cerr
	}
	return err
}
