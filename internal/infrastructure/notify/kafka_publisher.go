package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// KafkaPublisher publica alertas como JSON en un topic. La clave es producto@bodega
// para que las alertas de un mismo stock caigan en la misma partición.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, a entity.StockAlert) error {
	value, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("serializar alerta: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(alertKey(a)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(a.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func alertKey(a entity.StockAlert) string {
	return a.ProductID + "@" + a.WarehouseID
}
