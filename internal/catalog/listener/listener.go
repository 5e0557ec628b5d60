package listener

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-pos-service/internal/catalog"
	"github.com/fekuna/omnipos-pos-service/pkg/broker"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
)

// Event types that move shelf stock.
const (
	EventStockChanged = "StockChanged"
	EventOrderCreated = "OrderCreated"
	EventBatchCreated = "BatchCreated"
)

// StockListener drops cached product lists whenever inventory moves.
type StockListener struct {
	consumer *broker.KafkaConsumer
	uc       catalog.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewStockListener(consumer *broker.KafkaConsumer, uc catalog.UseCase, logger logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("Starting Stock Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Stock Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				// Don't log context canceled error as error
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type StockEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   StockPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type StockPayload struct {
	ProductID string `json:"product_id"`
	BatchID   string `json:"batch_id,omitempty"`
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event StockEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	switch event.EventType {
	case EventStockChanged, EventOrderCreated, EventBatchCreated:
	default:
		return
	}

	l.logger.Debug("Processing stock event",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("product_id", event.Payload.ProductID),
	)

	if err := l.uc.InvalidateListCache(ctx); err != nil {
		l.logger.Error("Failed to invalidate product list cache",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
	}
}
