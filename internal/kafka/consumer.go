package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer reads booking events for the worker. Consume blocks until
// the context is canceled or the handler returns an error.
type Consumer struct {
	reader *kafka.Reader
	topic  string
	logger *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		topic:  topic,
		logger: logger,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			c.logger.Warn("read message failed",
				zap.String("topic", c.topic),
				zap.Error(err))
			return err
		}

		if err := handler(ctx, msg); err != nil {
			c.logger.Warn("event handler failed",
				zap.String("topic", c.topic),
				zap.String("key", string(msg.Key)),
				zap.Error(err))
			return err
		}

		c.logger.Debug("consumed event",
			zap.String("topic", c.topic),
			zap.String("key", string(msg.Key)))
	}
}
