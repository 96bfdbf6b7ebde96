package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"

	"sweetspro/internal/models"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// OrderCreatedType is the AMQP message type of order.created events.
const OrderCreatedType = "order.created"

// EncodeOrderCreated marshals an order.created event body.
func EncodeOrderCreated(event models.OrderCreatedEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order event: %w", err)
	}
	return body, nil
}

// DecodeOrderCreated parses an order.created event body.
func DecodeOrderCreated(body []byte) (models.OrderCreatedEvent, error) {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("failed to unmarshal order event: %w", err)
	}
	if event.OrderID == "" {
		return event, errors.New("order event without order_id")
	}
	return event, nil
}

// OrderEventLogger returns a delivery handler that decodes order.created
// events and logs them. Messages of other types are acknowledged untouched.
func OrderEventLogger(logger *zap.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		if msg.Type != "" && msg.Type != OrderCreatedType {
			logger.Debug("ignoring message", zap.String("type", msg.Type))
			return nil
		}
		event, err := DecodeOrderCreated(msg.Body)
		if err != nil {
			return err
		}
		fields := []zap.Field{
			zap.String("order_id", event.OrderID),
			zap.String("user_id", event.UserID),
			zap.Int64("total", event.Total),
			zap.Int64("points_earned", event.PointsEarned),
			zap.String("tier", string(event.Tier)),
		}
		if event.Promoted {
			logger.Info("order received, customer promoted", fields...)
			return nil
		}
		logger.Info("order received", fields...)
		return nil
	}
}
