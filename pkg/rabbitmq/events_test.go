package rabbitmq

import (
	"testing"
	"time"

	"sweetspro/internal/models"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEncodeDecodeOrderCreated(t *testing.T) {
	event := models.OrderCreatedEvent{
		OrderID:      "order-1",
		UserID:       "user-1",
		Total:        12000,
		ItemCount:    3,
		PointsEarned: 120,
		Tier:         models.TierSilver,
		Promoted:     true,
		Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	body, err := EncodeOrderCreated(event)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"order_id":"order-1"`)

	decoded, err := DecodeOrderCreated(body)
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestDecodeOrderCreated_Invalid(t *testing.T) {
	_, err := DecodeOrderCreated([]byte("not json"))
	assert.Error(t, err)

	_, err = DecodeOrderCreated([]byte(`{"user_id":"u"}`))
	assert.Error(t, err)
}

func TestOrderEventLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := OrderEventLogger(zap.New(core))

	body, err := EncodeOrderCreated(models.OrderCreatedEvent{OrderID: "o-1", UserID: "u-1", Total: 800})
	require.NoError(t, err)

	require.NoError(t, handler(amqp.Delivery{Type: OrderCreatedType, Body: body}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "order received", logs.All()[0].Message)

	// Other message types are acknowledged without decoding.
	assert.NoError(t, handler(amqp.Delivery{Type: "order.shipped", Body: []byte("x")}))

	assert.Error(t, handler(amqp.Delivery{Type: OrderCreatedType, Body: []byte("x")}))
}
