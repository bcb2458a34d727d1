package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEventKey(t *testing.T) {
	assert.Equal(t, []byte("order-7"), Event{Type: EventOrderPaid, OrderID: 7}.key())
	assert.Equal(t, []byte("dish-3"), Event{Type: EventDishDeleted, DishID: 3}.key())
	assert.Equal(t, []byte("custom"), Event{Type: "custom"}.key())
}

func TestLogEventPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	pub := NewLogEventPublisher(zap.New(core))

	assert.NoError(t, pub.Publish(context.Background(), Event{Type: EventOrderCreated, OrderID: 1, UserID: "u1"}))
	assert.NoError(t, pub.Close())
	assert.Equal(t, 1, logs.Len())
}

func TestPublishEvent_FailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	pub := NewMockEventPublisher()
	pub.FailWith(errors.New("broker down"))

	publishEvent(context.Background(), pub, zap.New(core), Event{Type: EventOrderCancelled, OrderID: 2})

	assert.Empty(t, pub.Events())
	assert.Equal(t, 1, logs.Len())
}

func TestQRReceiptGenerator(t *testing.T) {
	gen := QRReceiptGenerator{BaseURL: "http://pizzeria.test"}
	assert.Equal(t, "http://pizzeria.test/receipts/42", gen.ReceiptURL(42))

	png, err := gen.Generate(42)
	assert.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
