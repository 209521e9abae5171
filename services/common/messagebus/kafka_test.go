package messagebus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPublishRejectsEmptyDestination(t *testing.T) {
	bus := NewKafkaMessageBus([]string{"localhost:9092"}, zap.NewNop())
	defer bus.Close()

	err := bus.Publish(context.Background(), "", "key", map[string]string{"a": "b"})
	assert.Error(t, err)
}

func TestPublishSurfacesMarshalErrors(t *testing.T) {
	bus := NewKafkaMessageBus([]string{"localhost:9092"}, zap.NewNop())
	defer bus.Close()

	// channels are not JSON-serializable; the error must reach the caller
	// before anything touches the broker.
	err := bus.Publish(context.Background(), "some.topic", "key", make(chan int))
	assert.Error(t, err)
}
