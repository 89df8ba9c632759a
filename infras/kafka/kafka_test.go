package kafka_test

import (
	"math"
	"rental/infras/kafka"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
}

func TestToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:     "listing-1",
		Value:   payload{ID: "res-1", Amount: 3},
		Headers: map[string]string{"event_type": "reservation.created", "content_type": "application/json"},
	}

	out, err := msg.ToKafkaMessage()

	require.NoError(t, err)
	assert.Equal(t, []byte("listing-1"), out.Key)
	assert.JSONEq(t, `{"id":"res-1","amount":3}`, string(out.Value))
	require.Len(t, out.Headers, 2)
	assert.Equal(t, "content_type", out.Headers[0].Key)
	assert.Equal(t, "event_type", out.Headers[1].Key)
	assert.Equal(t, []byte("reservation.created"), out.Headers[1].Value)
}

func TestToKafkaMessageInvalidValue(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: math.Inf(1)}

	_, err := msg.ToKafkaMessage()

	assert.Error(t, err)
}
