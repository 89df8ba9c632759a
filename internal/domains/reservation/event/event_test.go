package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rental/config"
	"rental/infras/kafka"
	kafkaMocks "rental/infras/kafka/mocks"
	"rental/internal/domains/reservation/event"
	"rental/internal/domains/reservation/model"
)

func sampleEvent() event.Event {
	res := model.Reservation{
		ID:          "res-1",
		ListingID:   "listing-1",
		RequesterID: "user-1",
		StartDate:   time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC),
		TotalPrice:  decimal.RequireFromString("75"),
		Status:      model.StatusPending,
	}

	return event.FromModel(event.TypeCreated, res, time.Date(2030, 2, 1, 9, 0, 0, 0, time.UTC))
}

func TestFromModel(t *testing.T) {
	ev := sampleEvent()

	assert.Equal(t, "2030-03-01", ev.StartDate)
	assert.Equal(t, "2030-03-04", ev.EndDate)
	assert.Equal(t, "75.00", ev.TotalPrice)
	assert.Equal(t, "pending", ev.Status)
}

func TestPublish(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		publisher := event.New(client, &config.Config{})

		assert.NoError(t, publisher.Publish(context.Background(), sampleEvent()))
	})

	t.Run("keyed by listing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		cfg := &config.Config{}
		cfg.Kafka.Enable = true
		cfg.Kafka.Topics.Reservation = "reservation.events"

		client.EXPECT().
			SendMessages(gomock.Any(), "reservation.events", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				require.Len(t, messages, 1)
				assert.Equal(t, "listing-1", messages[0].Key)
				assert.Equal(t, "reservation.created", messages[0].Headers["event_type"])

				return nil
			})

		publisher := event.New(client, cfg)

		assert.NoError(t, publisher.Publish(context.Background(), sampleEvent()))
	})

	t.Run("broker error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		cfg := &config.Config{}
		cfg.Kafka.Enable = true

		client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("leader not available"))

		publisher := event.New(client, cfg)

		assert.Error(t, publisher.Publish(context.Background(), sampleEvent()))
	})
}
