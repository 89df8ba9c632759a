package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"fmt"
	"rental/config"
	"rental/infras/kafka"
	"rental/internal/domains/reservation/model"
	"rental/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

type Type string

const (
	TypeCreated       Type = "reservation.created"
	TypeCancelled     Type = "reservation.cancelled"
	TypeStatusUpdated Type = "reservation.status_updated"
	TypeCompleted     Type = "reservation.completed"

	headerEventType = "event_type"
)

type Event struct {
	Type          Type      `json:"type"`
	ReservationID string    `json:"reservation_id"`
	ListingID     string    `json:"listing_id"`
	RequesterID   string    `json:"requester_id"`
	Status        string    `json:"status"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	TotalPrice    string    `json:"total_price"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func FromModel(eventType Type, res model.Reservation, at time.Time) Event {
	return Event{
		Type:          eventType,
		ReservationID: res.ID,
		ListingID:     res.ListingID,
		RequesterID:   res.RequesterID,
		Status:        string(res.Status),
		StartDate:     res.StartDate.Format(constant.DateOnlyFormat),
		EndDate:       res.EndDate.Format(constant.DateOnlyFormat),
		TotalPrice:    res.TotalPrice.StringFixed(2),
		OccurredAt:    at,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
}

func New(client kafka.Client, cfg *config.Config) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
	}
}

// Publish keys events by listing so a listing's history stays ordered within one partition.
func (p *publisherImpl) Publish(ctx context.Context, event Event) error {
	if !p.cfg.Kafka.Enable {
		log.Debug().Str("type", string(event.Type)).Str("reservation_id", event.ReservationID).Msg("kafka disabled, event not published")

		return nil
	}

	err := p.client.SendMessages(ctx, p.cfg.Kafka.Topics.Reservation, kafka.Message{
		Key:     event.ListingID,
		Value:   event,
		Headers: map[string]string{headerEventType: string(event.Type)},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	return nil
}
