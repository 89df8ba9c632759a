package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"rental/config"
	"rental/infras/otel"
	"rental/shared/constant"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const writeTimeout = 10 * time.Second

type Message struct {
	Key     string
	Value   any
	Headers map[string]string
}

// ToKafkaMessage encodes Value as JSON. Headers are emitted in key order.
func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	message := kafkaGo.Message{Key: []byte(m.Key), Value: value}

	for _, key := range slices.Sorted(maps.Keys(m.Headers)) {
		message.Headers = append(message.Headers, kafkaGo.Header{Key: key, Value: []byte(m.Headers[key])})
	}

	return message, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Close() error
}

type kafkaClientImpl struct {
	config    *config.Config
	transport *kafkaGo.Transport
	otel      otel.Otel

	mu      sync.Mutex
	writers map[string]*kafkaGo.Writer
}

func New(config *config.Config, otel otel.Otel) Client {
	transport := &kafkaGo.Transport{}

	if config.Kafka.SASL.Username != "" {
		transport.SASL = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config:    config,
		transport: transport,
		otel:      otel,
		writers:   map[string]*kafkaGo.Writer{},
	}
}

// writer returns the long-lived writer of a topic, creating it on first use.
func (k *kafkaClientImpl) writer(topic string) *kafkaGo.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	if w, ok := k.writers[topic]; ok {
		return w
	}

	w := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(k.config.Kafka.Brokers...),
		Topic:                  topic,
		Transport:              k.transport,
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
	}
	k.writers[topic] = w

	return w
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute("messaging.destination", topic)

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to convert message to Kafka message.")

			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	err = k.writer(topic).WriteMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

func (k *kafkaClientImpl) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var firstErr error

	for topic, w := range k.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close Kafka writer for %s: %w", topic, err)
		}

		delete(k.writers, topic)
	}

	return firstErr
}
