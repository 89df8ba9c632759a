package mail

import (
	"context"
	"errors"
	"rental/config"
	"rental/infras/otel/mocks"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	err  error
	sent []*gomail.Message
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)

	return f.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Mail.From = "noreply@rental.test"
	cfg.Mail.Breaker.MaxFailures = 2
	cfg.Mail.Breaker.TimeoutSeconds = 60

	return cfg
}

func TestSend(t *testing.T) {
	sender := &fakeSender{}
	mailer := newMailer(sender, testConfig(), mocks.NewOtel())

	err := mailer.Send(context.Background(), Message{To: "guest@rental.test", Subject: "Booked", HTMLBody: "<p>hi</p>"})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"guest@rental.test"}, sender.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"noreply@rental.test"}, sender.sent[0].GetHeader("From"))
	assert.Equal(t, []string{"Booked"}, sender.sent[0].GetHeader("Subject"))
}

func TestSendOpensBreaker(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	mailer := newMailer(sender, testConfig(), mocks.NewOtel())
	msg := Message{To: "guest@rental.test", Subject: "Booked"}

	for range 2 {
		err := mailer.Send(context.Background(), msg)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}

	err := mailer.Send(context.Background(), msg)

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Len(t, sender.sent, 2)
}
