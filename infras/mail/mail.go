package mail

//go:generate go run go.uber.org/mock/mockgen -source=./mail.go -destination=./mocks/mail_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"rental/config"
	"rental/infras/otel"
	"rental/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"
)

var ErrCircuitOpen = errors.New("mail circuit breaker is open")

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// sender is the part of gomail.Dialer the mailer needs.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type mailerImpl struct {
	dialer  sender
	breaker *gobreaker.CircuitBreaker
	from    string
	otel    otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Mailer {
	dialer := gomail.NewDialer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)

	return newMailer(dialer, cfg, otel)
}

func newMailer(dialer sender, cfg *config.Config, otel otel.Otel) *mailerImpl {
	return &mailerImpl{
		dialer:  dialer,
		breaker: newBreaker(cfg),
		from:    cfg.Mail.From,
		otel:    otel,
	}
}

func newBreaker(cfg *config.Config) *gobreaker.CircuitBreaker {
	maxFailures := cfg.Mail.Breaker.MaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}

	timeout := time.Duration(cfg.Mail.Breaker.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("mail circuit breaker changed state")
		},
	})
}

func (m *mailerImpl) Send(ctx context.Context, msg Message) (err error) {
	_, scope := m.otel.NewScope(ctx, constant.OtelMailScopeName, constant.OtelMailScopeName+".Send")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute("mail.subject", msg.Subject)

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody(constant.ContentTypeHTML, msg.HTMLBody)

	_, err = m.breaker.Execute(func() (any, error) {
		return nil, m.dialer.DialAndSend(message)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}

		log.Error().Err(err).Str("to", msg.To).Msg("failed to send mail")

		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
