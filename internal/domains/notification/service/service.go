package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"regexp"
	"rental/config"
	"rental/infras/mail"
	"rental/infras/otel"
	"rental/internal/domains/notification/model/dto"
	"rental/shared/constant"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrDelivery    = errors.New("notification delivery failed")
	ErrNoRecipient = errors.New("notification recipient is empty")
)

//go:embed templates/reservation_created.html
var reservationCreatedTemplate string

var placeholder = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

const subjectReservationCreated = "New reservation request"

type Notification interface {
	Notify(ctx context.Context, recipient string, notice dto.ReservationNotice) error
}

type serviceImpl struct {
	mailer mail.Mailer
	cfg    *config.Config
	otel   otel.Otel
}

func New(mailer mail.Mailer, cfg *config.Config, otel otel.Otel) Notification {
	return &serviceImpl{
		mailer: mailer,
		cfg:    cfg,
		otel:   otel,
	}
}

// Render replaces every {{key}} in tpl with the HTML-escaped value of vars[key].
// Keys missing from vars render as an empty string.
func Render(tpl string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tpl, func(match string) string {
		key := strings.TrimSpace(placeholder.FindStringSubmatch(match)[1])

		return html.EscapeString(vars[key])
	})
}

func (s *serviceImpl) Notify(ctx context.Context, recipient string, notice dto.ReservationNotice) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".notification.Notify")
	defer scope.End()
	defer scope.TraceIfError(&err)

	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return ErrNoRecipient
	}

	if !s.cfg.Mail.Enable {
		log.Info().Str("reservation_id", notice.ReservationID).Msg("mail disabled, skipping reservation notification")

		return nil
	}

	err = s.mailer.Send(ctx, mail.Message{
		To:       recipient,
		Subject:  subjectReservationCreated,
		HTMLBody: Render(reservationCreatedTemplate, notice.Vars()),
	})
	if err != nil {
		log.Error().Err(err).Str("reservation_id", notice.ReservationID).Msg("failed to deliver reservation notification")

		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	return nil
}
