package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rental/config"
	"rental/infras/mail"
	mailMocks "rental/infras/mail/mocks"
	"rental/infras/otel/mocks"
	"rental/internal/domains/notification/model/dto"
	"rental/internal/domains/notification/service"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		tpl  string
		vars map[string]string
		want string
	}{
		{
			name: "plain placeholder",
			tpl:  "Hello {{name}}",
			vars: map[string]string{"name": "Ada"},
			want: "Hello Ada",
		},
		{
			name: "whitespace inside braces",
			tpl:  "{{  name }} booked {{ title}}",
			vars: map[string]string{"name": "Ada", "title": "Tent"},
			want: "Ada booked Tent",
		},
		{
			name: "unmatched key renders empty",
			tpl:  "[{{ missing }}]",
			vars: map[string]string{},
			want: "[]",
		},
		{
			name: "values are escaped",
			tpl:  "<b>{{title}}</b>",
			vars: map[string]string{"title": "<script>"},
			want: "<b>&lt;script&gt;</b>",
		},
		{
			name: "no placeholders",
			tpl:  "static",
			vars: map[string]string{"name": "Ada"},
			want: "static",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.Render(tt.tpl, tt.vars))
		})
	}
}

func TestNotify(t *testing.T) {
	notice := dto.ReservationNotice{
		ReservationID: "res-1",
		ListingTitle:  "Camping tent",
		RequesterName: "Ada",
		StartDate:     "2030-03-01",
		EndDate:       "2030-03-04",
		Days:          3,
		TotalPrice:    "75.00",
	}

	tests := []struct {
		name      string
		recipient string
		enabled   bool
		setupMock func(m *mailMocks.MockMailer)
		wantErr   error
	}{
		{
			name:      "delivers rendered template",
			recipient: "owner@rental.test",
			enabled:   true,
			setupMock: func(m *mailMocks.MockMailer) {
				m.EXPECT().
					Send(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, msg mail.Message) error {
						assert.Equal(t, "owner@rental.test", msg.To)
						assert.Contains(t, msg.HTMLBody, "Camping tent")
						assert.Contains(t, msg.HTMLBody, "75.00")
						assert.Contains(t, msg.HTMLBody, "res-1")
						assert.NotContains(t, msg.HTMLBody, "{{")

						return nil
					})
			},
		},
		{
			name:      "empty recipient",
			recipient: "  ",
			enabled:   true,
			setupMock: func(_ *mailMocks.MockMailer) {},
			wantErr:   service.ErrNoRecipient,
		},
		{
			name:      "mail disabled",
			recipient: "owner@rental.test",
			enabled:   false,
			setupMock: func(_ *mailMocks.MockMailer) {},
		},
		{
			name:      "delivery failure",
			recipient: "owner@rental.test",
			enabled:   true,
			setupMock: func(m *mailMocks.MockMailer) {
				m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp timeout"))
			},
			wantErr: service.ErrDelivery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mailer := mailMocks.NewMockMailer(ctrl)
			tt.setupMock(mailer)

			cfg := &config.Config{}
			cfg.Mail.Enable = tt.enabled

			svc := service.New(mailer, cfg, mocks.NewOtel())
			err := svc.Notify(context.Background(), tt.recipient, notice)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}
