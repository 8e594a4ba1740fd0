package sendgrid

//go:generate go run go.uber.org/mock/mockgen -source=./sendgrid.go -destination=./mocks/sendgrid_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"rolloff/config"
	"rolloff/infras/otel"
	"rolloff/shared/constant"

	"github.com/rs/zerolog/log"
	sendgridGo "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const otelAttrRecipient = "mail.recipient"

var (
	ErrNotConfigured = errors.New("mailer is not configured")
	ErrNoRecipient   = errors.New("email has no recipient")
	ErrRejected      = errors.New("email was rejected by the provider")
)

type Email struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type mailerImpl struct {
	client    *sendgridGo.Client
	fromEmail string
	fromName  string
	otel      otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Mailer {
	if cfg.External.SendGrid.APIKey == constant.Empty {
		log.Warn().Msg("SendGrid API key is not set, notification emails will not be sent")
	}

	var client *sendgridGo.Client
	if cfg.External.SendGrid.APIKey != constant.Empty {
		client = sendgridGo.NewSendClient(cfg.External.SendGrid.APIKey)
	}

	return &mailerImpl{
		client:    client,
		fromEmail: cfg.External.SendGrid.FromEmail,
		fromName:  cfg.External.SendGrid.FromName,
		otel:      otel,
	}
}

func (m *mailerImpl) Send(ctx context.Context, email Email) (err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelMailerScopeName, constant.OtelMailerScopeName+".Send")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if email.To == constant.Empty {
		return ErrNoRecipient
	}

	if m.client == nil {
		return ErrNotConfigured
	}

	scope.SetAttribute(otelAttrRecipient, email.To)

	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(email.ToName, email.To)
	message := mail.NewSingleEmail(from, email.Subject, to, email.PlainText, email.HTML)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		log.Error().Err(err).Str("subject", email.Subject).Msg("failed to send email")

		return fmt.Errorf("failed to send email: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		log.Error().Int("status", resp.StatusCode).Str("body", resp.Body).Msg("email rejected by sendgrid")

		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	return nil
}
