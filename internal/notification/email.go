package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type EmailMessage struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type sendGridSender struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
}

func NewSendGridSender(apiKey, fromName, fromAddress, appName string) EmailSender {
	return &sendGridSender{
		client:     sendgrid.NewSendClient(apiKey),
		from:       sgmail.NewEmail(fromName, fromAddress),
		subjPrefix: "[" + appName + "] ",
	}
}

func (s *sendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToAddress)
	m := sgmail.NewSingleEmail(s.from, s.subjPrefix+msg.Subject, to, msg.Body, "")

	res, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// logSender is used when no SendGrid key is configured.
type logSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) EmailSender {
	return &logSender{logger: logger.Named("notification.email")}
}

func (s *logSender) Send(_ context.Context, msg EmailMessage) error {
	s.logger.Info("email not sent, sendgrid disabled",
		zap.String("to", msg.ToAddress),
		zap.String("subject", msg.Subject),
	)
	return nil
}
