// Package sender turns purchase events into confirmation emails.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HarshG200/neuron-edtech/internal/lib/sl"
	"github.com/HarshG200/neuron-edtech/internal/lib/smtp"
	"github.com/HarshG200/neuron-edtech/internal/models"
)

// SenderService consumes purchase events and mails the confirmation.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService creates a SenderService over the given transport.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendPurchaseConfirmation handles one message from the purchase queue.
func (s *SenderService) SendPurchaseConfirmation(body []byte) error {
	var event models.PurchaseEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal purchase event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	name := event.Name
	if name == "" {
		name = event.Email
	}
	subject := "Your subscription is active"
	bodyText := fmt.Sprintf("Hi %s!\n\nYour subscription to %s is now active.\nAmount paid: Rs. %d\nValid until: %s\n\nHappy learning!",
		name, event.SubjectName, event.Price, event.EndDate.Format("02 Jan 2006"))

	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err := wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err := client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("purchase confirmation sent", slog.String("to", to[0]))
	return nil
}
