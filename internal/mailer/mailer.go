package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/Abdurahmanit/GroupProject/feed-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/feed-service/internal/platform/logger"
)

// Mailer sends the sponsorship receipt once a payment is confirmed.
type Mailer struct {
	cfg    config.SMTPConfig
	logger logger.Logger
}

func NewMailer(cfg config.SMTPConfig, log logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: log}
}

func (m *Mailer) SendSponsorshipReceipt(toEmail, listingTitle string, activeUntil time.Time) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SenderEmail)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Your listing is now sponsored")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your listing '%s' is now promoted in the feed until %s.",
		listingTitle, activeUntil.Format("2 January 2006"),
	))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send sponsorship receipt to %s: %w", toEmail, err)
	}
	m.logger.Infof("Mailer: sponsorship receipt sent to %s", toEmail)
	return nil
}
