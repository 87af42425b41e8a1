package notifications

import (
	"fmt"
	"io"

	"railres/internal/shared/config"
	"railres/pkg/logger"

	qrcode "github.com/skip2/go-qrcode"
	"gopkg.in/gomail.v2"
)

// EmailSender delivers one rendered notification.
type EmailSender interface {
	Send(msg *Message) error
}

// GomailSender delivers notifications over SMTP, attaching a QR code of
// the PNR to booking confirmations.
type GomailSender struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
	log    *logger.Logger
}

// NewGomailSender creates a new SMTP email sender
func NewGomailSender(cfg config.EmailConfig, log *logger.Logger) *GomailSender {
	return &GomailSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		log:    log,
	}
}

func (s *GomailSender) Send(msg *Message) error {
	if !s.cfg.Enabled {
		s.log.Info("email delivery disabled, dropping notification",
			"type", string(msg.Type), "pnr", msg.PNR)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if msg.AttachQR {
		qrPNG, err := qrcode.Encode(msg.PNR, qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("failed to generate PNR QR code: %w", err)
		}
		m.Attach(fmt.Sprintf("pnr-%s.png", msg.PNR), gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(qrPNG)
			return err
		}))
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.Recipient, err)
	}
	return nil
}
