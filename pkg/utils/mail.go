package utils

import (
	"fmt"

	"github.com/stayhub/stayhub-backend/internal/config"
	"github.com/stayhub/stayhub-backend/internal/models"
	"gopkg.in/gomail.v2"
)

const companyName = "StayHub"

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg config.Config) (*Mailer, error) {
	if cfg.SMTPHost == "" || cfg.SenderEmail == "" {
		return nil, fmt.Errorf("mail configuration not set")
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SenderEmail,
	}, nil
}

// SendBookingConfirmation mails the guest after their booking is persisted.
func (m *Mailer) SendBookingConfirmation(toEmail, username string, b *models.Booking) error {
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>Your booking is confirmed.</p>
<ul>
	<li>Booking ID: %s</li>
	<li>Check In Date: %s</li>
	<li>Check Out Date: %s</li>
	<li>Guests: %d</li>
	<li>Total Price: %.2f</li>
</ul>
<p>Best regards,<br>The %s Team</p>`,
		username,
		b.ID,
		b.CheckInDate.Format("2006-01-02"),
		b.CheckOutDate.Format("2006-01-02"),
		b.Guests,
		b.TotalPrice,
		companyName,
	)

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, companyName)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Booking Confirmation")
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}
