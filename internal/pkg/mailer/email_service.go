package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// INotifier delivers a single email. Callers that must not block go through
// service.NotificationDispatcher instead of calling this directly.
type INotifier interface {
	Notify(recipient, subject, body string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) INotifier {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) Notify(recipient, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", subject)

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			<p>%s</p>
		</div>
	`, subject, body)

	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", recipient, err)
	}
	return nil
}
