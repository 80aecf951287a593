package services

import (
	"fmt"
	"log"
	"strings"

	"gopkg.in/gomail.v2"

	"hackco-expensehub/internal/config"
)

// NotificationService delivers transactional mail over SMTP. When no SMTP
// host is configured (local dev) every send is a logged no-op that reports
// failure, so callers fall back to their email-failed path.
type NotificationService struct {
	cfg config.SMTPConfig
	// dialer is swappable for tests
	send func(m *gomail.Message) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg config.SMTPConfig) *NotificationService {
	s := &NotificationService{cfg: cfg}
	if s.Enabled() {
		dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
		s.send = func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		}
	}
	return s
}

// Enabled reports whether SMTP delivery is configured
func (s *NotificationService) Enabled() bool {
	return s.cfg.Host != ""
}

// SendInvite mails a freshly invited user their temporary password
func (s *NotificationService) SendInvite(name, email, tempPassword string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYou have been invited to the expense portal.\n\n"+
			"Sign in at %s with:\n  Email: %s\n  Temporary password: %s\n\n"+
			"You will be asked to change this password on first login.\n",
		name, s.cfg.AppURL, email, tempPassword,
	)
	return s.deliver(email, "Your expense portal invite", body)
}

// SendPendingDigest mails an approver the list of tasks awaiting a decision
func (s *NotificationService) SendPendingDigest(email string, lines []string) error {
	body := fmt.Sprintf(
		"Good morning,\n\nThe following expense claims are waiting for a decision:\n\n%s\n\nReview them at %s\n",
		strings.Join(lines, "\n"), s.cfg.AppURL,
	)
	return s.deliver(email, "Expenses awaiting your approval", body)
}

func (s *NotificationService) deliver(to, subject, body string) error {
	if !s.Enabled() {
		log.Printf("⚠️ SMTP not configured, skipping mail to %s (%s)", to, subject)
		return fmt.Errorf("smtp not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	log.Printf("✅ Mail sent to %s (%s)", to, subject)
	return nil
}
