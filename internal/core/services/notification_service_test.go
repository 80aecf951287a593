package services

import (
	"strings"
	"testing"

	"gopkg.in/gomail.v2"

	"hackco-expensehub/internal/config"
)

func TestNewNotificationServiceWiresDialer(t *testing.T) {
	svc := NewNotificationService(config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		User: "mailer",
		Pass: "secret",
		From: "no-reply@example.com",
	})

	if !svc.Enabled() {
		t.Fatal("expected service with SMTP host to be enabled")
	}
	if svc.send == nil {
		t.Fatal("expected enabled service to have a send hook")
	}
}

func TestSendInviteDeliversMessage(t *testing.T) {
	svc := NewNotificationService(config.SMTPConfig{
		Host:   "smtp.example.com",
		Port:   587,
		From:   "no-reply@example.com",
		AppURL: "https://expenses.example.com",
	})

	var captured *gomail.Message
	svc.send = func(m *gomail.Message) error {
		captured = m
		return nil
	}

	if err := svc.SendInvite("Priya", "priya@example.com", "Tmp#2468x"); err != nil {
		t.Fatalf("SendInvite() error = %v", err)
	}
	if captured == nil {
		t.Fatal("expected a message to be handed to the dialer")
	}
	if to := captured.GetHeader("To"); len(to) != 1 || to[0] != "priya@example.com" {
		t.Errorf("To header = %v, want [priya@example.com]", to)
	}

	var body strings.Builder
	if _, err := captured.WriteTo(&body); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if !strings.Contains(body.String(), "Tmp#2468x") {
		t.Error("expected invite body to contain the temporary password")
	}
}

func TestDisabledSMTPReportsFailure(t *testing.T) {
	svc := NewNotificationService(config.SMTPConfig{})

	if svc.Enabled() {
		t.Fatal("expected service without SMTP host to be disabled")
	}
	if err := svc.SendInvite("Priya", "priya@example.com", "x"); err == nil {
		t.Fatal("expected send on a disabled service to report failure")
	}
}
