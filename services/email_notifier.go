package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	OpsInbox string
}

// emailNotifier delivers engine events to the organizer operations inbox
// over SMTP. Player-facing delivery (push, in-app) is an external
// collaborator; email here is the minimal channel the engine owns.
type emailNotifier struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

func NewEmailNotifier(cfg SMTPConfig, logger *slog.Logger) Notifier {
	return &emailNotifier{cfg: cfg, logger: logger}
}

func (n *emailNotifier) send(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)

	msg := []byte("To: " + n.cfg.OpsInbox + "\r\n" +
		"From: " + n.cfg.From + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	var client *smtp.Client
	var err error
	tlsConfig := &tls.Config{ServerName: n.cfg.Host}

	if n.cfg.Port == 465 {
		conn, dialErr := tls.Dial("tcp", addr, tlsConfig)
		if dialErr != nil {
			return fmt.Errorf("smtp tls dial failed: %w", dialErr)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, n.cfg.Host)
		if err != nil {
			return fmt.Errorf("smtp client failed: %w", err)
		}
	} else {
		client, err = smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial failed: %w", err)
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls failed: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth failed: %w", err)
	}
	if err := client.Mail(n.cfg.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(n.cfg.OpsInbox); err != nil {
		return fmt.Errorf("smtp RCPT TO failed: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write failed: %w", err)
	}
	return w.Close()
}

func (n *emailNotifier) SendNotification(_ context.Context, userID int, subject, message string) error {
	return n.send(subject, fmt.Sprintf("user %d: %s", userID, message))
}

func (n *emailNotifier) AwardBadge(_ context.Context, userID int, badge string) error {
	return n.send("Badge awarded", fmt.Sprintf("user %d earned badge %q", userID, badge))
}

func (n *emailNotifier) CheckAchievements(_ context.Context, userID int) error {
	// Achievement evaluation runs in the external community service; the
	// inbox entry is only a trail marker.
	n.logger.Info("achievement check requested", slog.Int("user_id", userID))
	return nil
}

func (n *emailNotifier) ReputationWarning(_ context.Context, teamName, reason string) error {
	return n.send("Suspected falsified evidence", fmt.Sprintf("team %q: %s", teamName, reason))
}
