package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/mediashare-services/common/config"
	apperrors "github.com/mediashare-services/common/errors"
	"github.com/mediashare-services/common/logger"
)

// Message is a single outbound mail.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Service sends transactional mail over SMTP. When no credentials are
// configured it runs in dev mode and only logs the message, so local runs
// never need a mail account.
type Service struct {
	cfg     config.SMTPConfig
	devMode bool
	log     *logger.Logger
}

// NewService creates an email service from SMTP configuration.
func NewService(cfg config.SMTPConfig) *Service {
	devMode := cfg.Username == "" || cfg.Password == ""
	if devMode {
		logger.Warn("SMTP credentials not configured, email service running in dev mode")
	}
	return &Service{
		cfg:     cfg,
		devMode: devMode,
		log:     logger.With("component", "email"),
	}
}

// Send delivers the message, retrying transient failures with exponential
// backoff up to the configured attempt limit. Every attempt is bounded by the
// configured per-attempt timeout, so a stuck SMTP server cannot hold a request
// open indefinitely.
func (s *Service) Send(ctx context.Context, msg Message) error {
	if s.devMode {
		s.log.Info("dev mode: email to %s | subject: %s", msg.To, msg.Subject)
		return nil
	}

	backoff := retry.NewExponential(500 * time.Millisecond)
	backoff = retry.WithMaxRetries(uint64(s.cfg.MaxRetries), backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.sendOnce(msg); err != nil {
			s.log.WithError(err).Warn("email send attempt failed, to=%s", msg.To)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return apperrors.TransportError(err)
	}

	s.log.Info("email sent to %s", msg.To)
	return nil
}

func (s *Service) sendOnce(msg Message) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

	dialer := net.Dialer{Timeout: s.cfg.Timeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp server: %w", err)
	}
	// Deadline covers the whole SMTP conversation, not just the dial.
	if err := conn.SetDeadline(time.Now().Add(s.cfg.Timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("set smtp deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: s.cfg.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	headers := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n",
		s.cfg.FromName, s.cfg.From, msg.To, msg.Subject)
	if _, err := w.Write([]byte(headers + msg.HTMLBody)); err != nil {
		w.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	return client.Quit()
}

// SendOTPEmail sends a password reset OTP to the user.
func (s *Service) SendOTPEmail(ctx context.Context, to, code string) error {
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px;">
    <div style="max-width: 560px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; overflow: hidden;">
        <div style="background-color: #1a73e8; padding: 24px; text-align: center;">
            <h1 style="color: #ffffff; margin: 0; font-size: 22px; letter-spacing: 2px;">MEDIASHARE</h1>
        </div>
        <div style="padding: 32px;">
            <h2 style="color: #333333; margin-top: 0;">Password Reset Request</h2>
            <p style="color: #555555;">We received a request to reset the password for your account. Use the verification code below to continue:</p>
            <div style="text-align: center; margin: 28px 0;">
                <span style="display: inline-block; background-color: #f0f4ff; color: #1a73e8; font-size: 32px; font-weight: bold; letter-spacing: 10px; padding: 14px 28px; border-radius: 6px;">%s</span>
            </div>
            <p style="color: #555555;">This code expires in <strong>2 hours</strong> and can be used only once.</p>
            <p style="color: #999999; font-size: 13px;">If you did not request a password reset, you can safely ignore this email.</p>
        </div>
        <div style="background-color: #fafafa; padding: 16px; text-align: center;">
            <p style="color: #aaaaaa; font-size: 12px; margin: 0;">This is an automated message, please do not reply.</p>
        </div>
    </div>
</body>
</html>`, code)

	return s.Send(ctx, Message{
		To:       to,
		Subject:  "Your password reset code",
		HTMLBody: body,
	})
}
