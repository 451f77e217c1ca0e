package mailer

import (
	"context"
	"time"

	"github.com/lawhelp/auth-service/config"
	"github.com/lawhelp/auth-service/internal/constants"
	apperrors "github.com/lawhelp/auth-service/internal/errors"
	"github.com/lawhelp/auth-service/pkg/circuit"
	"github.com/lawhelp/auth-service/pkg/logger"
	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers verification and sign-in codes over SMTP. All
// sends go through a circuit breaker so a dead relay fails fast
// instead of holding every authentication request on a dial timeout.
type SMTPMailer struct {
	dialer  *gomail.Dialer
	from    string
	breaker *circuit.Breaker
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		breaker: circuit.NewBreaker("smtp", circuit.DefaultConfig(), logger.GetLogger()),
	}
}

// DeliverVerificationCode sends an email-verification code to a newly
// registered address.
func (m *SMTPMailer) DeliverVerificationCode(ctx context.Context, to, name, code string, ttl time.Duration) error {
	body, err := renderBody(verificationTmpl, constants.AppName, name, code, ttl)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return m.send(ctx, to, "Verify your email address", body)
}

// DeliverTwoFactorCode sends a sign-in code for a pending login.
func (m *SMTPMailer) DeliverTwoFactorCode(ctx context.Context, to, name, code string, ttl time.Duration) error {
	body, err := renderBody(twoFactorTmpl, constants.AppName, name, code, ttl)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return m.send(ctx, to, "Your sign-in code", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody(constants.ContentTypeText, body)

	start := time.Now()
	err := m.breaker.Execute(func() error {
		return m.dialer.DialAndSend(msg)
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Email delivery failed").
			String("to", to).
			String("subject", subject).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrServiceUnavailable, err)
	}

	logger.InfoWithContext(ctx, "Email delivered").
		String("to", to).
		String("subject", subject).
		Duration(time.Since(start)).
		Log()

	return nil
}
