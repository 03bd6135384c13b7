package mailingservices

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/pkg/errors"
	"github.com/techagentng/ain/config"
	"go.uber.org/zap"
)

// Mailer sends the account emails.
type Mailer interface {
	SendOTP(ctx context.Context, email, displayName, code string) error
	SendResetPassword(ctx context.Context, email, code string) error
}

type Mailgun struct {
	Client mailgun.Mailgun
	From   string
	Logger *zap.Logger
}

func (mail *Mailgun) Init(conf *config.Config, logger *zap.Logger) {
	mail.Client = mailgun.NewMailgun(conf.MgDomain, conf.MailgunApiKey)
	mail.From = conf.MgEmailFrom
	mail.Logger = logger
}

func (mail *Mailgun) SendOTP(ctx context.Context, email, displayName, code string) error {
	body := fmt.Sprintf("Welcome %s, Your OTP is: %s", displayName, code)
	return mail.send(ctx, email, "Your OTP Code", body)
}

func (mail *Mailgun) SendResetPassword(ctx context.Context, email, code string) error {
	body := fmt.Sprintf("Your password reset OTP is: %s. It expires in 15 minutes.", code)
	return mail.send(ctx, email, "Password Reset OTP", body)
}

func (mail *Mailgun) send(ctx context.Context, to, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	message := mail.Client.NewMessage(mail.From, subject, body, to)
	_, id, err := mail.Client.Send(ctx, message)
	if err != nil {
		mail.Logger.Error("mailgun send failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return errors.Wrap(err, "send email")
	}
	mail.Logger.Info("email sent", zap.String("to", to), zap.String("id", id))
	return nil
}

// LogMailer writes emails to the log instead of delivering them.
// It is used when no Mailgun credentials are configured.
type LogMailer struct {
	Logger *zap.Logger
}

func (l *LogMailer) SendOTP(_ context.Context, email, displayName, code string) error {
	l.Logger.Info("otp email", zap.String("to", email), zap.String("name", displayName), zap.String("code", code))
	return nil
}

func (l *LogMailer) SendResetPassword(_ context.Context, email, code string) error {
	l.Logger.Info("reset password email", zap.String("to", email), zap.String("code", code))
	return nil
}

// New picks Mailgun when credentials are present.
func New(conf *config.Config, logger *zap.Logger) Mailer {
	if conf.MgDomain == "" || conf.MailgunApiKey == "" {
		logger.Warn("mailgun not configured, emails will only be logged")
		return &LogMailer{Logger: logger}
	}
	mg := &Mailgun{}
	mg.Init(conf, logger)
	return mg
}
