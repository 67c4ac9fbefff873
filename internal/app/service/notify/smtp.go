package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"net/textproto"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"

	"github.com/astropaws/fulfillment/pkg/config"
)

var defaultSubjects = map[Template]string{
	TemplateOrderConfirmation:  "Your pet's astrology report is on its way",
	TemplateGiftRecipient:      "You've been gifted a pet astrology reading",
	TemplateGiftPurchaser:      "Your gift certificate is ready to share",
	TemplateGiftRedeemed:       "Your gift has been redeemed",
	TemplateVipWelcome:         "Welcome to the celestial circle",
	TemplateSupportReply:       "Re: your message to AstroPaws support",
	TemplateRefundConfirmation: "Your refund confirmation",
}

// SMTPDispatcher sends mail through the configured SMTP relay.
type SMTPDispatcher struct {
	cfg *config.Config
	log *zap.SugaredLogger
}

func NewSMTPDispatcher(cfg *config.Config, log *zap.SugaredLogger) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg, log: log}
}

func (d *SMTPDispatcher) Send(ctx context.Context, msg *Message) error {
	if msg == nil || msg.To == "" {
		return fmt.Errorf("notify: message requires a recipient")
	}
	subject := msg.Subject
	if subject == "" {
		subject = defaultSubjects[msg.Template]
	}

	e := &email.Email{
		From:    d.cfg.SMTP.From,
		To:      []string{msg.To},
		Subject: subject,
		Text:    []byte(renderText(msg)),
		Headers: textproto.MIMEHeader{},
	}

	addr := fmt.Sprintf("%s:%d", d.cfg.SMTP.Host, d.cfg.SMTP.Port)
	var auth smtp.Auth
	if d.cfg.SMTP.Username != "" {
		auth = smtp.PlainAuth("", d.cfg.SMTP.Username, d.cfg.SMTP.Password, d.cfg.SMTP.Host)
	}
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("notify: smtp send failed: %w", err)
	}
	d.log.Infow("email_sent", "template", msg.Template, "to", msg.To)
	return nil
}

// renderText produces the plain-text fallback body. The styled HTML body is
// owned by the email provider's template for the same selector.
func renderText(msg *Message) string {
	body := string(msg.Template)
	if b, ok := msg.Data["body"].(string); ok && b != "" {
		body = b
	}
	return body
}
