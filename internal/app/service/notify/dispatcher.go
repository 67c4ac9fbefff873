package notify

import "context"

type Template string

const (
	TemplateOrderConfirmation  Template = "order_confirmation"
	TemplateGiftRecipient      Template = "gift_recipient"
	TemplateGiftPurchaser      Template = "gift_purchaser"
	TemplateGiftRedeemed       Template = "gift_redeemed"
	TemplateVipWelcome         Template = "vip_welcome"
	TemplateSupportReply       Template = "support_reply"
	TemplateRefundConfirmation Template = "refund_confirmation"
)

// Message is a template selector plus the structured data the template needs.
// The actual HTML lives with the email provider; this service only picks the
// template and fills in the data.
type Message struct {
	Template Template
	To       string
	Subject  string
	Data     map[string]any
}

// Dispatcher sends transactional email. Implementations return an error on
// failure but callers in the fulfillment path treat every send as
// best-effort: a failed send is logged, never retried synchronously and
// never escalated.
type Dispatcher interface {
	Send(ctx context.Context, msg *Message) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, msg *Message) error

func (f DispatcherFunc) Send(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}
