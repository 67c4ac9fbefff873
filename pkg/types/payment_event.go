package types

import "time"

// OccasionMode selects which party a fulfillment notification is addressed to.
type OccasionMode string

const (
	OccasionModeStandard OccasionMode = "standard"
	// OccasionModeGift marks an order bought by one person for another;
	// downstream notification goes to the recipient instead of the buyer.
	OccasionModeGift OccasionMode = "gift"
)

// PaymentEvent is the decoded payload of a confirmed payment delivered by the
// payment processor. Every identifier the pipeline needs arrives here
// explicitly; the pipeline never reads ambient client state.
type PaymentEvent struct {
	EventID        string `json:"event_id"`
	PurchaserEmail string `json:"purchaser_email"`

	ReportIDs []string `json:"report_ids"`
	Tier      Tier     `json:"tier"`

	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`

	// GiftForward is set when the buyer purchased the reports for someone
	// else; RecipientEmail then names who receives the confirmation.
	GiftForward    bool   `json:"gift_forward,omitempty"`
	RecipientEmail string `json:"recipient_email,omitempty"`

	ReferralCode string `json:"referral_code,omitempty"`
	CouponID     string `json:"coupon_id,omitempty"`

	// GiftCertificateCode is set when the order was paid with a gift
	// certificate applied at checkout; that certificate is claimed as part
	// of fulfillment.
	GiftCertificateCode string `json:"gift_certificate_code,omitempty"`

	// PhotoURLsByReportID carries the optional source photo per report used
	// for portrait generation.
	PhotoURLsByReportID map[string]string `json:"photo_urls_by_report_id,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

func (e *PaymentEvent) NotifyEmail() string {
	if e.GiftForward && e.RecipientEmail != "" {
		return e.RecipientEmail
	}
	return e.PurchaserEmail
}
