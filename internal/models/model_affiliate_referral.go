package models

import "time"

type AffiliateReferralStatus string

const (
	AffiliateReferralStatusPending AffiliateReferralStatus = "pending"
	// Paid is set by the payout batch, not by this service.
	AffiliateReferralStatusPaid AffiliateReferralStatus = "paid"
)

// AffiliateReferral is one attributed sale. Created by the fulfillment
// orchestrator when a valid referral code accompanies a payment event.
type AffiliateReferral struct {
	ID               string                  `gorm:"column:id;type:uuid;primary_key" json:"id"`
	AffiliateCode    string                  `gorm:"column:affiliate_code;type:varchar(32);not null;index" json:"affiliate_code"`
	EventID          string                  `gorm:"column:event_id;type:varchar(128);not null" json:"event_id"`
	GrossAmountCents int64                   `gorm:"column:gross_amount_cents;type:bigint;not null" json:"gross_amount_cents"`
	CommissionCents  int64                   `gorm:"column:commission_cents;type:bigint;not null" json:"commission_cents"`
	Status           AffiliateReferralStatus `gorm:"column:status;type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

func (AffiliateReferral) TableName() string { return "affiliate_referral" }
