package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/astropaws/fulfillment/pkg/types"
)

type GiftDeliveryMethod string

const (
	GiftDeliveryMethodEmail GiftDeliveryMethod = "email"
	GiftDeliveryMethodPrint GiftDeliveryMethod = "print"
)

// GiftCertificate is prepaid value redeemable for one or more reports.
// IsRedeemed transitions false -> true exactly once, always together with
// RedeemedByReportID, via a conditional update. Rows are never deleted; a
// redeemed certificate is the audit trail of the redemption.
type GiftCertificate struct {
	ID             string  `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Code           string  `gorm:"column:code;type:varchar(16);not null;uniqueIndex" json:"code"`
	PurchaserEmail string  `gorm:"column:purchaser_email;type:varchar(255);not null" json:"purchaser_email"`
	RecipientName  *string `gorm:"column:recipient_name;type:varchar(255)" json:"recipient_name"`
	RecipientEmail *string `gorm:"column:recipient_email;type:varchar(255)" json:"recipient_email"`
	GiftMessage    *string `gorm:"column:gift_message;type:text" json:"gift_message"`

	DeliveryMethod GiftDeliveryMethod `gorm:"column:delivery_method;type:varchar(16);not null;default:'email'" json:"delivery_method"`
	AmountCents    int64              `gorm:"column:amount_cents;type:bigint;not null" json:"amount_cents"`

	// Tier is the order-level tier. Certificates issued before per-pet
	// tiers existed carry only this field; PetTiers is empty for them.
	Tier     types.Tier                          `gorm:"column:tier;type:varchar(32);not null" json:"tier"`
	PetTiers datatypes.JSONType[[]types.PetTier] `gorm:"column:pet_tiers;type:jsonb" json:"pet_tiers"`
	PetCount int                                 `gorm:"column:pet_count;not null;default:1" json:"pet_count"`

	IsRedeemed         bool       `gorm:"column:is_redeemed;not null;default:false" json:"is_redeemed"`
	RedeemedAt         *time.Time `gorm:"column:redeemed_at" json:"redeemed_at"`
	RedeemedByReportID *string    `gorm:"column:redeemed_by_report_id;type:uuid" json:"redeemed_by_report_id"`

	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GiftCertificate) TableName() string { return "gift_certificate" }

func (g *GiftCertificate) Expired(at time.Time) bool {
	return g != nil && at.After(g.ExpiresAt)
}

// PetTierAt returns the tier info for the i-th pet. Legacy certificates
// without per-pet tiers fall back to the order-level tier for every pet.
func (g *GiftCertificate) PetTierAt(i int) types.PetTier {
	pets := g.PetTiers.Data()
	if i >= 0 && i < len(pets) {
		return pets[i]
	}
	return types.PetTier{Tier: g.Tier}
}
