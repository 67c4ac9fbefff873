package models

import "time"

// Coupon is a storefront discount code. Fulfillment only touches TimesUsed;
// validation and discount math happen at checkout, outside this service.
// The usage increment is read-then-write by design: contention is negligible
// and a lost increment costs nothing.
type Coupon struct {
	ID            string     `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	Description   string     `gorm:"column:description;type:text" json:"description"`
	DiscountType  string     `gorm:"column:discount_type;type:varchar(16)" json:"discount_type"`
	DiscountValue int64      `gorm:"column:discount_value;type:bigint" json:"discount_value"`
	TimesUsed     int64      `gorm:"column:times_used;type:bigint;not null;default:0" json:"times_used"`
	MaxUses       *int64     `gorm:"column:max_uses;type:bigint" json:"max_uses"`
	ExpiresAt     *time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Coupon) TableName() string { return "coupon" }
