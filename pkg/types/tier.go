package types

type Tier string

const (
	// TierEssential is the base report with no extras.
	TierEssential Tier = "essential"
	// TierPortrait adds the AI portrait and the weekly horoscope.
	TierPortrait Tier = "portrait"
	// TierCelestial adds VIP extras on top of the portrait tier.
	TierCelestial Tier = "celestial"
)

func (t Tier) Known() bool {
	switch t {
	case TierEssential, TierPortrait, TierCelestial:
		return true
	}
	return false
}

type HoroscopeCadence string

const (
	HoroscopeCadenceWeekly  HoroscopeCadence = "weekly"
	HoroscopeCadenceMonthly HoroscopeCadence = "monthly"
)

// FeatureSet is the set of benefits a purchase or gift unlocks for one report.
// Portrait and horoscope are independent flags: a horoscope add-on can be
// bought for a tier that does not include it, so the flags must never be
// collapsed back into an ordinal tier level.
type FeatureSet struct {
	IncludesPortrait        bool `json:"includes_portrait"`
	IncludesWeeklyHoroscope bool `json:"includes_weekly_horoscope"`
	IncludesVipExtras       bool `json:"includes_vip_extras"`
}

// PetTier is the per-pet entry of a multi-pet gift certificate.
// HoroscopeAddon is empty when no add-on was purchased for the pet.
type PetTier struct {
	Tier           Tier             `json:"tier" mapstructure:"tier"`
	HoroscopeAddon HoroscopeCadence `json:"horoscope_addon,omitempty" mapstructure:"horoscope_addon"`
}
