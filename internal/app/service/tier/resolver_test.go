package tier

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/astropaws/fulfillment/pkg/types"
)

func newTestResolver() *Resolver {
	return NewResolver(zap.NewNop().Sugar())
}

func TestResolver_Resolve(t *testing.T) {
	r := newTestResolver()

	cases := []struct {
		tier types.Tier
		want types.FeatureSet
	}{
		{types.TierEssential, types.FeatureSet{}},
		{types.TierPortrait, types.FeatureSet{IncludesPortrait: true, IncludesWeeklyHoroscope: true}},
		{types.TierCelestial, types.FeatureSet{IncludesPortrait: true, IncludesWeeklyHoroscope: true, IncludesVipExtras: true}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, r.Resolve(tc.tier), "tier %s", tc.tier)
	}
}

func TestResolver_Resolve_UnknownTierDegrades(t *testing.T) {
	r := newTestResolver()

	fs := r.Resolve(types.Tier("platinum_deluxe"))
	require.Equal(t, types.FeatureSet{}, fs)
}

func TestResolver_Resolve_Deterministic(t *testing.T) {
	r := newTestResolver()

	first := r.Resolve(types.TierCelestial)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, r.Resolve(types.TierCelestial))
	}
}

func TestResolver_ResolvePet_AddonIndependentOfTier(t *testing.T) {
	r := newTestResolver()

	fs := r.ResolvePet(types.PetTier{Tier: types.TierEssential, HoroscopeAddon: types.HoroscopeCadenceMonthly})
	require.False(t, fs.IncludesPortrait)
	require.True(t, fs.IncludesWeeklyHoroscope)

	// no add-on: the base tier alone decides
	fs = r.ResolvePet(types.PetTier{Tier: types.TierEssential})
	require.False(t, fs.IncludesWeeklyHoroscope)
}

func TestResolver_ResolvePets_Aggregates(t *testing.T) {
	r := newTestResolver()

	res := r.ResolvePets([]types.PetTier{
		{Tier: types.TierPortrait},
		{Tier: types.TierEssential, HoroscopeAddon: types.HoroscopeCadenceMonthly},
	})
	require.Len(t, res.Pets, 2)
	require.True(t, res.Pets[0].IncludesPortrait)
	require.False(t, res.Pets[1].IncludesPortrait)
	require.True(t, res.Pets[1].IncludesWeeklyHoroscope)
	require.True(t, res.AnyPortrait)
	require.True(t, res.AnyHoroscope)

	res = r.ResolvePets([]types.PetTier{{Tier: types.TierEssential}})
	require.False(t, res.AnyPortrait)
	require.False(t, res.AnyHoroscope)
}
