package tier

import (
	"go.uber.org/zap"

	"github.com/astropaws/fulfillment/pkg/types"
)

// featureTable is the fixed tier -> benefit mapping. Add-ons are layered on
// top by ResolvePet, never baked into this table.
var featureTable = map[types.Tier]types.FeatureSet{
	types.TierEssential: {},
	types.TierPortrait:  {IncludesPortrait: true, IncludesWeeklyHoroscope: true},
	types.TierCelestial: {IncludesPortrait: true, IncludesWeeklyHoroscope: true, IncludesVipExtras: true},
}

// Resolver maps purchased tiers to feature sets. Resolution is a pure
// function of its inputs; the logger only reports unknown tier values, which
// degrade to the essential feature set instead of erroring.
type Resolver struct {
	log *zap.SugaredLogger
}

func NewResolver(log *zap.SugaredLogger) *Resolver {
	return &Resolver{log: log}
}

// Resolve maps a single order-level tier to its feature set.
func (r *Resolver) Resolve(t types.Tier) types.FeatureSet {
	fs, ok := featureTable[t]
	if !ok {
		if r.log != nil {
			r.log.Warnw("unknown_tier", "tier", t)
		}
		return types.FeatureSet{}
	}
	return fs
}

// ResolvePet maps one pet's tier plus its optional horoscope add-on. The
// add-on sets the horoscope flag independently of the tier, so a base-tier
// pet with a horoscope add-on ends up with horoscope but no portrait.
func (r *Resolver) ResolvePet(pt types.PetTier) types.FeatureSet {
	fs := r.Resolve(pt.Tier)
	if pt.HoroscopeAddon != "" {
		fs.IncludesWeeklyHoroscope = true
	}
	return fs
}

// PetResolution is the per-pet resolution of a multi-pet gift plus the
// aggregate flags used for order-level messaging.
type PetResolution struct {
	Pets         []types.FeatureSet
	AnyPortrait  bool
	AnyHoroscope bool
}

// ResolvePets resolves a per-pet tier array.
func (r *Resolver) ResolvePets(pets []types.PetTier) *PetResolution {
	res := &PetResolution{Pets: make([]types.FeatureSet, 0, len(pets))}
	for _, pt := range pets {
		fs := r.ResolvePet(pt)
		res.Pets = append(res.Pets, fs)
		res.AnyPortrait = res.AnyPortrait || fs.IncludesPortrait
		res.AnyHoroscope = res.AnyHoroscope || fs.IncludesWeeklyHoroscope
	}
	return res
}
