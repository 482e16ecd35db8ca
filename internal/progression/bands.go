package progression

import (
	"math"

	"github.com/safequest/engine/internal/domain"
)

// Band is one of the fifteen fixed point bands: five tiers of three
// sub-ranks each, ascending III → II → I. Bands are contiguous and
// non-overlapping; the last band is unbounded.
type Band struct {
	Tier    string
	SubRank string
	Min     int
	Max     int // -1 marks the unbounded top band
}

// Name returns the display name, e.g. "Gold II".
func (b Band) Name() string {
	return b.Tier + " " + b.SubRank
}

// bands is ordered ascending; lookup is a linear scan.
var bands = []Band{
	{Tier: "Bronze", SubRank: "III", Min: 0, Max: 99},
	{Tier: "Bronze", SubRank: "II", Min: 100, Max: 249},
	{Tier: "Bronze", SubRank: "I", Min: 250, Max: 499},
	{Tier: "Silver", SubRank: "III", Min: 500, Max: 999},
	{Tier: "Silver", SubRank: "II", Min: 1000, Max: 1999},
	{Tier: "Silver", SubRank: "I", Min: 2000, Max: 3499},
	{Tier: "Gold", SubRank: "III", Min: 3500, Max: 5499},
	{Tier: "Gold", SubRank: "II", Min: 5500, Max: 7999},
	{Tier: "Gold", SubRank: "I", Min: 8000, Max: 11499},
	{Tier: "Platinum", SubRank: "III", Min: 11500, Max: 15999},
	{Tier: "Platinum", SubRank: "II", Min: 16000, Max: 21999},
	{Tier: "Platinum", SubRank: "I", Min: 22000, Max: 29999},
	{Tier: "Diamond", SubRank: "III", Min: 30000, Max: 44999},
	{Tier: "Diamond", SubRank: "II", Min: 45000, Max: 69999},
	{Tier: "Diamond", SubRank: "I", Min: 70000, Max: -1},
}

// Bands returns the full band table in ascending order.
func Bands() []Band {
	return bands
}

// CalculateTier maps a point total onto its band. Progress is the
// rounded percentage through the band; the unbounded top band always
// reports 100.
func CalculateTier(points int) domain.TierInfo {
	if points < 0 {
		points = 0
	}

	for _, b := range bands {
		if b.Max >= 0 && points > b.Max {
			continue
		}

		info := domain.TierInfo{
			Tier:    b.Tier,
			SubRank: b.SubRank,
			Name:    b.Name(),
			BandMin: b.Min,
			BandMax: b.Max,
		}
		if b.Max < 0 {
			info.Progress = 100
		} else {
			span := float64(b.Max - b.Min)
			info.Progress = int(math.Round(float64(points-b.Min) / span * 100))
		}
		return info
	}

	// Unreachable: the last band is unbounded.
	last := bands[len(bands)-1]
	return domain.TierInfo{Tier: last.Tier, SubRank: last.SubRank, Name: last.Name(), BandMin: last.Min, BandMax: -1, Progress: 100}
}
