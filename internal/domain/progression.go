package domain

// PointsLedger is the user's spendable point balance. Never negative:
// every subtraction goes through an affordability check first.
type PointsLedger struct {
	Balance int `json:"balance"`
}

// LevelProgress tracks experience accumulation. ExpToNext grows by a
// factor of 1.5 (floored) on every level-up; leftover exp carries over.
type LevelProgress struct {
	Level     int `json:"level"`
	Exp       int `json:"exp"`
	ExpToNext int `json:"exp_to_next"`
}

// TierInfo describes where a point total falls in the fixed tier bands.
type TierInfo struct {
	Tier     string `json:"tier"`
	SubRank  string `json:"sub_rank"`
	Name     string `json:"name"`
	BandMin  int    `json:"band_min"`
	BandMax  int    `json:"band_max"` // -1 for the unbounded top band
	Progress int    `json:"progress"` // 0-100 within the band
}
