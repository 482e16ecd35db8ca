package catalog

import "github.com/safequest/engine/internal/domain"

// Default returns the compiled-in catalog. A JSON catalog file loaded
// at startup replaces these tables wholesale (see loader.go).
func Default() *Catalog {
	return build(defaultItems(), defaultSets(), defaultConfigs(), defaultQuests(), defaultLadder())
}

func strptr(s string) *string { return &s }

func defaultConfigs() map[domain.Rarity]domain.CalibrationConfig {
	return map[domain.Rarity]domain.CalibrationConfig{
		domain.RarityCommon: {
			MaxLevel:         5,
			CostPerLevel:     100,
			SuccessRateBase:  0.95,
			SuccessRateDecay: 0.05,
			StatIncrement:    1.0,
		},
		domain.RarityRare: {
			MaxLevel:         8,
			CostPerLevel:     200,
			SuccessRateBase:  0.90,
			SuccessRateDecay: 0.05,
			StatIncrement:    1.5,
		},
		domain.RarityEpic: {
			MaxLevel:         10,
			CostPerLevel:     350,
			SuccessRateBase:  0.85,
			SuccessRateDecay: 0.06,
			StatIncrement:    2.0,
		},
		domain.RarityLegendary: {
			MaxLevel:         12,
			CostPerLevel:     500,
			SuccessRateBase:  0.80,
			SuccessRateDecay: 0.06,
			StatIncrement:    2.5,
		},
	}
}

func defaultSets() []domain.SetDefinition {
	smallStep := domain.Stats{PointBoost: 2, XPAccelerator: 1, StreakSaver: 0}
	midStep := domain.Stats{PointBoost: 5, XPAccelerator: 3, StreakSaver: 1}
	fullStep := domain.Stats{PointBoost: 10, XPAccelerator: 6, StreakSaver: 2}

	return []domain.SetDefinition{
		{
			ID:     "site-basics",
			Name:   "Site Basics",
			Rarity: domain.RarityCommon,
			Tiers: []domain.SetBonusTier{
				{Pieces: 2, Bonus: smallStep},
				{Pieces: 4, Bonus: domain.Stats{PointBoost: 4, XPAccelerator: 2}},
			},
		},
		{
			ID:     "steel-sentinel",
			Name:   "Steel Sentinel",
			Rarity: domain.RarityRare,
			Aura:   strptr("steel_shimmer"),
			Tiers: []domain.SetBonusTier{
				{Pieces: 2, Bonus: smallStep},
				{Pieces: 4, Bonus: midStep},
			},
		},
		{
			ID:     "lumen-guard",
			Name:   "Lumen Guard",
			Rarity: domain.RarityEpic,
			Aura:   strptr("lumen_glow"),
			Tiers: []domain.SetBonusTier{
				{Pieces: 2, Bonus: smallStep},
				{Pieces: 4, Bonus: midStep},
				{Pieces: 7, Bonus: fullStep},
			},
		},
		{
			ID:     "aegis-prime",
			Name:   "Aegis Prime",
			Rarity: domain.RarityLegendary,
			Aura:   strptr("aegis_radiance"),
			Tiers: []domain.SetBonusTier{
				{Pieces: 2, Bonus: midStep},
				{Pieces: 4, Bonus: fullStep},
				{Pieces: 7, Bonus: domain.Stats{PointBoost: 20, XPAccelerator: 12, StreakSaver: 3}},
			},
		},
	}
}

func defaultItems() []domain.ItemDefinition {
	items := []domain.ItemDefinition{
		// Unaffiliated commons
		{ID: "hard-hat", Name: "Standard Hard Hat", Category: domain.CategoryHelmet, Rarity: domain.RarityCommon, Price: 150, BaseStats: domain.Stats{PointBoost: 1.5, XPAccelerator: 0.5}},
		{ID: "work-gloves", Name: "Canvas Work Gloves", Category: domain.CategoryGloves, Rarity: domain.RarityCommon, Price: 100, BaseStats: domain.Stats{PointBoost: 1.0, XPAccelerator: 0.5}},
		{ID: "dust-mask", Name: "Disposable Dust Mask", Category: domain.CategoryMask, Rarity: domain.RarityCommon, Price: 80, BaseStats: domain.Stats{PointBoost: 0.8, XPAccelerator: 0.4}},
	}

	// Site Basics: common starter set, four pieces
	basics := []struct {
		id, name string
		cat      domain.Category
	}{
		{"basics-helmet", "Site Basics Helmet", domain.CategoryHelmet},
		{"basics-vest", "Site Basics Vest", domain.CategoryVest},
		{"basics-gloves", "Site Basics Gloves", domain.CategoryGloves},
		{"basics-shoes", "Site Basics Boots", domain.CategoryShoes},
	}
	for _, b := range basics {
		items = append(items, domain.ItemDefinition{
			ID: b.id, Name: b.name, Category: b.cat,
			Rarity: domain.RarityCommon, Price: 200,
			BaseStats: domain.Stats{PointBoost: 2.0, XPAccelerator: 1.0},
			SetID:     strptr("site-basics"),
		})
	}

	// Steel Sentinel: rare set, five pieces
	sentinel := []struct {
		id, name string
		cat      domain.Category
	}{
		{"sentinel-helmet", "Sentinel Impact Helmet", domain.CategoryHelmet},
		{"sentinel-vest", "Sentinel Plated Vest", domain.CategoryVest},
		{"sentinel-gloves", "Sentinel Grip Gloves", domain.CategoryGloves},
		{"sentinel-shoes", "Sentinel Steel Toes", domain.CategoryShoes},
		{"sentinel-belt", "Sentinel Tool Belt", domain.CategoryBelt},
	}
	for _, s := range sentinel {
		items = append(items, domain.ItemDefinition{
			ID: s.id, Name: s.name, Category: s.cat,
			Rarity: domain.RarityRare, Price: 600,
			BaseStats: domain.Stats{PointBoost: 4.0, XPAccelerator: 2.0, StreakSaver: 0},
			SetID:     strptr("steel-sentinel"),
		})
	}

	// Lumen Guard: epic set, full seven slots
	lumen := []struct {
		id, name string
		cat      domain.Category
	}{
		{"lumen-helmet", "Lumen Arc Helmet", domain.CategoryHelmet},
		{"lumen-vest", "Lumen Hi-Vis Vest", domain.CategoryVest},
		{"lumen-gloves", "Lumen Insulated Gloves", domain.CategoryGloves},
		{"lumen-shoes", "Lumen Composite Boots", domain.CategoryShoes},
		{"lumen-glasses", "Lumen Safety Glasses", domain.CategoryGlasses},
		{"lumen-belt", "Lumen Harness Belt", domain.CategoryBelt},
		{"lumen-mask", "Lumen Respirator", domain.CategoryMask},
	}
	for _, l := range lumen {
		items = append(items, domain.ItemDefinition{
			ID: l.id, Name: l.name, Category: l.cat,
			Rarity: domain.RarityEpic, Price: 1500,
			BaseStats: domain.Stats{PointBoost: 6.0, XPAccelerator: 3.5, StreakSaver: 1},
			SetID:     strptr("lumen-guard"),
		})
	}

	// Aegis Prime: legendary set, full seven slots
	aegis := []struct {
		id, name string
		cat      domain.Category
	}{
		{"aegis-helmet", "Aegis Prime Helm", domain.CategoryHelmet},
		{"aegis-vest", "Aegis Prime Exovest", domain.CategoryVest},
		{"aegis-gloves", "Aegis Prime Gauntlets", domain.CategoryGloves},
		{"aegis-shoes", "Aegis Prime Striders", domain.CategoryShoes},
		{"aegis-glasses", "Aegis Prime Visor", domain.CategoryGlasses},
		{"aegis-belt", "Aegis Prime Rig", domain.CategoryBelt},
		{"aegis-mask", "Aegis Prime Rebreather", domain.CategoryMask},
	}
	for _, a := range aegis {
		items = append(items, domain.ItemDefinition{
			ID: a.id, Name: a.name, Category: a.cat,
			Rarity: domain.RarityLegendary, Price: 4000,
			BaseStats: domain.Stats{PointBoost: 10.0, XPAccelerator: 6.0, StreakSaver: 1},
			SetID:     strptr("aegis-prime"),
		})
	}

	return items
}

func defaultQuests() []domain.QuestDefinition {
	return []domain.QuestDefinition{
		{ID: "daily-checkin", Description: "Check in for the day", Period: domain.QuestPeriodDaily, Action: "check_in", Role: domain.RoleAll, Target: 1, RewardPoints: 50, RewardExp: 20},
		{ID: "daily-hazard-report", Description: "Report a workplace hazard", Period: domain.QuestPeriodDaily, Action: "report_hazard", Role: domain.RoleAll, Target: 1, RewardPoints: 100, RewardExp: 40},
		{ID: "daily-ppe-scan", Description: "Complete a PPE compliance scan", Period: domain.QuestPeriodDaily, Action: "ppe_scan", Role: domain.RoleAll, Target: 3, RewardPoints: 80, RewardExp: 30},
		{ID: "weekly-training", Description: "Finish three safety training modules", Period: domain.QuestPeriodWeekly, Action: "complete_training", Role: domain.RoleAll, Target: 3, RewardPoints: 400, RewardExp: 150},
		{ID: "weekly-inspection", Description: "Run five site inspections", Period: domain.QuestPeriodWeekly, Action: "site_inspection", Role: "supervisor", Target: 5, RewardPoints: 600, RewardExp: 200},
		{ID: "monthly-safety-champion", Description: "Report twenty hazards this month", Period: domain.QuestPeriodMonthly, Action: "report_hazard", Role: domain.RoleAll, Target: 20, RewardPoints: 2000, RewardExp: 800},
	}
}

func defaultLadder() []domain.AttendanceReward {
	return []domain.AttendanceReward{
		{Day: 3, Points: 50},
		{Day: 7, Points: 120},
		{Day: 14, Points: 300},
		{Day: 21, Points: 600},
		// The grand reward grants points only. The rare-item grant from
		// the original design is intentionally unimplemented.
		{Day: 26, Points: 1500, Grand: true},
	}
}
