package domain

import "time"

// QuestPeriod determines which reset boundary clears a quest.
type QuestPeriod string

const (
	QuestPeriodDaily   QuestPeriod = "daily"
	QuestPeriodWeekly  QuestPeriod = "weekly"
	QuestPeriodMonthly QuestPeriod = "monthly"
)

// RoleAll matches every caller role when used as a quest role filter.
const RoleAll = "all"

// QuestDefinition is immutable catalog data for a quest.
type QuestDefinition struct {
	ID           string      `json:"id"`
	Description  string      `json:"description"`
	Period       QuestPeriod `json:"period"`
	Action       string      `json:"action"`
	Role         string      `json:"role"`
	Target       int         `json:"target"`
	RewardPoints int         `json:"reward_points"`
	RewardExp    int         `json:"reward_exp"`
}

// QuestProgress is the per-user state of a single quest. Completed is a
// one-way latch: once set, the reward has been granted exactly once and
// further progress updates never re-grant it.
type QuestProgress struct {
	Current   int  `json:"current"`
	Completed bool `json:"completed"`
}

// QuestState is the per-user quest progress document.
type QuestState struct {
	Progress map[string]QuestProgress `json:"progress"`
}

// NewQuestState returns an empty quest state.
func NewQuestState() QuestState {
	return QuestState{Progress: make(map[string]QuestProgress)}
}

// ResetState records when each periodic reset last ran for a user.
type ResetState struct {
	LastDaily   time.Time `json:"last_daily"`
	LastWeekly  time.Time `json:"last_weekly"`
	LastMonthly time.Time `json:"last_monthly"`
}
