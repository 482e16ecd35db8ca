package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/storage"
)

// BaseExpToNext is the experience required from level 1 to level 2.
// Each subsequent requirement grows by a factor of 1.5, floored.
const BaseExpToNext = 100

// KV implements every State interface over a storage.Store. Absent
// keys decode to zero-value documents so callers never see "not found"
// for per-user state.
type KV struct {
	store storage.Store
}

// NewKV creates a KV state repository over the given store.
func NewKV(store storage.Store) *KV {
	return &KV{store: store}
}

// GetInventory returns the user's inventory, empty if never written.
func (r *KV) GetInventory(ctx context.Context, userID string) (*domain.Inventory, error) {
	inv := &domain.Inventory{}
	if _, err := r.store.Get(ctx, storage.KeyInventory(userID), inv); err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	return inv, nil
}

// SaveInventory persists the user's inventory.
func (r *KV) SaveInventory(ctx context.Context, userID string, inv domain.Inventory) error {
	return r.store.Set(ctx, storage.KeyInventory(userID), inv)
}

// GetEquipped returns the user's loadout. Legacy document shapes
// (slot mapped to a bare id string was the only shape ever shipped;
// an intermediate build wrote objects with an instance_id field) are
// normalized here, once, at the storage boundary.
func (r *KV) GetEquipped(ctx context.Context, userID string) (*domain.EquippedItems, error) {
	var rawDoc struct {
		Slots map[string]json.RawMessage `json:"slots"`
	}
	found, err := r.store.Get(ctx, storage.KeyEquipped(userID), &rawDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to load equipped items: %w", err)
	}

	eq := domain.NewEquippedItems()
	if !found {
		return &eq, nil
	}

	for slot, raw := range rawDoc.Slots {
		cat := domain.Category(slot)
		if !cat.Valid() {
			continue
		}
		id, err := normalizeEquippedRef(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize equipped slot %s: %w", slot, err)
		}
		if id != "" {
			eq.Slots[cat] = id
		}
	}
	return &eq, nil
}

// normalizeEquippedRef accepts either a bare instance-id string or a
// legacy object carrying instance_id/item_id and returns the id.
func normalizeEquippedRef(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, nil
	}

	var legacy struct {
		InstanceID string `json:"instance_id"`
		ItemID     string `json:"item_id"`
	}
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return "", err
	}
	if legacy.InstanceID != "" {
		return legacy.InstanceID, nil
	}
	return legacy.ItemID, nil
}

// SaveEquipped persists the user's loadout in the normalized shape.
func (r *KV) SaveEquipped(ctx context.Context, userID string, eq domain.EquippedItems) error {
	return r.store.Set(ctx, storage.KeyEquipped(userID), eq)
}

// GetPoints returns the user's point balance, zero if never written.
func (r *KV) GetPoints(ctx context.Context, userID string) (int, error) {
	ledger := domain.PointsLedger{}
	if _, err := r.store.Get(ctx, storage.KeyPoints(userID), &ledger); err != nil {
		return 0, fmt.Errorf("failed to load points: %w", err)
	}
	return ledger.Balance, nil
}

// SavePoints persists the user's point balance.
func (r *KV) SavePoints(ctx context.Context, userID string, balance int) error {
	return r.store.Set(ctx, storage.KeyPoints(userID), domain.PointsLedger{Balance: balance})
}

// GetLevel returns the user's level progress, initialized to level 1
// with the base exp requirement if never written.
func (r *KV) GetLevel(ctx context.Context, userID string) (*domain.LevelProgress, error) {
	lp := &domain.LevelProgress{}
	found, err := r.store.Get(ctx, storage.KeyLevel(userID), lp)
	if err != nil {
		return nil, fmt.Errorf("failed to load level progress: %w", err)
	}
	if !found {
		lp = &domain.LevelProgress{Level: 1, Exp: 0, ExpToNext: BaseExpToNext}
	}
	return lp, nil
}

// SaveLevel persists the user's level progress.
func (r *KV) SaveLevel(ctx context.Context, userID string, lp domain.LevelProgress) error {
	return r.store.Set(ctx, storage.KeyLevel(userID), lp)
}

// GetQuestState returns the user's quest progress, empty if never written.
func (r *KV) GetQuestState(ctx context.Context, userID string) (*domain.QuestState, error) {
	qs := domain.NewQuestState()
	if _, err := r.store.Get(ctx, storage.KeyQuests(userID), &qs); err != nil {
		return nil, fmt.Errorf("failed to load quest state: %w", err)
	}
	if qs.Progress == nil {
		qs.Progress = make(map[string]domain.QuestProgress)
	}
	return &qs, nil
}

// SaveQuestState persists the user's quest progress.
func (r *KV) SaveQuestState(ctx context.Context, userID string, qs domain.QuestState) error {
	return r.store.Set(ctx, storage.KeyQuests(userID), qs)
}

// GetResetState returns the user's reset timestamps, zero if never written.
func (r *KV) GetResetState(ctx context.Context, userID string) (*domain.ResetState, error) {
	rs := &domain.ResetState{}
	if _, err := r.store.Get(ctx, storage.KeyResets(userID), rs); err != nil {
		return nil, fmt.Errorf("failed to load reset state: %w", err)
	}
	return rs, nil
}

// SaveResetState persists the user's reset timestamps.
func (r *KV) SaveResetState(ctx context.Context, userID string, rs domain.ResetState) error {
	return r.store.Set(ctx, storage.KeyResets(userID), rs)
}

// GetStreak returns the user's streak, zero if never written.
func (r *KV) GetStreak(ctx context.Context, userID string) (*domain.StreakState, error) {
	st := &domain.StreakState{}
	if _, err := r.store.Get(ctx, storage.KeyStreak(userID), st); err != nil {
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}
	return st, nil
}

// SaveStreak persists the user's streak.
func (r *KV) SaveStreak(ctx context.Context, userID string, st domain.StreakState) error {
	return r.store.Set(ctx, storage.KeyStreak(userID), st)
}

// GetAttendance returns the user's monthly attendance sheet. The
// attendance service rolls the sheet over on month change.
func (r *KV) GetAttendance(ctx context.Context, userID string) (*domain.MonthlyAttendance, error) {
	ma := domain.NewMonthlyAttendance("")
	if _, err := r.store.Get(ctx, storage.KeyAttendance(userID), &ma); err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}
	if ma.AttendedDays == nil {
		ma.AttendedDays = make(map[int]bool)
	}
	if ma.ClaimedRewards == nil {
		ma.ClaimedRewards = make(map[int]bool)
	}
	return &ma, nil
}

// SaveAttendance persists the user's monthly attendance sheet.
func (r *KV) SaveAttendance(ctx context.Context, userID string, ma domain.MonthlyAttendance) error {
	return r.store.Set(ctx, storage.KeyAttendance(userID), ma)
}

// ListUsers returns the distinct user IDs with any persisted state.
// Returns nil when the backing store cannot enumerate keys.
func (r *KV) ListUsers(ctx context.Context) ([]string, error) {
	lister, ok := r.store.(storage.Lister)
	if !ok {
		return nil, nil
	}

	keys, err := lister.Keys(ctx, storage.KeyPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list state keys: %w", err)
	}

	seen := make(map[string]bool)
	var users []string
	for _, k := range keys {
		id := storage.UserIDFromKey(k)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		users = append(users, id)
	}
	return users, nil
}
