package storage

import (
	"fmt"
	"strings"
)

// Key prefixes for per-user engine state. Stable: changing these
// orphans persisted state.
const (
	keyPrefix = "sq"

	entityInventory  = "inventory"
	entityEquipped   = "equipped"
	entityPoints     = "points"
	entityLevel      = "level"
	entityQuests     = "quests"
	entityResets     = "resets"
	entityStreak     = "streak"
	entityAttendance = "attendance"
)

func userKey(userID, entity string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, userID, entity)
}

// KeyInventory returns the state key for a user's item instances.
func KeyInventory(userID string) string { return userKey(userID, entityInventory) }

// KeyEquipped returns the state key for a user's equipped loadout.
func KeyEquipped(userID string) string { return userKey(userID, entityEquipped) }

// KeyPoints returns the state key for a user's points ledger.
func KeyPoints(userID string) string { return userKey(userID, entityPoints) }

// KeyLevel returns the state key for a user's level progress.
func KeyLevel(userID string) string { return userKey(userID, entityLevel) }

// KeyQuests returns the state key for a user's quest progress.
func KeyQuests(userID string) string { return userKey(userID, entityQuests) }

// KeyResets returns the state key for a user's reset timestamps.
func KeyResets(userID string) string { return userKey(userID, entityResets) }

// KeyStreak returns the state key for a user's check-in streak.
func KeyStreak(userID string) string { return userKey(userID, entityStreak) }

// KeyAttendance returns the state key for a user's monthly attendance.
func KeyAttendance(userID string) string { return userKey(userID, entityAttendance) }

// KeyPrefix is the namespace prefix shared by all engine state keys.
func KeyPrefix() string { return keyPrefix + ":" }

// UserIDFromKey extracts the user segment from a state key, or ""
// when the key is not in the sq:{user}:{entity} form.
func UserIDFromKey(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 || parts[0] != keyPrefix {
		return ""
	}
	return parts[1]
}
