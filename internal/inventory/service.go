// Package inventory manages item acquisition, the seven-slot equipped
// loadout, and the resolved stat view.
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/safequest/engine/internal/calibration"
	"github.com/safequest/engine/internal/catalog"
	"github.com/safequest/engine/internal/concurrency"
	"github.com/safequest/engine/internal/domain"
	"github.com/safequest/engine/internal/event"
	"github.com/safequest/engine/internal/logger"
	"github.com/safequest/engine/internal/repository"
	"github.com/safequest/engine/internal/setbonus"
)

// Repository is the persistence surface the inventory service needs.
type Repository interface {
	repository.Inventory
	GetPoints(ctx context.Context, userID string) (int, error)
	SavePoints(ctx context.Context, userID string, balance int) error
}

// AcquireResult describes a purchased item instance.
type AcquireResult struct {
	Instance domain.ItemInstance `json:"instance"`
	Price    int                 `json:"price"`
	Balance  int                 `json:"balance"`
}

// EquipResult reports the slot change from an equip call.
type EquipResult struct {
	Category domain.Category `json:"category"`
	Equipped string          `json:"equipped"`
	Replaced string          `json:"replaced,omitempty"`
}

// Service defines the interface for inventory operations
type Service interface {
	GetInventory(ctx context.Context, userID string) (*domain.Inventory, error)
	Acquire(ctx context.Context, userID, itemID string) (*AcquireResult, error)
	Remove(ctx context.Context, userID, instanceID string) error
	Equip(ctx context.Context, userID, instanceID string) (*EquipResult, error)
	Unequip(ctx context.Context, userID string, category domain.Category) error
	GetLoadout(ctx context.Context, userID string) (*setbonus.Loadout, error)
	VerifyStats(ctx context.Context, userID string) ([]string, error)
}

// timeNow is swapped in tests.
var timeNow = time.Now

type service struct {
	repo      Repository
	cat       *catalog.Catalog
	resolver  *setbonus.Resolver
	locks     *concurrency.LockManager
	publisher *event.ResilientPublisher
	newID     func() string
}

// NewService creates a new inventory service
func NewService(repo Repository, cat *catalog.Catalog, locks *concurrency.LockManager, publisher *event.ResilientPublisher) Service {
	return &service{
		repo:      repo,
		cat:       cat,
		resolver:  setbonus.NewResolver(cat),
		locks:     locks,
		publisher: publisher,
		newID:     uuid.NewString,
	}
}

// GetInventory returns the user's owned instances.
func (s *service) GetInventory(ctx context.Context, userID string) (*domain.Inventory, error) {
	return s.repo.GetInventory(ctx, userID)
}

// Acquire purchases one catalog item, deducting its price and minting a
// fresh level-0 instance whose active stats equal the base stats.
func (s *service) Acquire(ctx context.Context, userID, itemID string) (*AcquireResult, error) {
	def, ok := s.cat.ItemByID(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}

	var result *AcquireResult
	err := s.locks.WithLock(userID, func() error {
		balance, err := s.repo.GetPoints(ctx, userID)
		if err != nil {
			return err
		}
		if balance < def.Price {
			return fmt.Errorf("%w: need %d, have %d", domain.ErrInsufficientPoints, def.Price, balance)
		}

		inv, err := s.repo.GetInventory(ctx, userID)
		if err != nil {
			return err
		}

		inst := domain.ItemInstance{
			InstanceID:  s.newID(),
			ItemID:      def.ID,
			Level:       0,
			SetID:       def.SetID,
			ActiveStats: def.BaseStats,
			AcquiredAt:  timeNow(),
		}
		inv.Instances = append(inv.Instances, inst)

		balance -= def.Price
		if err := s.repo.SavePoints(ctx, userID, balance); err != nil {
			return err
		}
		if err := s.repo.SaveInventory(ctx, userID, *inv); err != nil {
			return err
		}

		result = &AcquireResult{Instance: inst, Price: def.Price, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Item acquired",
		"user_id", userID, "item_id", itemID, "instance_id", result.Instance.InstanceID, "price", result.Price)

	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, event.NewItemAcquiredEvent(userID, itemID, result.Instance.InstanceID, result.Price))
	}

	return result, nil
}

// Remove deletes an owned instance. If the instance is currently
// equipped its slot is cleared as well.
func (s *service) Remove(ctx context.Context, userID, instanceID string) error {
	return s.locks.WithLock(userID, func() error {
		inv, err := s.repo.GetInventory(ctx, userID)
		if err != nil {
			return err
		}

		idx := inv.Find(instanceID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, instanceID)
		}
		inv.Instances = append(inv.Instances[:idx], inv.Instances[idx+1:]...)

		eq, err := s.repo.GetEquipped(ctx, userID)
		if err != nil {
			return err
		}
		for cat, id := range eq.Slots {
			if id == instanceID {
				delete(eq.Slots, cat)
				if err := s.repo.SaveEquipped(ctx, userID, *eq); err != nil {
					return err
				}
				break
			}
		}

		return s.repo.SaveInventory(ctx, userID, *inv)
	})
}

// Equip places an owned instance into its category slot, replacing
// whatever occupied the slot. The category comes from the catalog
// definition, not from the caller.
func (s *service) Equip(ctx context.Context, userID, instanceID string) (*EquipResult, error) {
	var result *EquipResult
	err := s.locks.WithLock(userID, func() error {
		inv, err := s.repo.GetInventory(ctx, userID)
		if err != nil {
			return err
		}

		idx := inv.Find(instanceID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, instanceID)
		}
		inst := inv.Instances[idx]

		def, ok := s.cat.ItemByID(inst.ItemID)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrItemNotFound, inst.ItemID)
		}
		if !def.Category.Valid() {
			return fmt.Errorf("%w: %s", domain.ErrInvalidCategory, def.Category)
		}

		eq, err := s.repo.GetEquipped(ctx, userID)
		if err != nil {
			return err
		}

		replaced := eq.Slots[def.Category]
		eq.Slots[def.Category] = instanceID
		if err := s.repo.SaveEquipped(ctx, userID, *eq); err != nil {
			return err
		}

		result = &EquipResult{Category: def.Category, Equipped: instanceID, Replaced: replaced}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Item equipped",
		"user_id", userID, "instance_id", instanceID, "category", result.Category, "replaced", result.Replaced)
	return result, nil
}

// Unequip clears one loadout slot.
func (s *service) Unequip(ctx context.Context, userID string, category domain.Category) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidCategory, category)
	}

	return s.locks.WithLock(userID, func() error {
		eq, err := s.repo.GetEquipped(ctx, userID)
		if err != nil {
			return err
		}
		if _, ok := eq.Slots[category]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrNotEquipped, category)
		}
		delete(eq.Slots, category)
		return s.repo.SaveEquipped(ctx, userID, *eq)
	})
}

// GetLoadout resolves the equipped set: per-slot instances, active set
// bonuses, summed gear and bonus stats, and the display aura.
func (s *service) GetLoadout(ctx context.Context, userID string) (*setbonus.Loadout, error) {
	inv, err := s.repo.GetInventory(ctx, userID)
	if err != nil {
		return nil, err
	}
	eq, err := s.repo.GetEquipped(ctx, userID)
	if err != nil {
		return nil, err
	}

	loadout := s.resolver.Resolve(*eq, inv)
	return &loadout, nil
}

// VerifyStats recomputes every owned instance's active stats from the
// catalog and reports instances whose cached stats have diverged.
func (s *service) VerifyStats(ctx context.Context, userID string) ([]string, error) {
	inv, err := s.repo.GetInventory(ctx, userID)
	if err != nil {
		return nil, err
	}

	var diverged []string
	for _, inst := range inv.Instances {
		def, ok := s.cat.ItemByID(inst.ItemID)
		if !ok {
			continue
		}
		cfg, ok := s.cat.CalibrationConfigFor(def.Rarity)
		if !ok {
			continue
		}
		if !calibration.VerifyActiveStats(inst, def.BaseStats, cfg) {
			diverged = append(diverged, inst.InstanceID)
		}
	}
	return diverged, nil
}
