package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/team-lineup/internal/model"
)

// Slot names under the configured prefix.
const (
	PlayersSlot = "players"
	StaffSlot   = "staffs"
)

// RosterRepo persists the roster and the full staff list as JSON arrays in a
// SlotStore.  Field, bench and staff selection are never written.
type RosterRepo struct {
	slots  SlotStore
	prefix string
	log    *zap.Logger
}

// NewRosterRepo constructs a RosterRepo.  An empty prefix stores slots under
// their bare names.
func NewRosterRepo(slots SlotStore, prefix string, log *zap.Logger) *RosterRepo {
	if log == nil {
		log = zap.NewNop()
	}
	return &RosterRepo{slots: slots, prefix: prefix, log: log}
}

func (r *RosterRepo) key(slot string) string {
	if r.prefix == "" {
		return slot
	}
	return r.prefix + ":" + slot
}

// SavePlayers writes the roster in order.
func (r *RosterRepo) SavePlayers(ctx context.Context, players []model.Player) error {
	return save(ctx, r, PlayersSlot, players)
}

// SaveStaff writes the full staff list.
func (r *RosterRepo) SaveStaff(ctx context.Context, staff []model.Staff) error {
	return save(ctx, r, StaffSlot, staff)
}

// LoadPlayers reads the roster.  When the slot is absent or holds invalid
// JSON the default sample is returned with fallback set.  A storage failure
// returns an error wrapping ErrSlotRead and no data, so callers never mistake
// an unreachable store for an empty one.
func (r *RosterRepo) LoadPlayers(ctx context.Context) (players []model.Player, fallback bool, err error) {
	return load(ctx, r, PlayersSlot, DefaultPlayers)
}

// LoadStaff is LoadPlayers for the staff list.
func (r *RosterRepo) LoadStaff(ctx context.Context) (staff []model.Staff, fallback bool, err error) {
	return load(ctx, r, StaffSlot, DefaultStaff)
}

func save[T any](ctx context.Context, r *RosterRepo, slot string, items []T) error {
	if items == nil {
		items = []T{}
	}
	bs, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", slot, err)
	}
	if err := r.slots.Set(ctx, r.key(slot), bs); err != nil {
		return fmt.Errorf("store %s: %w", slot, err)
	}
	return nil
}

func load[T any](ctx context.Context, r *RosterRepo, slot string, def func() []T) ([]T, bool, error) {
	bs, err := r.slots.Get(ctx, r.key(slot))
	if errors.Is(err, ErrSlotNotFound) {
		return def(), true, nil
	}
	if err != nil {
		r.log.Error("slot read failed", zap.String("slot", slot), zap.Error(err))
		return nil, false, fmt.Errorf("%w: %s: %w", ErrSlotRead, slot, err)
	}
	var items []T
	if err := json.Unmarshal(bs, &items); err != nil {
		r.log.Warn("slot content unreadable, using sample data", zap.String("slot", slot), zap.Error(err))
		return def(), true, nil
	}
	if items == nil {
		// "null" decodes to a nil slice; treat it like a corrupt slot.
		return def(), true, nil
	}
	return items, false, nil
}
