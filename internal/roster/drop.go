package roster

import (
	"context"
	"strconv"
	"strings"
)

// Droppable container ids used by the lineup UI.
const (
	ListContainer  = "playerList"
	BenchContainer = "substitutes"
	StaffContainer = "staff"
	FieldPrefix    = "field-"
)

// Draggable id prefixes rendered by the bench and staff containers.
const (
	benchDraggablePrefix = "sub-"
	staffDraggablePrefix = "staff-"
)

// DropOutcome names the mutation a drop resolved to.
type DropOutcome string

const (
	DropNoop      DropOutcome = "noop"
	DropReordered DropOutcome = "reordered"
	DropField     DropOutcome = "field"
	DropBench     DropOutcome = "bench"
	DropStaff     DropOutcome = "staff"
)

// DropLocation is one end of a drag gesture.
type DropLocation struct {
	DroppableID string `json:"droppable_id"`
	Index       int    `json:"index"`
}

// DropResult describes a completed drag gesture.  A nil Destination means
// the gesture was cancelled.
type DropResult struct {
	Source      DropLocation  `json:"source"`
	Destination *DropLocation `json:"destination"`
	DraggableID string        `json:"draggable_id"`
}

// Drop routes a drag gesture to the matching mutator.  Unresolvable items and
// unrecognized destinations are a silent no-op.  Only roster reordering
// persists, so the error is non-nil only when that write fails.
func (s *Store) Drop(ctx context.Context, r DropResult) (DropOutcome, error) {
	if r.Destination == nil {
		return DropNoop, nil
	}
	dst := r.Destination.DroppableID

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Source.DroppableID == ListContainer && dst == ListContainer {
		ok, err := s.reorder(ctx, r.Source.Index, r.Destination.Index)
		if !ok {
			return DropNoop, err
		}
		return DropReordered, err
	}

	id, ok := parseDraggableID(r.DraggableID)
	if !ok {
		return DropNoop, nil
	}

	if i := s.playerIndex(id); i >= 0 {
		p := s.players[i]
		switch {
		case strings.HasPrefix(dst, FieldPrefix):
			slot := strings.TrimPrefix(dst, FieldPrefix)
			if slot == "" {
				return DropNoop, nil
			}
			s.assignField(slot, &p)
			return DropField, nil
		case dst == BenchContainer:
			s.addToBench(p)
			return DropBench, nil
		case dst == StaffContainer:
			s.addSelectedStaff(p.Person)
			return DropStaff, nil
		}
		return DropNoop, nil
	}

	for _, m := range s.staff {
		if m.ID == id {
			if dst == StaffContainer {
				s.addSelectedStaff(m.Person)
				return DropStaff, nil
			}
			return DropNoop, nil
		}
	}
	return DropNoop, nil
}

func parseDraggableID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, benchDraggablePrefix)
	raw = strings.TrimPrefix(raw, staffDraggablePrefix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
