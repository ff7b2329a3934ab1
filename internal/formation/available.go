package formation

import "github.com/iliyamo/team-lineup/internal/model"

// Available returns the roster entries that are neither placed on a field
// slot nor sitting on the bench, preserving roster order.
func Available(roster []model.Player, field map[string]*model.Player, bench []model.Player) []model.Player {
	taken := make(map[int64]struct{}, len(field)+len(bench))
	for _, p := range field {
		if p != nil {
			taken[p.ID] = struct{}{}
		}
	}
	for _, p := range bench {
		taken[p.ID] = struct{}{}
	}
	out := make([]model.Player, 0, len(roster))
	for _, p := range roster {
		if _, ok := taken[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}
