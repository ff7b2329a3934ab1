// Package roster owns the lineup state: the roster and staff lists that are
// persisted, and the field assignments, bench and staff selection that live
// only in memory.  All mutations go through Store.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/team-lineup/internal/formation"
	"github.com/iliyamo/team-lineup/internal/model"
)

var (
	// ErrUnknownFormation is returned by SetFormation for names outside the catalog.
	ErrUnknownFormation = errors.New("unknown formation")
	// ErrPlayerNotFound is returned when an id does not match any roster entry.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrInvalidMember wraps add-entity validation failures.
	ErrInvalidMember = errors.New("invalid member")
	// ErrLoadFailed is returned by Load when the persisted lists could not be
	// read.  The store is left untouched and nothing is written back.
	ErrLoadFailed = errors.New("load roster failed")
)

// Persister is the write-through target for the roster and staff lists.
// repository.RosterRepo implements it.
type Persister interface {
	SavePlayers(ctx context.Context, players []model.Player) error
	SaveStaff(ctx context.Context, staff []model.Staff) error
	LoadPlayers(ctx context.Context) ([]model.Player, bool, error)
	LoadStaff(ctx context.Context) ([]model.Staff, bool, error)
}

// Store is the lineup state container.  It is safe for concurrent use; each
// call runs to completion under the store lock.
//
// A player occupies at most one place among the field slots and the bench:
// placing them somewhere removes them from wherever they were.  The staff
// selection is independent of that placement.
type Store struct {
	mu   sync.RWMutex
	repo Persister
	log  *zap.Logger
	now  func() time.Time

	players       []model.Player
	staff         []model.Staff
	field         map[string]*model.Player
	bench         []model.Player
	selectedStaff []model.Person
	formation     string
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the clock used to mint member ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore builds an empty store on top of repo and panics if repo is nil.
// Call Load to read the persisted lists.
func NewStore(repo Persister, opts ...Option) *Store {
	if repo == nil {
		panic("nil persister passed to roster.NewStore")
	}
	s := &Store{
		repo:      repo,
		log:       zap.NewNop(),
		now:       time.Now,
		field:     make(map[string]*model.Player),
		formation: formation.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ensureSlots(formation.Default)
	return s
}

// Load reads the roster and staff lists.  A list that is absent or corrupt
// falls back to the default sample, which is written back so the next load
// sees it.  A read failure wraps ErrLoadFailed and changes nothing, so a
// flaky store never gets its saved roster replaced by the sample.
func (s *Store) Load(ctx context.Context) error {
	players, playersFallback, perr := s.repo.LoadPlayers(ctx)
	staff, staffFallback, serr := s.repo.LoadStaff(ctx)
	if err := errors.Join(perr, serr); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = players
	s.staff = staff

	var errs []error
	if playersFallback {
		s.log.Info("seeding roster with sample players", zap.Int("count", len(players)))
		errs = append(errs, s.repo.SavePlayers(ctx, s.players))
	}
	if staffFallback {
		s.log.Info("seeding staff with sample members", zap.Int("count", len(staff)))
		errs = append(errs, s.repo.SaveStaff(ctx, s.staff))
	}
	return errors.Join(errs...)
}

// Players returns the roster in order, filtered by a case-insensitive
// substring of the last name when query is not empty.
func (s *Store) Players(query string) []model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		if q == "" || strings.Contains(strings.ToLower(p.LastName), q) {
			out = append(out, p)
		}
	}
	return out
}

// Staff returns the full staff list.
func (s *Store) Staff() []model.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Staff{}, s.staff...)
}

// Player looks up a roster entry by id.
func (s *Store) Player(id int64) (model.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.playerIndex(id); i >= 0 {
		return s.players[i], true
	}
	return model.Player{}, false
}

// StaffMember looks up a staff entry by id.
func (s *Store) StaffMember(id int64) (model.Staff, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.staff {
		if m.ID == id {
			return m, true
		}
	}
	return model.Staff{}, false
}

// SetRoster replaces the roster wholesale and persists it.  The in-memory
// roster is replaced even when persisting fails.
func (s *Store) SetRoster(ctx context.Context, players []model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = append([]model.Player{}, players...)
	return s.persistPlayers(ctx)
}

// SetStaffList replaces the staff list wholesale and persists it.
func (s *Store) SetStaffList(ctx context.Context, staff []model.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff = append([]model.Staff{}, staff...)
	return s.persistStaff(ctx)
}

// AddMember validates m, fills defaults, assigns a fresh id and appends it to
// the roster (players) or the staff list (staff).
func (s *Store) AddMember(ctx context.Context, m model.Member) (model.Member, error) {
	if err := m.Validate(); err != nil {
		return model.Member{}, fmt.Errorf("%w: %w", ErrInvalidMember, err)
	}
	// Copy the variant so the caller's value is never aliased.
	switch m.Kind {
	case model.KindPlayer:
		p := *m.Player
		m.Player = &p
	case model.KindStaff:
		st := *m.Staff
		m.Staff = &st
	}
	m.ApplyDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()
	m.Base().ID = s.nextID()
	if m.Kind == model.KindPlayer {
		s.players = append(s.players, *m.Player)
		return m, s.persistPlayers(ctx)
	}
	s.staff = append(s.staff, *m.Staff)
	return m, s.persistStaff(ctx)
}

// UpdatePlayer replaces the roster entry with the same id.  The replacement
// must carry the same required fields as a new player.  Copies held on the
// field or the bench are refreshed too.
func (s *Store) UpdatePlayer(ctx context.Context, p model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.playerIndex(p.ID)
	if i < 0 {
		return ErrPlayerNotFound
	}
	if err := (model.Member{Kind: model.KindPlayer, Player: &p}).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMember, err)
	}
	s.players[i] = p
	for slot, fp := range s.field {
		if fp != nil && fp.ID == p.ID {
			cp := p
			s.field[slot] = &cp
		}
	}
	for j := range s.bench {
		if s.bench[j].ID == p.ID {
			s.bench[j] = p
		}
	}
	return s.persistPlayers(ctx)
}

// DeletePlayer removes the roster entry with the given id and takes the
// player off the field and the bench.  It reports whether an entry was
// removed; an unknown id is a no-op.
func (s *Store) DeletePlayer(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.playerIndex(id)
	if i < 0 {
		return false, nil
	}
	s.players = append(s.players[:i:i], s.players[i+1:]...)
	s.unplace(id)
	return true, s.persistPlayers(ctx)
}

// Reorder moves the roster entry at from to index to.  Out of range indexes
// leave the roster untouched and report false.
func (s *Store) Reorder(ctx context.Context, from, to int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reorder(ctx, from, to)
}

func (s *Store) reorder(ctx context.Context, from, to int) (bool, error) {
	n := len(s.players)
	if from < 0 || from >= n || to < 0 || to >= n {
		return false, nil
	}
	if from == to {
		return true, nil
	}
	moved := s.players[from]
	rest := append(s.players[:from:from], s.players[from+1:]...)
	out := make([]model.Player, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	s.players = out
	return true, s.persistPlayers(ctx)
}

// Formation returns the active formation name.
func (s *Store) Formation() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.formation
}

// SetFormation switches the active formation.  Existing assignments are kept;
// slots of the new formation missing from the map are added unassigned.
func (s *Store) SetFormation(name string) error {
	if !formation.Exists(name) {
		return fmt.Errorf("%w: %q", ErrUnknownFormation, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formation = name
	s.ensureSlots(name)
	return nil
}

// AssignField sets or clears one field slot.  Slot ids are not checked
// against the active formation.  A non-nil player is removed from any other
// slot and from the bench first.
func (s *Store) AssignField(slotID string, p *model.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignField(slotID, p)
}

// AssignFieldByID places the roster player with the given id in slotID.  The
// lookup and the placement happen under one lock, so a concurrent delete
// cannot leave a removed player on the field.
func (s *Store) AssignFieldByID(slotID string, id int64) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.playerIndex(id)
	if i < 0 {
		return model.Player{}, ErrPlayerNotFound
	}
	p := s.players[i]
	s.assignField(slotID, &p)
	return p, nil
}

func (s *Store) assignField(slotID string, p *model.Player) {
	if p == nil {
		s.field[slotID] = nil
		return
	}
	s.unplace(p.ID)
	cp := *p
	s.field[slotID] = &cp
}

// ClearField marks every slot unassigned.
func (s *Store) ClearField() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slot := range s.field {
		s.field[slot] = nil
	}
}

// AddToBench appends p to the bench, taking them off the field.  A player
// already on the bench is left where they are.
func (s *Store) AddToBench(p model.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addToBench(p)
}

// AddToBenchByID puts the roster player with the given id on the bench,
// looking them up under the same lock.
func (s *Store) AddToBenchByID(id int64) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.playerIndex(id)
	if i < 0 {
		return model.Player{}, ErrPlayerNotFound
	}
	p := s.players[i]
	s.addToBench(p)
	return p, nil
}

func (s *Store) addToBench(p model.Player) {
	for _, b := range s.bench {
		if b.ID == p.ID {
			return
		}
	}
	s.unplace(p.ID)
	s.bench = append(s.bench, p)
}

// RemoveFromBench removes the bench entry with the given id, if any.
func (s *Store) RemoveFromBench(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bench = removePlayer(s.bench, id)
}

// AddSelectedStaff appends person to the matchday staff selection unless a
// person with the same id is already selected.
func (s *Store) AddSelectedStaff(person model.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addSelectedStaff(person)
}

func (s *Store) addSelectedStaff(person model.Person) {
	for _, p := range s.selectedStaff {
		if p.ID == person.ID {
			return
		}
	}
	s.selectedStaff = append(s.selectedStaff, person)
}

// RemoveSelectedStaff drops a person from the staff selection.
func (s *Store) RemoveSelectedStaff(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.selectedStaff {
		if p.ID == id {
			s.selectedStaff = append(s.selectedStaff[:i:i], s.selectedStaff[i+1:]...)
			return
		}
	}
}

// Available returns the roster minus players on the field or the bench.
func (s *Store) Available() []model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return formation.Available(s.players, s.field, s.bench)
}

// Slot is one position of the active formation with its assigned player.
type Slot struct {
	formation.Position
	Player *model.Player `json:"player"`
}

// Lineup is a point-in-time copy of the in-memory lineup state.
type Lineup struct {
	Formation     string                   `json:"formation"`
	Slots         []Slot                   `json:"slots"`
	Field         map[string]*model.Player `json:"field"`
	Bench         []model.Player           `json:"bench"`
	SelectedStaff []model.Person           `json:"selected_staff"`
	Available     []model.Player           `json:"available"`
}

// Snapshot copies the current lineup.
func (s *Store) Snapshot() Lineup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	positions, _ := formation.Lookup(s.formation)
	slots := make([]Slot, 0, len(positions))
	for _, pos := range positions {
		slots = append(slots, Slot{Position: pos, Player: copyPlayer(s.field[pos.ID])})
	}
	field := make(map[string]*model.Player, len(s.field))
	for k, v := range s.field {
		field[k] = copyPlayer(v)
	}
	return Lineup{
		Formation:     s.formation,
		Slots:         slots,
		Field:         field,
		Bench:         append([]model.Player{}, s.bench...),
		SelectedStaff: append([]model.Person{}, s.selectedStaff...),
		Available:     formation.Available(s.players, s.field, s.bench),
	}
}

// nextID returns the clock in milliseconds, bumped past any id in use.
func (s *Store) nextID() int64 {
	used := make(map[int64]struct{}, len(s.players)+len(s.staff))
	for _, p := range s.players {
		used[p.ID] = struct{}{}
	}
	for _, m := range s.staff {
		used[m.ID] = struct{}{}
	}
	id := s.now().UnixMilli()
	for {
		if _, ok := used[id]; !ok {
			return id
		}
		id++
	}
}

func (s *Store) playerIndex(id int64) int {
	for i, p := range s.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// unplace takes a player off every field slot and the bench.
func (s *Store) unplace(id int64) {
	for slot, fp := range s.field {
		if fp != nil && fp.ID == id {
			s.field[slot] = nil
		}
	}
	s.bench = removePlayer(s.bench, id)
}

func (s *Store) ensureSlots(name string) {
	positions, _ := formation.Lookup(name)
	for _, pos := range positions {
		if _, ok := s.field[pos.ID]; !ok {
			s.field[pos.ID] = nil
		}
	}
}

func (s *Store) persistPlayers(ctx context.Context) error {
	if err := s.repo.SavePlayers(ctx, s.players); err != nil {
		s.log.Warn("persist roster failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *Store) persistStaff(ctx context.Context) error {
	if err := s.repo.SaveStaff(ctx, s.staff); err != nil {
		s.log.Warn("persist staff failed", zap.Error(err))
		return err
	}
	return nil
}

func removePlayer(list []model.Player, id int64) []model.Player {
	for i, p := range list {
		if p.ID == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}

func copyPlayer(p *model.Player) *model.Player {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
