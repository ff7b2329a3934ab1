package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/team-lineup/internal/model"
	"github.com/iliyamo/team-lineup/internal/repository"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *repository.RosterRepo) {
	t.Helper()
	repo := repository.NewRosterRepo(repository.NewMemorySlots(), "test", nil)
	s := NewStore(repo, opts...)
	require.NoError(t, s.Load(context.Background()))
	return s, repo
}

func ids(players []model.Player) []int64 {
	out := make([]int64, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

type brokenRepo struct {
	err error
}

func (b *brokenRepo) SavePlayers(context.Context, []model.Player) error { return b.err }
func (b *brokenRepo) SaveStaff(context.Context, []model.Staff) error    { return b.err }
func (b *brokenRepo) LoadPlayers(context.Context) ([]model.Player, bool, error) {
	return repository.DefaultPlayers(), true, nil
}
func (b *brokenRepo) LoadStaff(context.Context) ([]model.Staff, bool, error) {
	return repository.DefaultStaff(), true, nil
}

// flakyReadSlots fails the next readFailures Get calls, then behaves like
// the wrapped store.
type flakyReadSlots struct {
	*repository.MemorySlots
	readFailures int
}

func (f *flakyReadSlots) Get(ctx context.Context, key string) ([]byte, error) {
	if f.readFailures > 0 {
		f.readFailures--
		return nil, errors.New("i/o timeout")
	}
	return f.MemorySlots.Get(ctx, key)
}

func TestLoadSeedsAndPersistsSamples(t *testing.T) {
	s, repo := newTestStore(t)

	assert.Equal(t, []int64{1823, 1824, 1825}, ids(s.Players("")))
	assert.Len(t, s.Staff(), 2)

	stored, fallback, err := repo.LoadPlayers(context.Background())
	require.NoError(t, err)
	assert.False(t, fallback, "sample should have been written back")
	assert.Len(t, stored, 3)
}

func TestLoadKeepsStoredState(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRosterRepo(repository.NewMemorySlots(), "", nil)
	require.NoError(t, repo.SavePlayers(ctx, []model.Player{{Person: model.Person{ID: 7, LastName: "Seven"}}}))
	require.NoError(t, repo.SaveStaff(ctx, []model.Staff{}))

	s := NewStore(repo)
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, []int64{7}, ids(s.Players("")))
	assert.Empty(t, s.Staff())
}

func TestLoadReadErrorKeepsStoredRoster(t *testing.T) {
	ctx := context.Background()
	slots := &flakyReadSlots{MemorySlots: repository.NewMemorySlots()}
	repo := repository.NewRosterRepo(slots, "", nil)
	require.NoError(t, repo.SavePlayers(ctx, []model.Player{{Person: model.Person{ID: 42, LastName: "Kept"}}}))
	require.NoError(t, repo.SaveStaff(ctx, []model.Staff{}))

	slots.readFailures = 1
	s := NewStore(repo)
	err := s.Load(ctx)
	require.ErrorIs(t, err, ErrLoadFailed)
	require.ErrorIs(t, err, repository.ErrSlotRead)
	assert.Empty(t, s.Players(""), "nothing is loaded on a read failure")

	stored, fallback, err := repo.LoadPlayers(ctx)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, []int64{42}, ids(stored), "stored roster must not be replaced by the sample")

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, []int64{42}, ids(s.Players("")))
}

func TestPlayersFilterIsCaseInsensitive(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Equal(t, []int64{1825}, ids(s.Players("YASS")))
	assert.Equal(t, []int64{1823, 1824}, ids(s.Players("a")[:2]))
	assert.Empty(t, s.Players("zzz"))
}

func TestSetRosterPersists(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()

	list := []model.Player{{Person: model.Person{ID: 1}}, {Person: model.Person{ID: 1}}}
	require.NoError(t, s.SetRoster(ctx, list))

	stored, _, _ := repo.LoadPlayers(ctx)
	assert.Equal(t, []int64{1, 1}, ids(stored), "duplicates are accepted as-is")
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	boom := errors.New("boom")
	s := NewStore(&brokenRepo{err: boom})
	err := s.Load(context.Background())
	require.ErrorIs(t, err, boom)

	err = s.SetStaffList(context.Background(), nil)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, s.Staff())
	assert.Len(t, s.Players(""), 3)
}

func TestAddMemberPlayer(t *testing.T) {
	clock := time.UnixMilli(1823)
	s, repo := newTestStore(t, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	added, err := s.AddMember(ctx, model.Member{
		Kind: model.KindPlayer,
		Player: &model.Player{
			Person:      model.Person{LastName: "Dupont", FirstName: "Jean", LicenseNumber: "L123"},
			ShirtNumber: "10",
		},
	})
	require.NoError(t, err)

	// The clock collides with existing ids 1823..1825, so the id is bumped.
	assert.Equal(t, int64(1826), added.Player.ID)
	assert.Equal(t, model.RolePlayer, added.Player.Role)
	assert.Equal(t, model.DefaultCategory, added.Player.Category)
	assert.Equal(t, model.DefaultTeamID, added.Player.TeamID)

	players := s.Players("")
	require.Len(t, players, 4)
	assert.Equal(t, "Dupont", players[3].LastName)

	stored, _, _ := repo.LoadPlayers(ctx)
	assert.Len(t, stored, 4)
}

func TestAddMemberStaff(t *testing.T) {
	s, _ := newTestStore(t, WithClock(func() time.Time { return time.UnixMilli(5000) }))

	added, err := s.AddMember(context.Background(), model.Member{
		Kind:  model.KindStaff,
		Staff: &model.Staff{Person: model.Person{LastName: "Regragui", FirstName: "Walid", LicenseNumber: "C1", Role: model.RoleCoach}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), added.Staff.ID)
	assert.Len(t, s.Staff(), 3)
	assert.Len(t, s.Players(""), 3)
}

func TestAddMemberRejectsMissingFields(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.AddMember(context.Background(), model.Member{
		Kind:   model.KindPlayer,
		Player: &model.Player{Person: model.Person{LastName: "Dupont"}},
	})
	require.ErrorIs(t, err, ErrInvalidMember)
	require.ErrorIs(t, err, model.ErrMissingFields)

	var missing *model.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"first_name", "shirt_number", "license_number"}, missing.Fields)
	assert.Len(t, s.Players(""), 3, "no partial record")
}

func TestDeletePlayer(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p, _ := s.Player(1824)
	s.AssignField("gk", &p)

	removed, err := s.DeletePlayer(ctx, 1824)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []int64{1823, 1825}, ids(s.Players("")))
	assert.Nil(t, s.Snapshot().Field["gk"])

	removed, err = s.DeletePlayer(ctx, 42)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []int64{1823, 1825}, ids(s.Players("")))
}

func TestUpdatePlayerRefreshesPlacedCopies(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p, _ := s.Player(1823)
	s.AssignField("st", &p)
	q, _ := s.Player(1824)
	s.AddToBench(q)

	p.ShirtNumber = "9"
	require.NoError(t, s.UpdatePlayer(ctx, p))
	q.LastName = "renamed"
	require.NoError(t, s.UpdatePlayer(ctx, q))

	snap := s.Snapshot()
	assert.Equal(t, "9", snap.Field["st"].ShirtNumber)
	assert.Equal(t, "renamed", snap.Bench[0].LastName)

	err := s.UpdatePlayer(ctx, model.Player{Person: model.Person{ID: 1}})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestUpdatePlayerRejectsMissingFields(t *testing.T) {
	s, repo := newTestStore(t)
	ctx := context.Background()
	before, _ := s.Player(1824)

	err := s.UpdatePlayer(ctx, model.Player{Person: model.Person{ID: 1824}})
	require.ErrorIs(t, err, ErrInvalidMember)
	var missing *model.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"last_name", "first_name", "shirt_number", "license_number"}, missing.Fields)

	after, _ := s.Player(1824)
	assert.Equal(t, before, after)
	stored, _, _ := repo.LoadPlayers(ctx)
	assert.Contains(t, stored, before)
}

func TestAssignFieldByID(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.AssignFieldByID("gk", 1824)
	require.NoError(t, err)
	assert.Equal(t, int64(1824), p.ID)
	assert.Equal(t, int64(1824), s.Snapshot().Field["gk"].ID)

	_, err = s.AssignFieldByID("st", 42)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.Nil(t, s.Snapshot().Field["st"])
}

func TestAddToBenchByID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AssignFieldByID("gk", 1825)
	require.NoError(t, err)
	p, err := s.AddToBenchByID(1825)
	require.NoError(t, err)
	assert.Equal(t, int64(1825), p.ID)
	snap := s.Snapshot()
	assert.Nil(t, snap.Field["gk"])
	assert.Equal(t, []int64{1825}, ids(snap.Bench))

	removed, err := s.DeletePlayer(ctx, 1823)
	require.NoError(t, err)
	require.True(t, removed)
	_, err = s.AddToBenchByID(1823)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	assert.Equal(t, []int64{1825}, ids(s.Snapshot().Bench))
}

func TestReorderPreservesMembership(t *testing.T) {
	cases := []struct {
		from, to int
		want     []int64
		moved    bool
	}{
		{0, 2, []int64{1824, 1825, 1823}, true},
		{2, 0, []int64{1825, 1823, 1824}, true},
		{1, 1, []int64{1823, 1824, 1825}, true},
		{0, 3, []int64{1823, 1824, 1825}, false},
		{-1, 0, []int64{1823, 1824, 1825}, false},
	}
	for _, tc := range cases {
		s, repo := newTestStore(t)
		moved, err := s.Reorder(context.Background(), tc.from, tc.to)
		require.NoError(t, err)
		assert.Equal(t, tc.moved, moved)
		assert.Equal(t, tc.want, ids(s.Players("")))

		stored, _, _ := repo.LoadPlayers(context.Background())
		assert.ElementsMatch(t, []int64{1823, 1824, 1825}, ids(stored))
		assert.Equal(t, tc.want, ids(stored))
	}
}

func TestAssignFieldThenClear(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Player(1823)
	b, _ := s.Player(1824)
	s.AssignField("cb1", &b)
	before := s.Snapshot().Field

	s.AssignField("gk", &a)
	assert.Equal(t, int64(1823), s.Snapshot().Field["gk"].ID)

	s.AssignField("gk", nil)
	assert.Equal(t, before, s.Snapshot().Field)
}

func TestAssignFieldAcceptsUnknownSlot(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Player(1823)

	s.AssignField("sweeper", &a)
	field := s.Snapshot().Field
	require.Contains(t, field, "sweeper")
	assert.Equal(t, int64(1823), field["sweeper"].ID)
}

func TestPlacementIsExclusive(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Player(1823)

	s.AddToBench(a)
	s.AssignField("gk", &a)
	snap := s.Snapshot()
	assert.Empty(t, snap.Bench)
	assert.Equal(t, int64(1823), snap.Field["gk"].ID)

	s.AssignField("st", &a)
	snap = s.Snapshot()
	assert.Nil(t, snap.Field["gk"])
	assert.Equal(t, int64(1823), snap.Field["st"].ID)

	s.AddToBench(a)
	s.AddToBench(a)
	snap = s.Snapshot()
	assert.Nil(t, snap.Field["st"])
	assert.Equal(t, []int64{1823}, ids(snap.Bench))
}

func TestBenchRemove(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Player(1823)
	b, _ := s.Player(1824)
	s.AddToBench(a)
	s.AddToBench(b)

	s.RemoveFromBench(1823)
	assert.Equal(t, []int64{1824}, ids(s.Snapshot().Bench))

	s.RemoveFromBench(999)
	assert.Equal(t, []int64{1824}, ids(s.Snapshot().Bench))
}

func TestSelectedStaff(t *testing.T) {
	s, _ := newTestStore(t)
	coach, _ := s.StaffMember(2105)

	s.AddSelectedStaff(coach.Person)
	s.AddSelectedStaff(coach.Person)
	assert.Len(t, s.Snapshot().SelectedStaff, 1)

	s.RemoveSelectedStaff(2105)
	assert.Empty(t, s.Snapshot().SelectedStaff)
}

func TestAvailableExcludesPlaced(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Player(1823)
	c, _ := s.Player(1825)

	assert.Equal(t, []int64{1823, 1824, 1825}, ids(s.Available()))
	s.AssignField("gk", &a)
	s.AddToBench(c)
	assert.Equal(t, []int64{1824}, ids(s.Available()))
	assert.Equal(t, []int64{1824}, ids(s.Snapshot().Available))
}

func TestFormationSwitch(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Player(1823)
	s.AssignField("gk", &a)

	require.NoError(t, s.SetFormation("3-5-2"))
	snap := s.Snapshot()
	assert.Equal(t, "3-5-2", snap.Formation)
	require.Len(t, snap.Slots, 10)
	assert.Equal(t, int64(1823), snap.Slots[0].Player.ID)
	assert.Contains(t, snap.Field, "cb3")
	assert.Contains(t, snap.Field, "lw", "4-3-3 keys are kept")

	err := s.SetFormation("2-2-6")
	assert.ErrorIs(t, err, ErrUnknownFormation)
	assert.Equal(t, "3-5-2", s.Formation())
}

func TestClearField(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Player(1823)
	b, _ := s.Player(1824)
	s.AssignField("gk", &a)
	s.AddToBench(b)

	s.ClearField()
	snap := s.Snapshot()
	for slot, p := range snap.Field {
		assert.Nil(t, p, slot)
	}
	assert.Len(t, snap.Bench, 1, "bench is untouched")
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Player(1823)
	s.AssignField("gk", &a)

	snap := s.Snapshot()
	snap.Field["gk"].LastName = "mutated"
	a.LastName = "mutated too"

	assert.Equal(t, "walid", s.Snapshot().Field["gk"].LastName)
}
