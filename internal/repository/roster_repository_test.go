package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/team-lineup/internal/model"
)

type failingSlots struct{ err error }

func (f failingSlots) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingSlots) Set(context.Context, string, []byte) error   { return f.err }

func TestLoadWithoutStoredStateReturnsSamples(t *testing.T) {
	repo := NewRosterRepo(NewMemorySlots(), "team", nil)
	ctx := context.Background()

	players, fallback, err := repo.LoadPlayers(ctx)
	require.NoError(t, err)
	assert.True(t, fallback)
	require.Len(t, players, 3)
	assert.Equal(t, []int64{1823, 1824, 1825}, []int64{players[0].ID, players[1].ID, players[2].ID})

	staff, fallback, err := repo.LoadStaff(ctx)
	require.NoError(t, err)
	assert.True(t, fallback)
	require.Len(t, staff, 2)
	assert.Equal(t, model.RoleCoach, staff[0].Role)
}

func TestPlayersRoundTrip(t *testing.T) {
	slots := NewMemorySlots()
	repo := NewRosterRepo(slots, "team", nil)
	ctx := context.Background()

	post := "gk"
	want := []model.Player{
		{Person: model.Person{ID: 3, LastName: "Zed", CalledUp: true}, ShirtNumber: "1", Post: &post},
		{Person: model.Person{ID: 1, LastName: "Alpha"}, ShirtNumber: "10"},
		{Person: model.Person{ID: 2, LastName: "Mid", Image: "data:image/png;base64,AAAA"}},
	}
	require.NoError(t, repo.SavePlayers(ctx, want))

	got, fallback, err := repo.LoadPlayers(ctx)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, want, got)

	raw, err := slots.Get(ctx, "team:players")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"last_name":"Zed"`)
}

func TestEmptyListIsKept(t *testing.T) {
	repo := NewRosterRepo(NewMemorySlots(), "", nil)
	ctx := context.Background()

	require.NoError(t, repo.SaveStaff(ctx, nil))
	staff, fallback, err := repo.LoadStaff(ctx)
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Empty(t, staff)
}

func TestCorruptSlotFallsBack(t *testing.T) {
	slots := NewMemorySlots()
	repo := NewRosterRepo(slots, "", nil)
	ctx := context.Background()

	for _, payload := range []string{"{not json", "null", `{"id":1}`} {
		require.NoError(t, slots.Set(ctx, PlayersSlot, []byte(payload)))
		players, fallback, err := repo.LoadPlayers(ctx)
		require.NoError(t, err, payload)
		assert.True(t, fallback, payload)
		assert.Len(t, players, 3, payload)
	}
}

func TestStorageErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := NewRosterRepo(failingSlots{err: boom}, "", nil)
	ctx := context.Background()

	err := repo.SavePlayers(ctx, DefaultPlayers())
	require.ErrorIs(t, err, boom)

	players, fallback, err := repo.LoadPlayers(ctx)
	require.ErrorIs(t, err, ErrSlotRead)
	require.ErrorIs(t, err, boom)
	assert.False(t, fallback, "a read failure is not an absent slot")
	assert.Nil(t, players)
}

func TestMemorySlotsCopies(t *testing.T) {
	m := NewMemorySlots()
	ctx := context.Background()
	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'x'

	out, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
