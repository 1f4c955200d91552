package session

import (
	"testing"
	"time"

	"github.com/UnendingLoop/PhotoRestorer/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateGetDelete(t *testing.T) {
	st := NewStore(time.Minute)

	s := st.Create()
	require.Equal(t, 1, st.Len())

	got, err := st.Get(s.ID().String())
	require.NoError(t, err)
	require.Same(t, s, got)

	require.NoError(t, st.Delete(s.ID().String()))
	require.Equal(t, 0, st.Len())

	_, err = st.Get(s.ID().String())
	require.ErrorIs(t, err, model.ErrSessionNotFound)
	require.ErrorIs(t, st.Delete(s.ID().String()), model.ErrSessionNotFound)
}

func TestStore_GetInvalidID(t *testing.T) {
	st := NewStore(0)
	_, err := st.Get("not-a-uuid")
	require.ErrorIs(t, err, model.ErrIncorrectID)
	require.ErrorIs(t, st.Delete("nope"), model.ErrIncorrectID)

	_, err = st.Get(uuid.NewString())
	require.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestStore_Sweep(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := start

	st := NewStore(10 * time.Minute)
	st.now = func() time.Time { return clock }

	idle := st.Create()
	busy := st.Create()
	require.NoError(t, busy.SetSource(srcImage))
	_, _, _, err := busy.Begin()
	require.NoError(t, err)

	clock = start.Add(5 * time.Minute)
	fresh := st.Create()

	require.Equal(t, 0, st.Sweep(start.Add(9*time.Minute)))

	removed := st.Sweep(start.Add(11 * time.Minute))
	require.Equal(t, 1, removed)

	_, err = st.Get(idle.ID().String())
	require.ErrorIs(t, err, model.ErrSessionNotFound)
	_, err = st.Get(busy.ID().String())
	require.NoError(t, err, "processing sessions are never swept")
	_, err = st.Get(fresh.ID().String())
	require.NoError(t, err)
}
