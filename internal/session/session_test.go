package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klse-analytics/portal/internal/access"
	"github.com/klse-analytics/portal/internal/apiclient"
	"github.com/klse-analytics/portal/internal/roster"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *time.Time) {
	t.Helper()
	st, err := NewStore(ttl)
	require.NoError(t, err)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }
	return st, &now
}

func TestStore(t *testing.T) {
	t.Run("create and get", func(t *testing.T) {
		st, _ := newTestStore(t, time.Hour)
		s := st.Create()

		got, ok := st.Get(s.ID)
		require.True(t, ok)
		assert.Same(t, s, got)
		assert.Equal(t, access.StateIdle, got.View().Gate.State)
		assert.Equal(t, TabRegister, got.View().Tab)
	})

	t.Run("unknown id", func(t *testing.T) {
		st, _ := newTestStore(t, time.Hour)
		_, ok := st.Get("nope")
		assert.False(t, ok)
	})

	t.Run("idle session expires on get", func(t *testing.T) {
		st, now := newTestStore(t, time.Hour)
		s := st.Create()
		*now = now.Add(2 * time.Hour)

		_, ok := st.Get(s.ID)
		assert.False(t, ok)
		assert.Equal(t, 0, st.Len())
	})

	t.Run("get keeps session alive", func(t *testing.T) {
		st, now := newTestStore(t, time.Hour)
		s := st.Create()
		*now = now.Add(50 * time.Minute)
		_, ok := st.Get(s.ID)
		require.True(t, ok)
		*now = now.Add(50 * time.Minute)

		_, ok = st.Get(s.ID)
		assert.True(t, ok)
	})

	t.Run("sweep", func(t *testing.T) {
		st, now := newTestStore(t, time.Hour)
		st.Create()
		st.Create()
		*now = now.Add(30 * time.Minute)
		fresh := st.Create()
		*now = now.Add(45 * time.Minute)

		assert.Equal(t, 2, st.Sweep())
		assert.Equal(t, 1, st.Len())
		_, ok := st.Get(fresh.ID)
		assert.True(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		st, _ := newTestStore(t, time.Hour)
		s := st.Create()
		st.Delete(s.ID)
		assert.Equal(t, 0, st.Len())
	})
}

func TestStartBackgroundSweep(t *testing.T) {
	st, err := NewStore(time.Millisecond)
	require.NoError(t, err)
	st.Create()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	st.StartBackgroundSweep(ctx, 5*time.Millisecond)

	assert.Eventually(t, func() bool { return st.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestPanelCredentials(t *testing.T) {
	st, _ := newTestStore(t, time.Hour)
	s := st.Create()
	creds := apiclient.Credentials{Username: "admin", Password: "secret"}

	err := s.Update(func(state *State) error {
		_, err := state.Credentials()
		assert.ErrorIs(t, err, ErrNotAuthenticated)

		require.NoError(t, state.Authenticate(creds, []roster.Subscriber{{Email: "a@test.com", Status: roster.StatusActive}}))
		assert.NotContains(t, string(state.Panel.creds), "secret")

		got, err := state.Credentials()
		require.NoError(t, err)
		assert.Equal(t, creds, got)
		return nil
	})
	require.NoError(t, err)

	v := s.View()
	assert.True(t, v.Admin.Authenticated)
	require.Len(t, v.Admin.Rows, 1)

	require.NoError(t, s.Update(func(state *State) error {
		state.ClosePanel()
		_, err := state.Credentials()
		assert.ErrorIs(t, err, ErrNotAuthenticated)
		return nil
	}))
	assert.Empty(t, s.View().Admin.Rows)
}

func TestParseTab(t *testing.T) {
	for _, s := range []string{"register", "status", "admin"} {
		tab, ok := ParseTab(s)
		assert.True(t, ok)
		assert.Equal(t, Tab(s), tab)
	}
	_, ok := ParseTab("dashboard")
	assert.False(t, ok)
}
