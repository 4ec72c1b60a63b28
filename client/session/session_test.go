package session_test

import (
	"testing"

	"github.com/shashiranjanraj/brewandco/client/session"
	"github.com/shashiranjanraj/brewandco/client/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T, st store.Store) *session.Session {
	t.Helper()
	s := session.New(st)
	require.NoError(t, s.Load())
	return s
}

func TestCustomerVariant(t *testing.T) {
	st := store.NewMemory()
	s := loaded(t, st)

	require.NoError(t, s.SignInCustomer("tok-c", session.Customer{ID: 1, Username: "alice"}))

	c, ok := s.Customer()
	require.True(t, ok)
	assert.Equal(t, "alice", c.Username)
	_, isAdmin := s.Admin()
	assert.False(t, isAdmin)
	assert.Equal(t, session.KindCustomer, s.Kind())
	assert.Equal(t, "Bearer tok-c", s.AuthHeader())

	again := loaded(t, st)
	c, ok = again.Customer()
	require.True(t, ok)
	assert.EqualValues(t, 1, c.ID)
}

func TestAdminReplacesCustomer(t *testing.T) {
	s := loaded(t, store.NewMemory())
	require.NoError(t, s.SignInCustomer("tok-c", session.Customer{ID: 1}))
	require.NoError(t, s.SignInAdmin("tok-a", session.Admin{ID: 1, Username: "manager", Role: "admin"}))

	_, isCustomer := s.Customer()
	assert.False(t, isCustomer)
	a, ok := s.Admin()
	require.True(t, ok)
	assert.Equal(t, "admin", a.Role)

	assert.ErrorIs(t, s.UpdateCustomer(session.Customer{ID: 1}), session.ErrNoCustomer)
}

func TestUpdateCustomerKeepsToken(t *testing.T) {
	s := loaded(t, store.NewMemory())
	require.NoError(t, s.SignInCustomer("tok-c", session.Customer{ID: 1, Username: "alice"}))

	require.NoError(t, s.UpdateCustomer(session.Customer{ID: 1, Username: "alice", FullName: "Alice A", Phone: "555"}))

	c, _ := s.Customer()
	assert.True(t, c.ProfileComplete())
	assert.Equal(t, "tok-c", s.Token())
}

func TestClearSignsOut(t *testing.T) {
	st := store.NewMemory()
	s := loaded(t, st)
	require.NoError(t, s.SignInCustomer("tok-c", session.Customer{ID: 1}))

	require.NoError(t, s.Clear())

	assert.Empty(t, s.Kind())
	assert.Empty(t, s.AuthHeader())
	assert.Empty(t, loaded(t, st).Token())
}

func TestMalformedRecordIsDiscarded(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Set(session.StorageKey, map[string]any{"kind": "admin", "token": "tok"}))

	s := loaded(t, st)
	assert.Empty(t, s.Kind())
	assert.ErrorIs(t, s.SignInCustomer("", session.Customer{}), session.ErrEmptyToken)
}

func TestRequiresLoad(t *testing.T) {
	s := session.New(store.NewMemory())
	assert.ErrorIs(t, s.SignInAdmin("tok", session.Admin{}), session.ErrNotLoaded)
}
