package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	user     User
	signedIn bool
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	s := NewSession(nil)
	var events []event
	unsubscribe := s.Subscribe(func(ctx context.Context, u User, ok bool) {
		events = append(events, event{u, ok})
	})

	_, ok := s.Current()
	assert.False(t, ok)

	alice := User{ID: uuid.New(), Name: "alice", Token: "t1"}
	s.SignIn(ctx, alice)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, alice, cur)
	require.Len(t, events, 1)
	assert.Equal(t, event{alice, true}, events[0])

	t.Run("same user refreshes token silently", func(t *testing.T) {
		refreshed := alice
		refreshed.Token = "t2"
		s.SignIn(ctx, refreshed)
		cur, _ := s.Current()
		assert.Equal(t, "t2", cur.Token)
		assert.Len(t, events, 1)
	})

	t.Run("user switch notifies", func(t *testing.T) {
		bob := User{ID: uuid.New(), Name: "bob"}
		s.SignIn(ctx, bob)
		require.Len(t, events, 2)
		assert.Equal(t, bob.ID, events[1].user.ID)
	})

	t.Run("sign out", func(t *testing.T) {
		s.SignOut(ctx)
		_, ok := s.Current()
		assert.False(t, ok)
		require.Len(t, events, 3)
		assert.False(t, events[2].signedIn)
		s.SignOut(ctx)
		assert.Len(t, events, 3)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		unsubscribe()
		s.SignIn(ctx, alice)
		assert.Len(t, events, 3)
	})
}
