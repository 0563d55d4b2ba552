package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	s, db, alice, bob := newExpenseFixture(t)
	ctx := context.Background()

	for _, c := range []string{"Food", "Food", "Transport"} {
		_, err := s.Create(ctx, alice, "1", c)
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, bob, "1", "Food")
	require.NoError(t, err)

	p := NewProfileService(db)
	view, err := p.Profile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", view.User.Username)
	assert.Equal(t, int64(3), view.ExpenseCount)
	assert.Equal(t, int64(2), view.CategoryCount)

	_, err = p.Profile(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
