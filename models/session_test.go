package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, token, 64, "hex of 32 bytes = 64 chars")

	hexRegex := regexp.MustCompile(`^[0-9a-f]{64}$`)
	assert.True(t, hexRegex.MatchString(token), "token should be hex string")

	other, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestSession_IsExpired(t *testing.T) {
	now := time.Now()

	s := &Session{ExpiresAt: now.Add(-time.Hour)}
	assert.True(t, s.IsExpired(now))

	s2 := &Session{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, s2.IsExpired(now))

	// 恰好到期视为过期
	s3 := &Session{ExpiresAt: now}
	assert.True(t, s3.IsExpired(now))
}

func TestExpense_OwnedBy(t *testing.T) {
	e := &Expense{UserID: 3}
	assert.True(t, e.OwnedBy(3))
	assert.False(t, e.OwnedBy(4))
	// 匿名用户不拥有任何记录
	assert.False(t, (&Expense{}).OwnedBy(0))
}

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()
	assert.Contains(t, cats, CategoryFood)
	seen := map[string]bool{}
	for _, c := range cats {
		assert.False(t, seen[c], "duplicate default category %s", c)
		seen[c] = true
	}
}
