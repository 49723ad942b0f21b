package tokenstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndConsume(t *testing.T) {
	s := New(time.Hour)
	tok := s.Issue("recA")
	require.NotEmpty(t, tok.Token)
	assert.Equal(t, time.Hour, tok.ExpiresAt.Sub(tok.CreatedAt))

	got, ok := s.Get(tok.Token)
	require.True(t, ok)
	assert.Equal(t, "recA", got.UserID)

	_, ok = s.Consume(tok.Token)
	assert.True(t, ok)
	_, ok = s.Consume(tok.Token)
	assert.False(t, ok)
}

func TestIssueReplacesPreviousToken(t *testing.T) {
	s := New(time.Hour)
	first := s.Issue("recA")
	second := s.Issue("recA")

	_, ok := s.Get(first.Token)
	assert.False(t, ok)
	_, ok = s.Get(second.Token)
	assert.True(t, ok)
}

func TestExpiryCheckedOnRead(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := New(24 * time.Hour)
	s.now = func() time.Time { return now }

	tok := s.Issue("recA")
	now = now.Add(24*time.Hour - time.Second)
	_, ok := s.Get(tok.Token)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = s.Get(tok.Token)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s := New(time.Hour)
	a := s.Issue("recA")
	b := s.Issue("recB")

	s.DeleteByKey(a.Token)
	_, ok := s.Get(a.Token)
	assert.False(t, ok)

	s.DeleteByUserID("recB")
	_, ok = s.Get(b.Token)
	assert.False(t, ok)

	s.DeleteByUserID("nobody")
	s.DeleteByKey("nothing")
}
