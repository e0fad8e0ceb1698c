package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/saasdash/internal/prefs"
)

func TestSetTokenVisibleAndPersisted(t *testing.T) {
	p := prefs.NewMemory()
	s := New(p)

	_, ok := s.Token()
	assert.False(t, ok)
	assert.False(t, s.Authenticated())

	s.SetToken("tok123")
	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok123", tok)

	// A fresh store over the same record sees the token.
	again := New(p)
	tok, ok = again.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok123", tok)
}

func TestClearToken(t *testing.T) {
	p := prefs.NewMemory()
	s := New(p)
	s.SetToken("tok123")
	s.ClearToken()

	_, ok := s.Token()
	assert.False(t, ok)
	_, ok, err := p.Get(prefs.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	s.SetToken("a")
	s.SetToken("")
	assert.False(t, s.Authenticated(), "empty token clears the session")
}

func TestLastWriteWins(t *testing.T) {
	s := New(prefs.NewMemory())
	s.SetToken("first")
	s.SetToken("second")
	tok, _ := s.Token()
	assert.Equal(t, "second", tok)
}

func TestTokenIsCached(t *testing.T) {
	p := prefs.NewMemory()
	require.NoError(t, p.Set(prefs.KeyToken, "stored"))
	s := New(p)
	tok, _ := s.Token()
	assert.Equal(t, "stored", tok)

	// Out-of-band writes are not observed once cached.
	require.NoError(t, p.Set(prefs.KeyToken, "other"))
	tok, _ = s.Token()
	assert.Equal(t, "stored", tok)
}

func TestEnvTokenNotPersisted(t *testing.T) {
	p := prefs.NewMemory()
	require.NoError(t, p.Set(prefs.KeyToken, "stored"))
	s := New(p, WithEnvToken("fromenv"))

	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "fromenv", tok)

	v, _, _ := p.Get(prefs.KeyToken)
	assert.Equal(t, "stored", v)
}

type failingPrefs struct{ prefs.Store }

func (failingPrefs) Set(string, string) error { return errors.New("disk full") }
func (failingPrefs) Delete(string) error      { return errors.New("disk full") }

func TestWriteFailuresStillUpdateMemory(t *testing.T) {
	s := New(failingPrefs{prefs.NewMemory()})
	s.SetToken("tok")
	tok, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok", tok)

	s.ClearToken()
	assert.False(t, s.Authenticated())
}
