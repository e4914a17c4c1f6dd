package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_RoundTrip(t *testing.T) {
	t.Setenv(EnvVar, "")
	c := Credentials{Dir: t.TempDir()}

	ti, err := c.Get()
	require.NoError(t, err)
	assert.Nil(t, ti)

	require.NoError(t, c.Set("Bearer abc123", nil))
	ti, err = c.Get()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, "abc123", ti.Token)
	assert.Equal(t, "file", ti.Source)

	require.NoError(t, c.Delete())
	ti, err = c.Get()
	require.NoError(t, err)
	assert.Nil(t, ti)

	// deleting twice is fine
	require.NoError(t, c.Delete())
}

func TestCredentials_EnvWins(t *testing.T) {
	c := Credentials{Dir: t.TempDir()}
	require.NoError(t, c.Set("from-file", nil))
	t.Setenv(EnvVar, "bearer from-env")

	ti, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, "from-env", ti.Token)
	assert.Equal(t, "env", ti.Source)
}

func TestCredentials_EmptyToken(t *testing.T) {
	c := Credentials{Dir: t.TempDir()}
	assert.Error(t, c.Set("   ", nil))
	assert.Error(t, c.Set("Bearer ", nil))
}

func TestTokenInfo_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (*TokenInfo)(nil).Expired(now))
	assert.False(t, (&TokenInfo{}).Expired(now))
	assert.True(t, (&TokenInfo{ExpiresAt: &past}).Expired(now))
	assert.False(t, (&TokenInfo{ExpiresAt: &future}).Expired(now))
}
