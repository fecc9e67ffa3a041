package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sant0-9/daptalk/internal/style"
	"github.com/sant0-9/daptalk/internal/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "settings.yaml"))

	st, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, &Settings{}, st)
}

func TestProfileAndUsageShareFile(t *testing.T) {
	s := NewStore(DefaultPath(t.TempDir()))

	require.NoError(t, s.SaveProfile(style.Profile{Gender: style.Female, AgeGroup: "30s", OpponentGender: style.Male}))
	require.NoError(t, s.SaveUsage(usage.State{Date: "2026-01-02", Count: 2, Premium: true}))

	p, err := s.LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, style.Profile{Gender: style.Female, AgeGroup: "30s"}, p)

	u, err := s.LoadUsage()
	require.NoError(t, err)
	assert.Equal(t, usage.State{Date: "2026-01-02", Count: 2, Premium: true}, u)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadLegacyAgeLabel(t *testing.T) {
	path := DefaultPath(t.TempDir())
	require.NoError(t, os.WriteFile(path, []byte("profile:\n  gender: male\n  age: 20대\n"), 0600))

	p, err := NewStore(path).LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, "20s", p.AgeGroup)
}

func TestLoadCorruptFile(t *testing.T) {
	path := DefaultPath(t.TempDir())
	require.NoError(t, os.WriteFile(path, []byte("profile: [unterminated"), 0600))

	_, err := NewStore(path).Load()
	assert.Error(t, err)
}

func TestCounterPersistsThroughStore(t *testing.T) {
	s := NewStore(DefaultPath(t.TempDir()))

	c, err := usage.NewCounter(2, s, nil)
	require.NoError(t, err)
	require.NoError(t, c.Allow())
	require.NoError(t, c.Record())

	again, err := usage.NewCounter(2, s, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Remaining())
}
