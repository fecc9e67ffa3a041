package usage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	state State
	saves int
	err   error
}

func (m *memStore) LoadUsage() (State, error) { return m.state, m.err }

func (m *memStore) SaveUsage(s State) error {
	m.saves++
	m.state = s
	return nil
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestQuotaRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)}
	store := &memStore{state: State{Date: "2026-03-14"}}

	c, err := NewCounter(3, store, clock.now)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Allow(), "attempt %d", i+1)
		require.NoError(t, c.Record())
	}

	assert.Equal(t, FreeAtQuota, c.Status())
	assert.ErrorIs(t, c.Allow(), ErrQuotaExceeded)
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, 3, store.state.Count)

	clock.t = clock.t.Add(24 * time.Hour)
	assert.Equal(t, FreeUnderQuota, c.Status())
	require.NoError(t, c.Allow())
	assert.Equal(t, 0, c.State().Count)
	assert.Equal(t, "2026-03-15", store.state.Date)

	require.NoError(t, c.Record())
	require.NoError(t, c.Record())
	require.NoError(t, c.Record())
	assert.ErrorIs(t, c.Allow(), ErrQuotaExceeded)

	require.NoError(t, c.SetPremium(true))
	assert.Equal(t, Premium, c.Status())
	assert.NoError(t, c.Allow())
	assert.Equal(t, -1, c.Remaining())
	require.NoError(t, c.Record())
	assert.Equal(t, 3, c.State().Count)
}

func TestNewCounterDefaults(t *testing.T) {
	c, err := NewCounter(0, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDailyLimit, c.Limit())
	assert.Equal(t, DefaultDailyLimit, c.Remaining())
}

func TestNewCounterLoadError(t *testing.T) {
	_, err := NewCounter(3, &memStore{err: errors.New("disk")}, nil)
	assert.Error(t, err)
}

func TestStaleDateResetsOnLoad(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)}
	store := &memStore{state: State{Date: "2026-03-01", Count: 99}}

	c, err := NewCounter(3, store, clock.now)
	require.NoError(t, err)

	assert.Equal(t, FreeUnderQuota, c.Status())
	assert.Equal(t, 3, c.Remaining())
}
