package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstant_AllReadsReturnValue(t *testing.T) {
	src := Constant(0.75)
	assert.Equal(t, 0.75, src.CurrentValue())
	assert.Equal(t, 0.75, src.MinValue())
	assert.Equal(t, 0.75, src.MaxValue())
}

func TestDailyProfile_FollowsSetClock(t *testing.T) {
	// GIVEN a profile that is 0 at night and 1 from 08:00 to 18:00
	set := NewSet()
	hourly := make([]float64, 24)
	for h := 8; h < 18; h++ {
		hourly[h] = 1
	}
	p, err := NewDailyProfile(set.Clock(), hourly)
	require.NoError(t, err)
	require.NoError(t, set.Add("office", p))

	// WHEN the clock moves through the day
	set.SetTime(7.5)
	early := p.CurrentValue()
	set.SetTime(8.0)
	open := p.CurrentValue()
	set.SetTime(24 + 12.25)
	nextDay := p.CurrentValue()

	// THEN the value tracks the hour of day
	assert.Equal(t, 0.0, early)
	assert.Equal(t, 1.0, open)
	assert.Equal(t, 1.0, nextDay)
	assert.Equal(t, 0.0, p.MinValue())
	assert.Equal(t, 1.0, p.MaxValue())
}

func TestNewDailyProfile_WrongLength_ReturnsError(t *testing.T) {
	_, err := NewDailyProfile(&Clock{}, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestSet_DuplicateAndUnknownNames(t *testing.T) {
	set := NewSet()
	require.NoError(t, set.Add("on", Constant(1)))

	assert.Error(t, set.Add("on", Constant(0)), "duplicate names must be rejected")
	assert.Error(t, set.Add("", Constant(0)), "empty names must be rejected")

	_, err := set.Lookup("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	src, err := set.Lookup("on")
	require.NoError(t, err)
	assert.Equal(t, 1.0, src.CurrentValue())
}

func TestClock_HourOfDay_Wraps(t *testing.T) {
	c := &Clock{hours: 49.9}
	assert.Equal(t, 1, c.HourOfDay())
	assert.Equal(t, 49.9, c.Hours())
}
