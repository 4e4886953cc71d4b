package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayNumber(t *testing.T) {
	assert.Equal(t, 0, NewDate(1, time.January, 1).DayNumber())
	assert.Equal(t, daysBeforeUnixEpoch, NewDate(1970, time.January, 1).DayNumber())
	assert.Equal(t, daysBeforeUnixEpoch-1, NewDate(1969, time.December, 31).DayNumber())

	// Leap day counts as a night.
	stay := DateRange{CheckIn: MustParseDate("2024-02-28"), CheckOut: MustParseDate("2024-03-01")}
	assert.Equal(t, 2, stay.Nights())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-04T15:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-04", d.String())

	_, err = ParseDate("04/01/2024")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var v struct {
		CheckIn Date `json:"checkIn"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"checkIn":"2024-01-01"}`), &v))
	assert.Equal(t, NewDate(2024, time.January, 1), v.CheckIn)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"checkIn":"2024-01-01"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"checkIn":20240101}`), &v))
}

func TestOverlaps(t *testing.T) {
	base := DateRange{CheckIn: MustParseDate("2024-01-01"), CheckOut: MustParseDate("2024-01-04")}
	cases := []struct {
		name string
		in   string
		out  string
		want bool
	}{
		{"shares a night", "2024-01-03", "2024-01-05", true},
		{"contained", "2024-01-02", "2024-01-03", true},
		{"covers", "2023-12-30", "2024-01-10", true},
		{"back to back after", "2024-01-04", "2024-01-06", false},
		{"back to back before", "2023-12-29", "2024-01-01", false},
		{"disjoint", "2024-02-01", "2024-02-03", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other := DateRange{CheckIn: MustParseDate(tc.in), CheckOut: MustParseDate(tc.out)}
			assert.Equal(t, tc.want, base.Overlaps(other))
			assert.Equal(t, tc.want, other.Overlaps(base))
		})
	}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "300.00", Units(100).Times(3).String())
	assert.Equal(t, "-0.05", Cents(-5).String())

	m, err := ParseMoney("99.5")
	require.NoError(t, err)
	assert.Equal(t, Cents(9950), m)

	_, err = ParseMoney("1.234")
	assert.Error(t, err)

	m, err = ParseMoney("-0.5")
	require.NoError(t, err)
	assert.Equal(t, Cents(-50), m)

	for _, bad := range []string{"--5", "+-5", "-+5", "1.+5", "1.-5", "1.5x", "1 .5", ".", "-"} {
		_, err = ParseMoney(bad)
		assert.Error(t, err, bad)
	}

	var v struct{ Price Money }
	require.NoError(t, json.Unmarshal([]byte(`{"Price":125.25}`), &v))
	assert.Equal(t, Cents(12525), v.Price)
}

func TestBookingLifecycle(t *testing.T) {
	hotel := Hotel{ID: 1, Name: "H", PerNightRate: Units(100)}
	stay := DateRange{CheckIn: MustParseDate("2024-01-01"), CheckOut: MustParseDate("2024-01-04")}
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	b := NewBooking(hotel, "u1", stay, 2, now)
	assert.Equal(t, BookingPending, b.Status)
	assert.Equal(t, Units(300), b.TotalPrice)
	assert.Nil(t, b.UpdatedAtUTC)

	hotel.PerNightRate = Units(120)
	later := now.Add(time.Hour)
	longer := DateRange{CheckIn: stay.CheckIn, CheckOut: stay.CheckOut.AddDays(1)}
	require.NoError(t, b.Reschedule(hotel, longer, 3, later))
	assert.Equal(t, Units(480), b.TotalPrice)
	require.NotNil(t, b.UpdatedAtUTC)
	assert.Equal(t, later, *b.UpdatedAtUTC)

	require.NoError(t, b.Confirm(later))
	assert.Equal(t, BookingConfirmed, b.Status)

	require.NoError(t, b.Cancel(later))
	assert.ErrorIs(t, b.Cancel(later), ErrBookingCancelled)
	assert.ErrorIs(t, b.Confirm(later), ErrBookingCancelled)
	assert.ErrorIs(t, b.Reschedule(hotel, stay, 1, later), ErrBookingCancelled)
	assert.Equal(t, BookingCancelled, b.Status)
	assert.Equal(t, 4, b.Stay().Nights())
}

func TestParseBookingStatus(t *testing.T) {
	st, ok := ParseBookingStatus("cancelled")
	assert.True(t, ok)
	assert.Equal(t, BookingCancelled, st)
	_, ok = ParseBookingStatus("done")
	assert.False(t, ok)
}

func TestAPIKeyActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)
	assert.True(t, APIKey{}.IsActive(now))
	assert.True(t, APIKey{ExpiresAtUTC: &future}.IsActive(now))
	assert.False(t, APIKey{ExpiresAtUTC: &past}.IsActive(now))
}
