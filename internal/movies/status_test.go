package movies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	today := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	day := func(offset int) time.Time { return today.AddDate(0, 0, offset) }

	tests := []struct {
		name  string
		dates []time.Time
		want  Status
	}{
		{
			name:  "no showings means coming soon",
			dates: nil,
			want:  StatusComingSoon,
		},
		{
			name:  "showing today means now showing",
			dates: []time.Time{day(0)},
			want:  StatusNowShowing,
		},
		{
			name:  "today beats future and past",
			dates: []time.Time{day(-3), day(0), day(5)},
			want:  StatusNowShowing,
		},
		{
			name:  "future only means tickets available",
			dates: []time.Time{day(1), day(7)},
			want:  StatusTicketAvailable,
		},
		{
			name:  "future beats past",
			dates: []time.Time{day(-10), day(2)},
			want:  StatusTicketAvailable,
		},
		{
			name:  "past only means ended",
			dates: []time.Time{day(-10), day(-1)},
			want:  StatusEnded,
		},
		{
			name: "same calendar day counts regardless of clock time",
			dates: []time.Time{
				time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC),
			},
			want: StatusNowShowing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.dates, today))
		})
	}
}

func TestDeriveStatusOverwritesTrending(t *testing.T) {
	// TRENDING is only an admin label; recomputation ignores the current
	// value entirely, so the derived status wins on the next sweep.
	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	got := DeriveStatus([]time.Time{today.AddDate(0, 0, -1)}, today)
	assert.Equal(t, StatusEnded, got)
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusComingSoon, StatusTicketAvailable, StatusNowShowing, StatusEnded, StatusTrending} {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, Status("ARCHIVED").IsValid())
}
