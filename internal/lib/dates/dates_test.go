package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{
			name:   "simple month add",
			start:  date(2024, time.March, 15),
			months: 3,
			want:   date(2024, time.June, 15),
		},
		{
			name:   "clamp to february in leap year",
			start:  date(2024, time.January, 31),
			months: 1,
			want:   date(2024, time.February, 29),
		},
		{
			name:   "clamp to february in common year",
			start:  date(2023, time.January, 31),
			months: 1,
			want:   date(2023, time.February, 28),
		},
		{
			name:   "clamp to 30-day month",
			start:  date(2024, time.March, 31),
			months: 1,
			want:   date(2024, time.April, 30),
		},
		{
			name:   "year rollover",
			start:  date(2024, time.November, 10),
			months: 3,
			want:   date(2025, time.February, 10),
		},
		{
			name:   "two year term",
			start:  date(2024, time.May, 31),
			months: 24,
			want:   date(2026, time.May, 31),
		},
		{
			name:   "twelve months from leap day",
			start:  date(2024, time.February, 29),
			months: 12,
			want:   date(2025, time.February, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonths(tt.start, tt.months)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaidUntil(t *testing.T) {
	paidOn := date(2025, time.January, 31)
	assert.Equal(t, date(2025, time.February, 28), PaidUntil(paidOn, 1))
	assert.Equal(t, date(2026, time.January, 31), PaidUntil(paidOn, 12))
}

func TestDay(t *testing.T) {
	ts := time.Date(2025, time.July, 14, 18, 45, 12, 999, time.UTC)
	assert.Equal(t, date(2025, time.July, 14), Day(ts))
}
