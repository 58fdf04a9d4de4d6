package service

import (
	"testing"
	"time"

	"golang-finance-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTimeParser_Parse(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	now := time.Date(2026, time.October, 18, 15, 4, 5, 0, loc)
	p := NewRelativeTimeParser(logger.NewNop(), func() time.Time { return now })

	tests := []struct {
		in   string
		want time.Time
	}{
		{"", now},
		{"방금", now},
		{"Just now", now},
		{"5분 전", now.Add(-5 * time.Minute)},
		{"12 minutes ago", now.Add(-12 * time.Minute)},
		{"3시간 전", now.Add(-3 * time.Hour)},
		{"1 hour ago", now.Add(-time.Hour)},
		{"2일 전", now.AddDate(0, 0, -2)},
		{"4 days ago", now.AddDate(0, 0, -4)},
		{"어제 10:30", time.Date(2026, time.October, 17, 10, 30, 0, 0, loc)},
		{"Yesterday", time.Date(2026, time.October, 17, 0, 0, 0, 0, loc)},
		{"10.13.", time.Date(2026, time.October, 13, 0, 0, 0, 0, loc)},
		{"12.24.", time.Date(2025, time.December, 24, 0, 0, 0, 0, loc)},
		{"2025.03.09", time.Date(2025, time.March, 9, 0, 0, 0, 0, loc)},
		{"2026-10-01T09:00:00+09:00", time.Date(2026, time.October, 1, 9, 0, 0, 0, loc)},
		{"Mon, 13 Oct 2026 09:30:00 +0900", time.Date(2026, time.October, 13, 9, 30, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(p.Parse(tt.in)), "parse %q = %v, want %v", tt.in, p.Parse(tt.in), tt.want)
		})
	}
	assert.Zero(t, p.Unrecognized())
}

func TestRelativeTimeParser_CountsUnrecognized(t *testing.T) {
	now := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
	p := NewRelativeTimeParser(logger.NewNop(), func() time.Time { return now })

	assert.Equal(t, now, p.Parse("지난 주"))
	assert.Equal(t, now, p.Parse("13.45."))
	assert.Equal(t, now, p.Parse("2026.02.30"))
	assert.Equal(t, int64(3), p.Unrecognized())
}
