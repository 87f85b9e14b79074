package numerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	corenumerator "stockpile/internal/core/numerator"
)

func TestBuildKey(t *testing.T) {
	period := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  corenumerator.Config
		want string
	}{
		{
			name: "monthly reset",
			cfg:  corenumerator.Config{Prefix: "RCP", ResetPeriod: "month"},
			want: "RCP_2026_09",
		},
		{
			name: "yearly reset",
			cfg:  corenumerator.Config{Prefix: "DLV", ResetPeriod: "year"},
			want: "DLV_2026",
		},
		{
			name: "no reset",
			cfg:  corenumerator.Config{Prefix: "TRF", ResetPeriod: "never"},
			want: "TRF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildKey(tt.cfg, period))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	period := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cfg  corenumerator.Config
		num  int64
		want string
	}{
		{
			name: "with year",
			cfg:  corenumerator.Config{Prefix: "RCP", IncludeYear: true, PadWidth: 5},
			num:  1,
			want: "RCP-2026-00001",
		},
		{
			name: "without year",
			cfg:  corenumerator.Config{Prefix: "ADJ", PadWidth: 4},
			num:  42,
			want: "ADJ-0042",
		},
		{
			name: "zero pad width defaults to five",
			cfg:  corenumerator.Config{Prefix: "DLV", IncludeYear: true},
			num:  7,
			want: "DLV-2026-00007",
		},
		{
			name: "number wider than pad",
			cfg:  corenumerator.Config{Prefix: "TRF", PadWidth: 3},
			num:  123456,
			want: "TRF-123456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatNumber(tt.cfg, period, tt.num))
		})
	}
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(1), ParseNumber("RCP-2026-00001"))
	assert.Equal(t, int64(42), ParseNumber("ADJ-0042"))
	assert.Equal(t, int64(-1), ParseNumber("garbage"))
}

func TestFormatParseRoundTrip(t *testing.T) {
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg := corenumerator.DefaultConfig("RCP")

	formatted := formatNumber(cfg, period, 317)
	assert.Equal(t, int64(317), ParseNumber(formatted))
}
