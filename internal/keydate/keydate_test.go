package keydate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FPI-TW/report-sub000/reporttypes"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{
			name:   "date in file name",
			key:    "daily-report/pdf/a-2024-07-05.pdf",
			want:   "2024-07-05",
			wantOK: true,
		},
		{
			name:   "date as whole name",
			key:    "weekly/2023-12-31.mp3",
			want:   "2023-12-31",
			wantOK: true,
		},
		{
			name:   "no date",
			key:    "daily-report/pdf/bad.pdf",
			wantOK: false,
		},
		{
			name:   "empty key",
			key:    "",
			wantOK: false,
		},
		{
			name:   "partial date",
			key:    "reports/2024-07.pdf",
			wantOK: false,
		},
		{
			name:   "impossible month",
			key:    "reports/2024-13-01.pdf",
			wantOK: false,
		},
		{
			name:   "impossible day",
			key:    "reports/2023-02-29.pdf",
			wantOK: false,
		},
		{
			name:   "leap day",
			key:    "reports/2024-02-29.pdf",
			want:   "2024-02-29",
			wantOK: true,
		},
		{
			name:   "date in directory",
			key:    "briefs/2022-01-15/summary.pdf",
			want:   "2022-01-15",
			wantOK: true,
		},
		{
			name:   "no digit boundary required",
			key:    "reports/x12024-07-05.pdf",
			want:   "2024-07-05",
			wantOK: true,
		},
		{
			name:   "first of several dates",
			key:    "reports/2024-01-02/copy-of-2023-11-30.pdf",
			want:   "2024-01-02",
			wantOK: true,
		},
		{
			name:   "invalid candidate skipped",
			key:    "reports/9999-99-99-2021-06-01.pdf",
			want:   "2021-06-01",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWith_LastMatch(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{
			name:   "single date",
			key:    "a-2024-07-05.pdf",
			want:   "2024-07-05",
			wantOK: true,
		},
		{
			name:   "last of several dates",
			key:    "reports/2024-01-02/copy-of-2023-11-30.pdf",
			want:   "2023-11-30",
			wantOK: true,
		},
		{
			name:   "trailing invalid candidate ignored",
			key:    "reports/2021-06-01-2021-19-40.pdf",
			want:   "2021-06-01",
			wantOK: true,
		},
		{
			name:   "no date",
			key:    "bad.pdf",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseWith(tt.key, reporttypes.DateLastMatch)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYearMonth(t *testing.T) {
	year, month, ok := YearMonth("2024-07-05")
	assert.True(t, ok)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 7, month)

	_, _, ok = YearMonth("not-a-date")
	assert.False(t, ok)
}
