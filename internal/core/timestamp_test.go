package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "artifactory millis",
			input:    "2025-06-15T10:30:00.123Z",
			expected: time.Date(2025, 6, 15, 10, 30, 0, 123000000, time.UTC),
		},
		{
			name:     "offset",
			input:    "2025-06-15T12:30:00.000+02:00",
			expected: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "colon-less utc offset",
			input:    "2024-01-02T03:04:05.123+0000",
			expected: time.Date(2024, 1, 2, 3, 4, 5, 123000000, time.UTC),
		},
		{
			name:     "colon-less negative offset",
			input:    "2024-01-02T03:04:05.123-0500",
			expected: time.Date(2024, 1, 2, 8, 4, 5, 123000000, time.UTC),
		},
		{
			name:     "colon-less offset without fraction",
			input:    "2024-01-02T03:04:05+0000",
			expected: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			name:     "no zone",
			input:    "2025-06-15T10:30:00",
			expected: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "space separated",
			input:    "2025-06-15 10:30:00",
			expected: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "surrounding whitespace",
			input:    "  2025-06-15T10:30:00Z ",
			expected: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
		})
	}
}

func TestParseTimestampRejects(t *testing.T) {
	for _, input := range []string{"", "   ", "not-a-date", "15/06/2025"} {
		_, err := ParseTimestamp(input)
		require.Error(t, err, "input %q", input)
	}
}
