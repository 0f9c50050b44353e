package hestia_err

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		output        string
		maxCandidates int
		want          string
	}{
		{name: "empty output", output: "", maxCandidates: 2, want: "No output provided."},
		{name: "whitespace only", output: "  \n\n ", maxCandidates: 2, want: "No output provided."},
		{
			name:          "access denied",
			output:        "connecting\nERROR 1045 (28000): Access denied for user 'root'@'localhost'\n",
			maxCandidates: 2,
			want:          "ERROR 1045 (28000): Access denied for user 'root'@'localhost'",
		},
		{
			name:          "limits candidates",
			output:        "E: failed one\nE: failed two\nE: failed three",
			maxCandidates: 2,
			want:          "E: failed one - E: failed two",
		},
		{
			name:          "falls back to first line",
			output:        "\nReading package lists...\nDone",
			maxCandidates: 2,
			want:          "Reading package lists...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExtractSummary(tt.output, tt.maxCandidates))
		})
	}
}

func TestExpectedError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsExpectedUserError(fmt.Errorf("wrapped: %w", ErrCancelled)))
	assert.False(t, IsExpectedUserError(errors.New("declined")))
	assert.True(t, IsExpectedUserError(ErrCancelled))
}
