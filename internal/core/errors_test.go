package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{name: "nil", err: nil, expected: KindNone},
		{name: "missing file", err: nonExistentReference("a.txt"), expected: KindNonExistentReference},
		{name: "bad syntax", err: invalidPatternSyntax("//a:", assert.AnError), expected: KindInvalidPatternSyntax},
		{name: "resolution", err: resolutionFailure("boom", nil), expected: KindResolutionFailure},
		{name: "interrupted", err: interrupted(context.Canceled), expected: KindInterrupted},
		{name: "raw cancellation", err: fmt.Errorf("loading: %w", context.DeadlineExceeded), expected: KindInterrupted},
		{name: "plain", err: assert.AnError, expected: KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KindOf(tt.err))
		})
	}
}

func TestNonExistentReferenceNamesPattern(t *testing.T) {
	assert.Contains(t, nonExistentReference("missing/file.txt").Error(), "missing/file.txt references non-existing file")
}
