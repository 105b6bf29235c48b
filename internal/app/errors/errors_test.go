package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrap(ErrNotFound, "meeting 7")

	assert.True(t, Is(err, ErrNotFound))
	assert.Equal(t, "meeting 7: record not found", err.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestMark(t *testing.T) {
	err := Mark(ErrUnsupportedFormat, "extension .flac")

	assert.True(t, Is(err, ErrUnsupportedFormat))
	assert.False(t, Is(err, ErrFileTooLarge))
	assert.Contains(t, err.Error(), ".flac")
}

func TestIsThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("pipeline: %w", ErrEmptyTranscript)
	assert.True(t, Is(err, ErrEmptyTranscript))
}

func TestFieldHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"required", RequiredField("language"), "language is required"},
		{"invalid", InvalidField("port", "must be numeric"), "port is invalid: must be numeric"},
		{"range", OutOfRange("temperature", 0, 2), "temperature out of range (must be between 0 and 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}
