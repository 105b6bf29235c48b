package deepgram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscriptCollector(t *testing.T) {
	c := NewTranscriptCollector()

	_, ok := c.Flush()
	assert.False(t, ok, "nothing pending")

	c.AddPart("Good morning")
	c.AddPart("   ")
	c.AddPart("everyone.")
	assert.Equal(t, "Good morning everyone.", c.Pending())

	sentence, ok := c.Flush()
	assert.True(t, ok)
	assert.Equal(t, "Good morning everyone.", sentence)
	assert.Empty(t, c.Pending())

	c.AddPart("Let's begin.")
	assert.Equal(t, "Good morning everyone. Let's begin.", c.FullTranscript())

	c.Reset()
	assert.Equal(t, "Good morning everyone.", c.FullTranscript())
}
