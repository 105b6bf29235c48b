package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mom-generator/internal/app/api/provider"
)

func w(speaker int, word, punctuated string) provider.TranscriptionWord {
	return provider.TranscriptionWord{Speaker: speaker, Word: word, PunctuatedWord: punctuated}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		words []provider.TranscriptionWord
		want  string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name:  "single speaker",
			words: []provider.TranscriptionWord{w(0, "hello", "Hello,"), w(0, "team", "team.")},
			want:  "SPEAKER 0: Hello, team.",
		},
		{
			name: "speaker changes",
			words: []provider.TranscriptionWord{
				w(0, "hi", "Hi."), w(1, "morning", "Morning."), w(1, "all", "All."), w(0, "ok", "Okay."),
			},
			want: "SPEAKER 0: Hi.\n\nSPEAKER 1: Morning. All.\n\nSPEAKER 0: Okay.",
		},
		{
			name:  "starts with another speaker",
			words: []provider.TranscriptionWord{w(2, "welcome", "Welcome."), w(0, "thanks", "Thanks.")},
			want:  "SPEAKER 2: Welcome.\n\nSPEAKER 0: Thanks.",
		},
		{
			name:  "falls back to raw word",
			words: []provider.TranscriptionWord{w(0, "hello", ""), w(0, "there", "")},
			want:  "SPEAKER 0: hello there",
		},
		{
			name:  "skips blank words",
			words: []provider.TranscriptionWord{w(0, " ", ""), w(0, "hey", "Hey.")},
			want:  "SPEAKER 0: Hey.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.words))
		})
	}
}

func TestSpeakers(t *testing.T) {
	words := []provider.TranscriptionWord{w(1, "a", ""), w(0, "b", ""), w(1, "c", ""), w(2, "d", "")}
	assert.Equal(t, []int{1, 0, 2}, Speakers(words))
	assert.Nil(t, Speakers(nil))
}

func TestParse(t *testing.T) {
	lines := Parse("SPEAKER 0: Hi.\n\nSPEAKER 1: Morning.\r\n\r\nTaro: Let's start.")

	assert.Equal(t, []Line{
		{Speaker: 0, Text: "Hi."},
		{Speaker: 1, Text: "Morning."},
		{Speaker: -1, Text: "Taro: Let's start."},
	}, lines)
}

func TestParseRoundTrip(t *testing.T) {
	words := []provider.TranscriptionWord{w(0, "hi", "Hi."), w(3, "yes", "Yes.")}
	assert.Equal(t, Group(words), Parse(Format(words)))
}
