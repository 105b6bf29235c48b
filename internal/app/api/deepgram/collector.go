package deepgram

import (
	"strings"
	"sync"
)

// TranscriptCollector joins final result parts into sentences. Parts
// accumulate until Flush, which closes the sentence and keeps it for
// FullTranscript.
type TranscriptCollector struct {
	mu        sync.Mutex
	parts     []string
	sentences []string
}

// NewTranscriptCollector creates an empty collector
func NewTranscriptCollector() *TranscriptCollector {
	return &TranscriptCollector{}
}

// AddPart appends a non-blank part to the current sentence
func (c *TranscriptCollector) AddPart(part string) {
	part = strings.TrimSpace(part)
	if part == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts = append(c.parts, part)
}

// Pending returns the current unfinished sentence
func (c *TranscriptCollector) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.parts, " ")
}

// Flush closes the current sentence. ok is false when nothing was pending.
func (c *TranscriptCollector) Flush() (sentence string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.parts) == 0 {
		return "", false
	}
	sentence = strings.Join(c.parts, " ")
	c.parts = nil
	c.sentences = append(c.sentences, sentence)
	return sentence, true
}

// Reset drops the pending parts
func (c *TranscriptCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts = nil
}

// FullTranscript joins all flushed sentences and any pending parts
func (c *TranscriptCollector) FullTranscript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := append(append([]string{}, c.sentences...), c.parts...)
	return strings.Join(all, " ")
}
