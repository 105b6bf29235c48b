package model

import "time"

// Meeting is one processed recording: its transcript, the generated minutes
// and the bookkeeping needed to list, re-render and download it later.
type Meeting struct {
	ID             int
	User           string
	CreatedAt      time.Time
	FileName       string
	AudioKey       string
	AudioDuration  float64
	Language       string
	SpeechLanguage string
	Provider       string
	Transcript     string
	Translated     string
	Minutes        string
	Steps          []Step
	ErrorMessage   string
}

// HasError reports whether processing failed
func (m *Meeting) HasError() bool {
	return m.ErrorMessage != ""
}

// DisplayTranscript is the transcript in the target language when one was produced
func (m *Meeting) DisplayTranscript() string {
	if m.Translated != "" {
		return m.Translated
	}
	return m.Transcript
}

// Step records the wall time spent on one pipeline stage
type Step struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// Seconds returns the duration as fractional seconds for display
func (s Step) Seconds() float64 {
	return s.Duration.Seconds()
}
