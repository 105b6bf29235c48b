package testutil

import (
	"time"

	"mom-generator/internal/app/model"
)

// TestMeetings is a small history for two users. Meeting 3 failed during
// transcription.
var TestMeetings = []model.Meeting{
	{
		ID:             1,
		User:           "admin",
		CreatedAt:      time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		FileName:       "standup.wav",
		AudioDuration:  312.5,
		Language:       "English",
		SpeechLanguage: "en-US",
		Provider:       "deepgram",
		Transcript:     "SPEAKER 0: Morning all.\nSPEAKER 1: Build is green again.",
		Minutes:        "Attendees: SPEAKER 0, SPEAKER 1\nThe build is fixed.",
		Steps: []model.Step{
			{Name: "transcribe", Duration: 1500 * time.Millisecond},
			{Name: "generate", Duration: 2 * time.Second},
		},
	},
	{
		ID:             2,
		User:           "admin",
		CreatedAt:      time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		FileName:       "planning.mp3",
		AudioDuration:  1804,
		Language:       "Japanese",
		SpeechLanguage: "en-US",
		Provider:       "deepgram",
		Transcript:     "SPEAKER 0: Let's plan the release.",
		Translated:     "SPEAKER 0: リリースを計画しましょう。",
		Minutes:        "議事録",
		Steps: []model.Step{
			{Name: "transcribe", Duration: 3 * time.Second},
			{Name: "translate", Duration: time.Second},
			{Name: "generate", Duration: 4 * time.Second},
		},
	},
	{
		ID:           3,
		User:         "guest",
		CreatedAt:    time.Date(2024, 3, 6, 8, 15, 0, 0, time.UTC),
		FileName:     "broken.wav",
		Language:     "English",
		ErrorMessage: "deepgram: authentication_failed",
	},
}

// Meetings returns a copy of TestMeetings that tests may modify
func Meetings() []model.Meeting {
	out := make([]model.Meeting, len(TestMeetings))
	copy(out, TestMeetings)
	return out
}
