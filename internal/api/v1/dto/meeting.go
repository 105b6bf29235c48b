package dto

import (
	"time"

	"mom-generator/internal/app/model"
)

// Upload modes of the minutes form
const (
	ModeUpload = "upload"
	ModeRecord = "record"
)

// CreateMinutesRequest is the non-file part of the multipart upload
type CreateMinutesRequest struct {
	Language       string `form:"language" binding:"max=64"`
	SpeechLanguage string `form:"speech_language" binding:"max=16"`
	Mode           string `form:"mode" binding:"omitempty,oneof=upload record"`
}

// ListMeetingsQuery pages through stored meetings
type ListMeetingsQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Offset converts the page into a row offset
func (q ListMeetingsQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// StepResponse is one timed pipeline step
type StepResponse struct {
	Name    string  `json:"name"`
	Seconds float64 `json:"seconds"`
}

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID             int            `json:"id"`
	User           string         `json:"user"`
	CreatedAt      time.Time      `json:"created_at"`
	FileName       string         `json:"file_name"`
	AudioKey       string         `json:"audio_key,omitempty"`
	AudioDuration  float64        `json:"audio_duration_sec,omitempty"`
	Language       string         `json:"language"`
	SpeechLanguage string         `json:"speech_language,omitempty"`
	Provider       string         `json:"provider,omitempty"`
	Transcript     string         `json:"transcript"`
	Translated     string         `json:"translated,omitempty"`
	Minutes        string         `json:"minutes"`
	Steps          []StepResponse `json:"steps,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// CreateMinutesResponse is returned after a recording was processed
type CreateMinutesResponse struct {
	Meeting  MeetingResponse `json:"meeting"`
	Warnings []string        `json:"warnings,omitempty"`
}

// ListMeetingsResponse is one page of meetings. Count is the page size,
// Total every meeting the user has.
type ListMeetingsResponse struct {
	Meetings []MeetingResponse `json:"meetings"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Count    int               `json:"count"`
	Total    int               `json:"total"`
}

// LanguagesResponse lists the selectable minutes languages
type LanguagesResponse struct {
	Languages []string `json:"languages"`
	Default   string   `json:"default"`
}

// ToMeetingResponse converts a stored meeting to its response DTO
func ToMeetingResponse(m *model.Meeting) MeetingResponse {
	steps := make([]StepResponse, len(m.Steps))
	for i, s := range m.Steps {
		steps[i] = StepResponse{Name: s.Name, Seconds: s.Seconds()}
	}
	return MeetingResponse{
		ID:             m.ID,
		User:           m.User,
		CreatedAt:      m.CreatedAt,
		FileName:       m.FileName,
		AudioKey:       m.AudioKey,
		AudioDuration:  m.AudioDuration,
		Language:       m.Language,
		SpeechLanguage: m.SpeechLanguage,
		Provider:       m.Provider,
		Transcript:     m.Transcript,
		Translated:     m.Translated,
		Minutes:        m.Minutes,
		Steps:          steps,
		Error:          m.ErrorMessage,
	}
}
