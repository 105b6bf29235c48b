package services

import (
	"context"
	"io"

	"mom-generator/internal/api/auth"
	"mom-generator/internal/api/v1/dto"
	"mom-generator/internal/app/model"
)

// CreateInput is one uploaded or recorded meeting
type CreateInput struct {
	Audio          []byte
	FileName       string
	ContentType    string
	Mode           string
	Language       string
	SpeechLanguage string
	User           string
}

// MeetingService generates and manages Minutes of Meeting
type MeetingService interface {
	Languages() dto.LanguagesResponse
	Create(ctx context.Context, in CreateInput) (*dto.CreateMinutesResponse, error)
	Get(ctx context.Context, id int) (*model.Meeting, error)
	List(ctx context.Context, user string, query dto.ListMeetingsQuery) (*dto.ListMeetingsResponse, error)
	Delete(ctx context.Context, id int) error
	Export(ctx context.Context, user string, w io.Writer) error
}

// ProviderService reports the configured transcription providers
type ProviderService interface {
	ListProviders(ctx context.Context, checkHealth bool) ([]dto.ProviderResponse, error)
}

// AuthService checks the login pair
type AuthService interface {
	Login(username, password string) (*auth.Token, error)
}
