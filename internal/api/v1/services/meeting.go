package services

import (
	"context"
	"io"

	"github.com/samber/lo"

	"mom-generator/internal/api/v1/dto"
	"mom-generator/internal/app/audio"
	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/export"
	"mom-generator/internal/app/model"
	"mom-generator/internal/app/pipeline"
	"mom-generator/internal/app/repository"
)

const (
	defaultPageSize = 20
	exportLimit     = 10000
)

// Processor is satisfied by *pipeline.Pipeline
type Processor interface {
	Process(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
	Languages() []string
}

// MeetingServiceImpl implements MeetingService
type MeetingServiceImpl struct {
	pipeline Processor
	dao      repository.MeetingDAO
}

// NewMeetingService creates a new meeting service
func NewMeetingService(p Processor, dao repository.MeetingDAO) MeetingService {
	return &MeetingServiceImpl{pipeline: p, dao: dao}
}

// Languages lists the minutes languages, the first being the default
func (s *MeetingServiceImpl) Languages() dto.LanguagesResponse {
	languages := s.pipeline.Languages()
	return dto.LanguagesResponse{
		Languages: languages,
		Default:   lo.FirstOrEmpty(languages),
	}
}

// Create runs the pipeline for one recording. Uploads are restricted to
// wav and mp3; recordings may also be webm or ogg from the browser.
func (s *MeetingServiceImpl) Create(ctx context.Context, in CreateInput) (*dto.CreateMinutesResponse, error) {
	if in.Mode != dto.ModeRecord && len(in.Audio) > 0 {
		format, err := audio.Detect(in.FileName, in.Audio)
		if err != nil {
			return nil, err
		}
		if !audio.Accepts(format, audio.UploadFormats) {
			return nil, apperrors.Mark(apperrors.ErrUnsupportedFormat, string(format))
		}
	}

	result, err := s.pipeline.Process(ctx, pipeline.Input{
		Audio:          in.Audio,
		FileName:       in.FileName,
		ContentType:    in.ContentType,
		Language:       in.Language,
		SpeechLanguage: in.SpeechLanguage,
		User:           in.User,
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateMinutesResponse{
		Meeting:  dto.ToMeetingResponse(result.Meeting),
		Warnings: result.Warnings,
	}, nil
}

// Get returns a stored meeting
func (s *MeetingServiceImpl) Get(ctx context.Context, id int) (*model.Meeting, error) {
	return s.dao.Get(ctx, id)
}

// List returns one page of the user's meetings, newest first
func (s *MeetingServiceImpl) List(ctx context.Context, user string, query dto.ListMeetingsQuery) (*dto.ListMeetingsResponse, error) {
	query.Limit = lo.Ternary(query.Limit == 0, defaultPageSize, query.Limit)
	query.Page = lo.Ternary(query.Page == 0, 1, query.Page)

	filter := repository.ListFilter{
		User:   user,
		Limit:  query.Limit,
		Offset: query.Offset(),
	}
	meetings, err := s.dao.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.dao.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := lo.Map(meetings, func(m model.Meeting, _ int) dto.MeetingResponse {
		return dto.ToMeetingResponse(&m)
	})
	return &dto.ListMeetingsResponse{
		Meetings: responses,
		Page:     query.Page,
		Limit:    query.Limit,
		Count:    len(responses),
		Total:    total,
	}, nil
}

// Delete hides a meeting from listings
func (s *MeetingServiceImpl) Delete(ctx context.Context, id int) error {
	return s.dao.SoftDelete(ctx, id)
}

// Export writes the user's meetings as a spreadsheet
func (s *MeetingServiceImpl) Export(ctx context.Context, user string, w io.Writer) error {
	meetings, err := s.dao.List(ctx, repository.ListFilter{User: user, Limit: exportLimit})
	if err != nil {
		return err
	}
	return export.ToExcel(meetings, w)
}
