// Package pipeline runs the sequential steps that turn a recording into
// Minutes of Meeting: transcription, optional translation, generation.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"mom-generator/internal/app/api/provider"
	"mom-generator/internal/app/audio"
	"mom-generator/internal/app/cache"
	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/minutes"
	"mom-generator/internal/app/model"
	"mom-generator/internal/app/repository"
	"mom-generator/internal/app/storage"
	"mom-generator/internal/app/transcript"
)

// Step names reported in Result.Steps
const (
	StepTranscribe = "transcribe"
	StepTranslate  = "translate"
	StepGenerate   = "generate"
)

// Transcriber is satisfied by provider.TranscriptionOrchestrator
type Transcriber interface {
	Transcribe(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error)
}

// MinutesGenerator is satisfied by minutes.Generator
type MinutesGenerator interface {
	Translate(ctx context.Context, text, language string) (string, error)
	Generate(ctx context.Context, transcript, language string) (string, error)
}

// Config holds the pipeline settings taken from the application config
type Config struct {
	Languages      []string
	SpeechLanguage string
	Normalize      bool
	MaxUploadBytes int64
}

// Input is one recording to process
type Input struct {
	Audio          []byte
	FileName       string
	ContentType    string
	Language       string
	SpeechLanguage string
	User           string
}

// TranscriptInput is an already transcribed meeting, such as a live session
type TranscriptInput struct {
	Transcript string
	Language   string
	User       string
	Source     string
}

// Result is what Process returns on success
type Result struct {
	Meeting  *model.Meeting
	Steps    []model.Step
	Warnings []string
}

// Pipeline wires the collaborators of Process
type Pipeline struct {
	cfg         Config
	transcriber Transcriber
	generator   MinutesGenerator
	normalizer  *audio.Normalizer
	cache       cache.TranscriptCache
	store       storage.ArchiveStore
	dao         repository.MeetingDAO
	metrics     *Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// New creates a pipeline. cache, store and metrics may be nil.
func New(
	cfg Config,
	transcriber Transcriber,
	generator MinutesGenerator,
	normalizer *audio.Normalizer,
	transcriptCache cache.TranscriptCache,
	store storage.ArchiveStore,
	dao repository.MeetingDAO,
	metrics *Metrics,
	logger *zap.Logger,
) *Pipeline {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"English", "Japanese"}
	}
	if normalizer == nil {
		normalizer = audio.NewNormalizer(nil, audio.DefaultSampleRate)
	}
	if transcriptCache == nil {
		transcriptCache = cache.NewMemoryCache(cache.DefaultSize, cache.DefaultTTL)
	}
	if store == nil {
		store = storage.NoopStore{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:         cfg,
		transcriber: transcriber,
		generator:   generator,
		normalizer:  normalizer,
		cache:       transcriptCache,
		store:       store,
		dao:         dao,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Languages returns the selectable minutes languages
func (p *Pipeline) Languages() []string {
	return p.cfg.Languages
}

// ResolveLanguage returns the configured spelling of language
func (p *Pipeline) ResolveLanguage(language string) (string, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return p.cfg.Languages[0], nil
	}
	match, ok := lo.Find(p.cfg.Languages, func(l string) bool {
		return strings.EqualFold(l, language)
	})
	if !ok {
		return "", apperrors.Mark(apperrors.ErrUnknownLanguage, language)
	}
	return match, nil
}

// Validate checks an upload before any API is called
func (p *Pipeline) Validate(in Input) (provider.AudioFormat, error) {
	if len(in.Audio) == 0 {
		return "", apperrors.ErrEmptyAudio
	}
	if p.cfg.MaxUploadBytes > 0 && int64(len(in.Audio)) > p.cfg.MaxUploadBytes {
		return "", apperrors.Mark(apperrors.ErrFileTooLarge,
			fmt.Sprintf("%d bytes exceeds the %d byte limit", len(in.Audio), p.cfg.MaxUploadBytes))
	}
	format, err := audio.Detect(in.FileName, in.Audio)
	if err != nil {
		return "", err
	}
	if !audio.Accepts(format, audio.UploadFormats) && !audio.Accepts(format, audio.RecordingFormats) {
		return "", apperrors.Mark(apperrors.ErrUnsupportedFormat, string(format))
	}
	return format, nil
}

// Process transcribes the recording, translates the transcript when the
// minutes language is not English, generates the minutes and stores the
// meeting. Failures after validation are persisted with their error message
// and the partially filled meeting is returned alongside the error.
func (p *Pipeline) Process(ctx context.Context, in Input) (*Result, error) {
	language, err := p.ResolveLanguage(in.Language)
	if err != nil {
		return nil, err
	}
	format, err := p.Validate(in)
	if err != nil {
		return nil, err
	}

	speechLanguage := lo.Ternary(in.SpeechLanguage != "", in.SpeechLanguage, p.cfg.SpeechLanguage)
	meeting := &model.Meeting{
		User:           in.User,
		CreatedAt:      p.now(),
		FileName:       audio.SanitizeFilename(in.FileName),
		Language:       language,
		SpeechLanguage: speechLanguage,
	}
	result := &Result{Meeting: meeting}
	log := p.logger.With(zap.String("user", in.User), zap.String("file", meeting.FileName), zap.String("language", language))

	data := in.Audio
	if p.cfg.Normalize {
		normalized, err := p.normalizer.Normalize(data)
		if err != nil {
			return result, p.fail(ctx, result, apperrors.Wrap(err, "normalize audio"))
		}
		data = normalized
	}
	meeting.AudioDuration = audio.Duration(data).Seconds()

	// transcribe
	start := time.Now()
	text, providerName, err := p.transcribe(ctx, data, format, in, speechLanguage)
	p.record(result, StepTranscribe, time.Since(start))
	if err != nil {
		return result, p.fail(ctx, result, err)
	}
	meeting.Transcript = text
	meeting.Provider = providerName
	log.Info("transcription complete", zap.String("provider", providerName), zap.Int("chars", len(text)))

	p.archive(ctx, result, data, in)

	return result, p.finish(ctx, result, log)
}

// GenerateFromTranscript runs translation and generation for a transcript
// captured elsewhere, such as a live streaming session.
func (p *Pipeline) GenerateFromTranscript(ctx context.Context, in TranscriptInput) (*Result, error) {
	language, err := p.ResolveLanguage(in.Language)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Transcript) == "" {
		return nil, apperrors.ErrEmptyTranscript
	}

	meeting := &model.Meeting{
		User:       in.User,
		CreatedAt:  p.now(),
		FileName:   lo.Ternary(in.Source != "", in.Source, "live"),
		Language:   language,
		Provider:   "deepgram_live",
		Transcript: in.Transcript,
	}
	result := &Result{Meeting: meeting}
	return result, p.finish(ctx, result, p.logger.With(zap.String("user", in.User), zap.String("language", language)))
}

// finish translates, generates and stores a meeting whose transcript is set
func (p *Pipeline) finish(ctx context.Context, result *Result, log *zap.Logger) error {
	meeting := result.Meeting

	source := meeting.Transcript
	if !minutes.IsEnglish(meeting.Language) {
		start := time.Now()
		translated, err := p.generator.Translate(ctx, meeting.Transcript, meeting.Language)
		p.record(result, StepTranslate, time.Since(start))
		if err != nil {
			if ctx.Err() != nil {
				return p.fail(ctx, result, ctx.Err())
			}
			warning := fmt.Sprintf("translation to %s failed, using the original transcript: %v", meeting.Language, err)
			result.Warnings = append(result.Warnings, warning)
			log.Warn("translation failed", zap.Error(err))
		} else {
			meeting.Translated = translated
			source = translated
		}
	}

	start := time.Now()
	mom, err := p.generator.Generate(ctx, source, meeting.Language)
	p.record(result, StepGenerate, time.Since(start))
	if err != nil {
		return p.fail(ctx, result, err)
	}
	meeting.Minutes = mom

	if err := p.save(ctx, meeting); err != nil {
		result.Warnings = append(result.Warnings, "meeting could not be saved: "+err.Error())
		log.Error("failed to save meeting", zap.Error(err))
	}
	p.metrics.countMeeting("success")
	log.Info("minutes generated", zap.Int("meeting_id", meeting.ID), zap.Int("warnings", len(result.Warnings)))
	return nil
}

func (p *Pipeline) transcribe(ctx context.Context, data []byte, format provider.AudioFormat, in Input, speechLanguage string) (string, string, error) {
	key := cache.Key(data, speechLanguage)
	if cached, ok := p.cache.Get(ctx, key); ok {
		p.logger.Debug("transcript cache hit", zap.String("key", key[:12]))
		return cached, "cache", nil
	}

	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = provider.ContentTypeFor(format)
	}
	resp, err := p.transcriber.Transcribe(ctx, &provider.TranscriptionRequest{
		Audio:       data,
		FileName:    in.FileName,
		ContentType: contentType,
		Language:    speechLanguage,
		Diarize:     true,
	})
	if err != nil {
		return "", "", err
	}

	text := transcript.Format(resp.Words)
	if text == "" && strings.TrimSpace(resp.Text) != "" {
		// providers without diarization
		text = transcript.Line{Speaker: 0, Text: strings.TrimSpace(resp.Text)}.String()
	}
	if text == "" {
		return "", resp.Provider, apperrors.ErrEmptyTranscript
	}

	p.cache.Set(ctx, key, text)
	return text, resp.Provider, nil
}

func (p *Pipeline) archive(ctx context.Context, result *Result, data []byte, in Input) {
	if !p.store.Enabled() {
		return
	}
	key, _, err := p.store.Put(ctx, result.Meeting.FileName, provider.ContentTypeFor(provider.GetAudioFormatFromFilename(in.FileName)), data)
	if err != nil {
		result.Warnings = append(result.Warnings, "audio could not be archived: "+err.Error())
		p.logger.Warn("audio archive failed", zap.Error(err))
		return
	}
	result.Meeting.AudioKey = key
}

func (p *Pipeline) record(result *Result, name string, d time.Duration) {
	step := model.Step{Name: name, Duration: d}
	result.Steps = append(result.Steps, step)
	result.Meeting.Steps = result.Steps
	p.metrics.observeStep(name, d.Seconds())
}

// fail stores the meeting with its error message and returns err
func (p *Pipeline) fail(ctx context.Context, result *Result, err error) error {
	result.Meeting.ErrorMessage = err.Error()
	p.metrics.countMeeting("failure")
	p.logger.Error("meeting processing failed", zap.String("file", result.Meeting.FileName), zap.Error(err))

	// the request context may already be cancelled
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if saveErr := p.save(saveCtx, result.Meeting); saveErr != nil {
		p.logger.Error("failed to save failed meeting", zap.Error(saveErr))
	}
	return err
}

func (p *Pipeline) save(ctx context.Context, meeting *model.Meeting) error {
	if p.dao == nil {
		return nil
	}
	_, err := p.dao.Create(ctx, meeting)
	return err
}
