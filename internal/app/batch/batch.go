// Package batch generates minutes for many recordings from the command line.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"mom-generator/internal/app/pipeline"
	"mom-generator/internal/app/progress"
)

// Processor is satisfied by *pipeline.Pipeline
type Processor interface {
	Process(ctx context.Context, in pipeline.Input) (*pipeline.Result, error)
}

// Options controls one batch run
type Options struct {
	Language       string
	SpeechLanguage string
	OutputDir      string
	User           string
	Parallel       int
}

// Outcome is the result for one input file
type Outcome struct {
	File           string
	MinutesPath    string
	TranscriptPath string
	MeetingID      int
	Warnings       []string
	Took           time.Duration
	Err            error
}

// Runner reads recordings from fs, processes them and writes the text results beside OutputDir
type Runner struct {
	processor Processor
	fs        afero.Fs
	progress  *progress.Manager
	logger    *zap.Logger
}

// NewRunner creates a runner. A nil progress manager draws nothing.
func NewRunner(processor Processor, fs afero.Fs, pm *progress.Manager, logger *zap.Logger) *Runner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if pm == nil {
		pm = progress.NewManager(progress.Config{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{processor: processor, fs: fs, progress: pm, logger: logger}
}

// Run processes files with at most opts.Parallel in flight. The returned
// outcomes keep the order of files; a per-file failure does not stop the batch.
func (r *Runner) Run(ctx context.Context, files []string, opts Options) []Outcome {
	outcomes := make([]Outcome, len(files))
	if len(files) == 0 {
		return outcomes
	}
	if opts.Parallel < 1 {
		opts.Parallel = 1
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	bar := r.progress.NewBar(len(files), progress.Describe("Generating minutes", opts.Language))
	defer r.progress.Wait()

	var wg sync.WaitGroup
	sem := make(chan struct{}, opts.Parallel)

	for i, file := range files {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()

			sem <- struct{}{}
			start := time.Now()
			outcome := r.processFile(ctx, file, opts)
			outcome.Took = time.Since(start)
			<-sem

			outcomes[i] = outcome
			bar.Increment(outcome.Took)
			if outcome.Err != nil {
				r.logger.Error("failed to generate minutes", zap.String("file", file), zap.Error(outcome.Err))
			} else {
				r.logger.Info("minutes written", zap.String("file", file), zap.String("minutes", outcome.MinutesPath))
			}
		}(i, file)
	}
	wg.Wait()
	bar.Complete()
	return outcomes
}

func (r *Runner) processFile(ctx context.Context, file string, opts Options) Outcome {
	outcome := Outcome{File: file}
	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	data, err := afero.ReadFile(r.fs, file)
	if err != nil {
		outcome.Err = fmt.Errorf("read %s: %w", file, err)
		return outcome
	}

	result, err := r.processor.Process(ctx, pipeline.Input{
		Audio:          data,
		FileName:       filepath.Base(file),
		Language:       opts.Language,
		SpeechLanguage: opts.SpeechLanguage,
		User:           opts.User,
	})
	if result != nil {
		outcome.Warnings = result.Warnings
		if result.Meeting != nil {
			outcome.MeetingID = result.Meeting.ID
		}
	}
	if err != nil {
		outcome.Err = err
		return outcome
	}

	if err := r.fs.MkdirAll(opts.OutputDir, 0755); err != nil {
		outcome.Err = fmt.Errorf("create output directory: %w", err)
		return outcome
	}
	base := OutputBase(file)
	outcome.MinutesPath = filepath.Join(opts.OutputDir, base+"_minutes.txt")
	outcome.TranscriptPath = filepath.Join(opts.OutputDir, base+"_transcript.txt")

	if err := afero.WriteFile(r.fs, outcome.TranscriptPath, []byte(result.Meeting.DisplayTranscript()), 0644); err != nil {
		outcome.Err = fmt.Errorf("write transcript: %w", err)
		return outcome
	}
	if err := afero.WriteFile(r.fs, outcome.MinutesPath, []byte(result.Meeting.Minutes), 0644); err != nil {
		outcome.Err = fmt.Errorf("write minutes: %w", err)
	}
	return outcome
}

// OutputBase is the file name without directory and extension
func OutputBase(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Failed counts outcomes with an error
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
