package live

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mom-generator/cmd/mom/cmd/shared"
	"mom-generator/internal/app/api/deepgram"
	"mom-generator/internal/app/audio"
	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/pipeline"
)

const (
	// 100 ms of 16 kHz 16-bit mono
	chunkSize   = 3200
	bytesPerSec = 16000 * 2

	timestampLayout = "20060102_150405"

	// how long Deepgram gets to flush after an interrupt
	flushTimeout = 10 * time.Second
)

var (
	input          string
	language       string
	speechLanguage string
	outputDir      string
	user           string
	withMinutes    bool
	realtime       bool
)

func init() {
	Cmd.Flags().StringVarP(&input, "input", "i", "-", "wav file to stream, or - for raw 16 kHz linear16 PCM on stdin")
	Cmd.Flags().StringVarP(&language, "language", "l", "English", "language of the generated minutes")
	Cmd.Flags().StringVar(&speechLanguage, "speech-language", "", "spoken language, defaults to the configured one or en-US")
	Cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory for the saved transcript")
	Cmd.Flags().StringVarP(&user, "user", "u", "cli", "owner recorded on the stored meeting")
	Cmd.Flags().BoolVarP(&withMinutes, "minutes", "m", false, "generate minutes from the transcript when the stream ends")
	Cmd.Flags().BoolVar(&realtime, "realtime", true, "pace file input at playback speed")
}

// Cmd represents the live command
var Cmd = &cobra.Command{
	Use:   "live",
	Short: "Transcribe a live audio stream with Deepgram",
	Long: `Transcribe a live audio stream with Deepgram

- Sentences are printed as soon as Deepgram finalises them
- The full transcript is saved as transcript_YYYYMMDD_HHMMSS.txt
- With --minutes the transcript is turned into minutes and stored`,
	Example: `  arecord -f S16_LE -r 16000 -c 1 -t raw | mom live --minutes
  mom live --input standup.wav --language Japanese --minutes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			// a second interrupt kills the process
			<-ctx.Done()
			stop()
		}()

		env, err := shared.Load()
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Keys.Deepgram == "" {
			return apperrors.Mark(apperrors.ErrMissingAPIKey, "DG_API_KEY is required for live transcription")
		}

		var generator MinutesGenerator
		if withMinutes {
			svc, cleanup, err := env.Services(ctx, nil)
			if err != nil {
				return err
			}
			defer cleanup()
			if _, err := svc.Pipeline.ResolveLanguage(language); err != nil {
				return err
			}
			generator = svc.Pipeline
		}

		options := deepgram.DefaultLiveOptions()
		options.Model = env.Config.Transcription.Deepgram.Model
		options.Language = firstNonEmpty(speechLanguage, env.Config.Transcription.Deepgram.SpeechLanguage, options.Language)
		client := deepgram.NewLiveClient(env.Keys.Deepgram, env.Config.Transcription.Deepgram.LiveURL, options, env.Logger)

		var source io.Reader = cmd.InOrStdin()
		if input != "-" {
			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()
			source = f
		}

		_, err = Run(ctx, client, source, Options{
			FromFile:  input != "-",
			Realtime:  realtime,
			Language:  language,
			User:      user,
			OutputDir: outputDir,
			Fs:        afero.NewOsFs(),
			Out:       cmd.OutOrStdout(),
			Generator: generator,
			Logger:    env.Logger,
		})
		return err
	},
}

// MinutesGenerator is satisfied by *pipeline.Pipeline
type MinutesGenerator interface {
	GenerateFromTranscript(ctx context.Context, in pipeline.TranscriptInput) (*pipeline.Result, error)
}

// Options configures one live run
type Options struct {
	// FromFile reads the whole input, normalising WAV, instead of relaying a pipe
	FromFile  bool
	Realtime  bool
	Language  string
	User      string
	OutputDir string
	Fs        afero.Fs
	Out       io.Writer
	Generator MinutesGenerator
	Logger    *zap.Logger
	Now       func() time.Time
}

// Summary is what a finished live run produced
type Summary struct {
	Transcript     string
	TranscriptPath string
	MinutesPath    string
	MeetingID      int
}

// Run streams source to Deepgram, prints sentences to opts.Out and saves the
// transcript. Minutes are generated when opts.Generator is set. Cancelling ctx
// ends the stream: what Deepgram finalised so far is still saved.
func Run(ctx context.Context, client *deepgram.LiveClient, source io.Reader, opts Options) (*Summary, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	session, err := client.Connect(ctx)
	if err != nil {
		return nil, err
	}

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for sentence := range session.Sentences() {
			fmt.Fprintln(opts.Out, sentence)
		}
	}()

	sent := make(chan error, 1)
	go func() {
		sent <- send(ctx, session, source, opts)
	}()

	var sendErr error
	select {
	case sendErr = <-sent:
	case <-ctx.Done():
		// a pipe read may still be blocked, so the sender is not waited for
		sendErr = ctx.Err()
	}

	interrupted := ctx.Err() != nil
	if sendErr != nil && !interrupted {
		session.Close()
		<-printed
		return nil, sendErr
	}

	work := ctx
	finishCtx := ctx
	if interrupted {
		opts.Logger.Info("live stream interrupted, flushing transcript")
		work = context.WithoutCancel(ctx)
		var cancel context.CancelFunc
		finishCtx, cancel = context.WithTimeout(work, flushTimeout)
		defer cancel()
	}

	transcript, err := session.Finish(finishCtx)
	<-printed
	if err != nil && strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("finish live session: %w", err)
	}
	if err != nil {
		opts.Logger.Warn("live session ended uncleanly", zap.Error(err))
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, apperrors.ErrEmptyTranscript
	}

	stamp := opts.Now().Format(timestampLayout)
	summary := &Summary{Transcript: transcript}
	if err := opts.Fs.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, err
	}
	summary.TranscriptPath = filepath.Join(opts.OutputDir, TranscriptFileName(stamp))
	if err := afero.WriteFile(opts.Fs, summary.TranscriptPath, []byte(transcript+"\n"), 0644); err != nil {
		return nil, err
	}
	fmt.Fprintf(opts.Out, "\nTranscript saved to %s\n", summary.TranscriptPath)

	if opts.Generator == nil {
		return summary, nil
	}

	result, err := opts.Generator.GenerateFromTranscript(work, pipeline.TranscriptInput{
		Transcript: transcript,
		Language:   opts.Language,
		User:       opts.User,
		Source:     summary.TranscriptPath,
	})
	if err != nil {
		return summary, err
	}
	for _, w := range result.Warnings {
		opts.Logger.Warn("minutes warning", zap.String("warning", w))
	}

	summary.MeetingID = result.Meeting.ID
	summary.MinutesPath = filepath.Join(opts.OutputDir, "minutes_"+stamp+".txt")
	if err := afero.WriteFile(opts.Fs, summary.MinutesPath, []byte(result.Meeting.Minutes), 0644); err != nil {
		return summary, err
	}
	fmt.Fprintf(opts.Out, "\n%s\n\nMinutes saved to %s\n", result.Meeting.Minutes, summary.MinutesPath)
	return summary, nil
}

// TranscriptFileName names the saved transcript of a session started at stamp
func TranscriptFileName(stamp string) string {
	return "transcript_" + stamp + ".txt"
}

func send(ctx context.Context, session *deepgram.LiveSession, source io.Reader, opts Options) error {
	if !opts.FromFile {
		return session.Stream(ctx, source, chunkSize)
	}

	data, err := io.ReadAll(source)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	data, err = audio.NewNormalizer(afero.NewMemMapFs(), audio.DefaultSampleRate).Normalize(data)
	if err != nil {
		return err
	}
	chunks, err := audio.PCMChunks(bytes.NewReader(data), chunkSize)
	if err != nil {
		return err
	}

	for _, chunk := range chunks {
		if err := session.Send(chunk); err != nil {
			return fmt.Errorf("send audio: %w", err)
		}
		if !opts.Realtime {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(len(chunk)) * time.Second / bytesPerSec):
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
