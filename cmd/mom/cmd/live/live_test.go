package live

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mom-generator/internal/app/api/deepgram"
	apperrors "mom-generator/internal/app/errors"
	"mom-generator/internal/app/model"
	"mom-generator/internal/app/pipeline"
)

// deepgramStub replays finals once the client closes the stream
type deepgramStub struct {
	mu     sync.Mutex
	audio  bytes.Buffer
	finals []string
}

func (d *deepgramStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind == websocket.BinaryMessage {
			d.mu.Lock()
			d.audio.Write(data)
			d.mu.Unlock()
			continue
		}
		var ctl map[string]string
		json.Unmarshal(data, &ctl)
		if ctl["type"] != "CloseStream" {
			continue
		}
		for _, text := range d.finals {
			conn.WriteJSON(map[string]interface{}{
				"type":         "Results",
				"is_final":     true,
				"speech_final": true,
				"channel": map[string]interface{}{
					"alternatives": []map[string]interface{}{{"transcript": text}},
				},
			})
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return
	}
}

type recordingGenerator struct {
	got    pipeline.TranscriptInput
	ctxErr error
	err    error
}

func (g *recordingGenerator) GenerateFromTranscript(ctx context.Context, in pipeline.TranscriptInput) (*pipeline.Result, error) {
	g.got = in
	g.ctxErr = ctx.Err()
	if g.err != nil {
		return nil, g.err
	}
	return &pipeline.Result{Meeting: &model.Meeting{ID: 12, Minutes: "## Minutes\n- budget approved"}}, nil
}

func newClient(t *testing.T, stub *deepgramStub) *deepgram.LiveClient {
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)
	return deepgram.NewLiveClient("key", "ws"+strings.TrimPrefix(server.URL, "http"), deepgram.DefaultLiveOptions(), nil)
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 14, 9, 30, 5, 0, time.UTC)
}

func TestRun_SavesTranscript(t *testing.T) {
	stub := &deepgramStub{finals: []string{"Good morning everyone.", "Let's review the budget."}}
	fs := afero.NewMemMapFs()
	var out bytes.Buffer
	pcm := bytes.Repeat([]byte{1, 0}, 4000)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary, err := Run(ctx, newClient(t, stub), bytes.NewReader(pcm), Options{
		OutputDir: "out",
		Fs:        fs,
		Out:       &out,
		Now:       fixedNow,
	})
	require.NoError(t, err)

	assert.Equal(t, "Good morning everyone. Let's review the budget.", summary.Transcript)
	assert.Equal(t, "out/transcript_20261014_093005.txt", summary.TranscriptPath)
	assert.Empty(t, summary.MinutesPath)

	saved, err := afero.ReadFile(fs, summary.TranscriptPath)
	require.NoError(t, err)
	assert.Equal(t, summary.Transcript+"\n", string(saved))

	assert.Contains(t, out.String(), "Good morning everyone.\nLet's review the budget.\n")
	assert.Contains(t, out.String(), "Transcript saved to out/transcript_20261014_093005.txt")

	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Equal(t, pcm, stub.audio.Bytes())
}

func TestRun_FileInputGeneratesMinutes(t *testing.T) {
	stub := &deepgramStub{finals: []string{"We approved the budget."}}
	fs := afero.NewMemMapFs()
	gen := &recordingGenerator{}
	var out bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary, err := Run(ctx, newClient(t, stub), bytes.NewReader(bytes.Repeat([]byte{0, 1}, 5000)), Options{
		FromFile:  true,
		Language:  "Japanese",
		User:      "cli",
		Fs:        fs,
		Out:       &out,
		Generator: gen,
		Now:       fixedNow,
	})
	require.NoError(t, err)

	assert.Equal(t, "We approved the budget.", gen.got.Transcript)
	assert.Equal(t, "Japanese", gen.got.Language)
	assert.Equal(t, "cli", gen.got.User)
	assert.Equal(t, 12, summary.MeetingID)
	assert.Equal(t, "minutes_20261014_093005.txt", summary.MinutesPath)

	minutes, err := afero.ReadFile(fs, summary.MinutesPath)
	require.NoError(t, err)
	assert.Equal(t, "## Minutes\n- budget approved", string(minutes))
	assert.Contains(t, out.String(), "budget approved")

	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Equal(t, 10000, stub.audio.Len())
}

func TestRun_EmptyTranscript(t *testing.T) {
	stub := &deepgramStub{}
	fs := afero.NewMemMapFs()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Run(ctx, newClient(t, stub), bytes.NewReader([]byte{1, 2, 3, 4}), Options{Fs: fs, Now: fixedNow})
	assert.True(t, apperrors.Is(err, apperrors.ErrEmptyTranscript))

	exists, _ := afero.Exists(fs, TranscriptFileName("20261014_093005"))
	assert.False(t, exists)
}

func TestRun_GeneratorFailureKeepsTranscript(t *testing.T) {
	stub := &deepgramStub{finals: []string{"Short sync."}}
	fs := afero.NewMemMapFs()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary, err := Run(ctx, newClient(t, stub), bytes.NewReader([]byte{1, 2}), Options{
		Fs:        fs,
		Generator: &recordingGenerator{err: apperrors.ErrEmptyCompletion},
		Now:       fixedNow,
	})
	assert.Error(t, err)
	require.NotNil(t, summary)

	exists, _ := afero.Exists(fs, summary.TranscriptPath)
	assert.True(t, exists)
}

func TestRun_InterruptSavesTranscript(t *testing.T) {
	stub := &deepgramStub{finals: []string{"We agreed on the budget."}}
	fs := afero.NewMemMapFs()
	gen := &recordingGenerator{}
	var out bytes.Buffer

	// a microphone pipe that never reaches EOF on its own
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		pw.Write(bytes.Repeat([]byte{1, 0}, 1000))
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	client := newClient(t, stub)
	done := make(chan struct{})
	var summary *Summary
	var err error
	go func() {
		defer close(done)
		summary, err = Run(ctx, client, pr, Options{
			Language:  "English",
			Fs:        fs,
			Out:       &out,
			Generator: gen,
			Now:       fixedNow,
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, "We agreed on the budget.", summary.Transcript)

	saved, err := afero.ReadFile(fs, summary.TranscriptPath)
	require.NoError(t, err)
	assert.Equal(t, "We agreed on the budget.\n", string(saved))
	assert.Contains(t, out.String(), "We agreed on the budget.\n")

	assert.Equal(t, "We agreed on the budget.", gen.got.Transcript)
	assert.NoError(t, gen.ctxErr, "minutes run on after the interrupt")
	assert.Equal(t, 12, summary.MeetingID)
}

func TestTranscriptFileName(t *testing.T) {
	assert.Equal(t, "transcript_20261014_093005.txt", TranscriptFileName(fixedNow().Format(timestampLayout)))
}
