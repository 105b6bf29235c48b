package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const DefaultLiveURL = "wss://api.deepgram.com/v1"

// LiveOptions are the streaming query parameters
type LiveOptions struct {
	Model          string
	Language       string
	Encoding       string
	SampleRate     int
	Channels       int
	Endpointing    int
	UtteranceEndMs int
	Punctuate      bool
	SmartFormat    bool
	InterimResults bool
	VADEvents      bool
}

// DefaultLiveOptions matches 16 kHz mono linear16 microphone input
func DefaultLiveOptions() LiveOptions {
	return LiveOptions{
		Model:          DefaultModel,
		Language:       "en-US",
		Encoding:       "linear16",
		SampleRate:     16000,
		Channels:       1,
		Endpointing:    300,
		UtteranceEndMs: 1000,
		Punctuate:      true,
		SmartFormat:    true,
		InterimResults: true,
		VADEvents:      true,
	}
}

func (o LiveOptions) query() url.Values {
	q := url.Values{}
	q.Set("model", o.Model)
	q.Set("punctuate", strconv.FormatBool(o.Punctuate))
	q.Set("language", o.Language)
	q.Set("encoding", o.Encoding)
	q.Set("channels", strconv.Itoa(o.Channels))
	q.Set("sample_rate", strconv.Itoa(o.SampleRate))
	q.Set("smart_format", strconv.FormatBool(o.SmartFormat))
	q.Set("interim_results", strconv.FormatBool(o.InterimResults))
	if o.Endpointing > 0 {
		q.Set("endpointing", strconv.Itoa(o.Endpointing))
	}
	if o.UtteranceEndMs > 0 {
		q.Set("utterance_end_ms", strconv.Itoa(o.UtteranceEndMs))
	}
	q.Set("vad_events", strconv.FormatBool(o.VADEvents))
	return q
}

// LiveClient opens streaming sessions against the /listen websocket
type LiveClient struct {
	apiKey    string
	baseURL   string
	options   LiveOptions
	dialer    *websocket.Dialer
	logger    *zap.Logger
	keepAlive time.Duration
}

// NewLiveClient creates a streaming client
func NewLiveClient(apiKey, baseURL string, options LiveOptions, logger *zap.Logger) *LiveClient {
	if baseURL == "" {
		baseURL = DefaultLiveURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveClient{
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		options:   options,
		dialer:    &websocket.Dialer{HandshakeTimeout: 15 * time.Second},
		logger:    logger,
		keepAlive: 5 * time.Second,
	}
}

type liveMessage struct {
	Type    string `json:"type"`
	Channel struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
	IsFinal     bool    `json:"is_final"`
	SpeechFinal bool    `json:"speech_final"`
	Start       float64 `json:"start"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
}

// LiveSession is one open stream. Send audio until done, then call Finish.
type LiveSession struct {
	conn      *websocket.Conn
	logger    *zap.Logger
	collector *TranscriptCollector
	sentences chan string

	writeMu  sync.Mutex
	lastSend time.Time

	done    chan struct{}
	stopKA  chan struct{}
	readErr error
	once    sync.Once
}

// Connect dials the websocket and starts the read and keep-alive loops
func (c *LiveClient) Connect(ctx context.Context) (*LiveSession, error) {
	endpoint := c.baseURL + "/listen?" + c.options.query().Encode()
	header := http.Header{}
	header.Set("Authorization", "Token "+c.apiKey)

	conn, resp, err := c.dialer.DialContext(ctx, endpoint, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("deepgram live handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("deepgram live connect failed: %w", err)
	}

	s := &LiveSession{
		conn:      conn,
		logger:    c.logger,
		collector: NewTranscriptCollector(),
		sentences: make(chan string, 64),
		lastSend:  time.Now(),
		done:      make(chan struct{}),
		stopKA:    make(chan struct{}),
	}
	go s.readLoop()
	go s.keepAliveLoop(c.keepAlive)

	c.logger.Info("deepgram live session opened", zap.String("model", c.options.Model), zap.String("language", c.options.Language))
	return s, nil
}

// Sentences delivers each completed utterance. Closed when the session ends.
func (s *LiveSession) Sentences() <-chan string {
	return s.sentences
}

// Send writes one chunk of raw PCM audio
func (s *LiveSession) Send(chunk []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.lastSend = time.Now()
	return s.conn.WriteMessage(websocket.BinaryMessage, chunk)
}

// Stream copies r to the session in fixed chunks until EOF or ctx is done
func (s *LiveSession) Stream(ctx context.Context, r io.Reader, chunkSize int) error {
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if sendErr := s.Send(buf[:n]); sendErr != nil {
				return fmt.Errorf("send audio: %w", sendErr)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read audio: %w", err)
		}
	}
}

func (s *LiveSession) writeJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

// Finish asks Deepgram to flush, waits for the server to close the stream
// and returns every finalised sentence joined by spaces.
func (s *LiveSession) Finish(ctx context.Context) (string, error) {
	s.stopKeepAlive()
	if err := s.writeJSON(map[string]string{"type": "CloseStream"}); err != nil {
		s.conn.Close()
		return s.collector.FullTranscript(), fmt.Errorf("close stream: %w", err)
	}

	select {
	case <-s.done:
	case <-ctx.Done():
		s.conn.Close()
		<-s.done
		return s.collector.FullTranscript(), ctx.Err()
	}
	s.conn.Close()
	return s.collector.FullTranscript(), s.readErr
}

// Close aborts the session without flushing
func (s *LiveSession) Close() error {
	s.stopKeepAlive()
	return s.conn.Close()
}

func (s *LiveSession) stopKeepAlive() {
	s.once.Do(func() { close(s.stopKA) })
}

func (s *LiveSession) keepAliveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopKA:
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			idle := time.Since(s.lastSend) >= interval
			s.writeMu.Unlock()
			if !idle {
				continue
			}
			if err := s.writeJSON(map[string]string{"type": "KeepAlive"}); err != nil {
				s.logger.Debug("keepalive failed", zap.Error(err))
				return
			}
		}
	}
}

func (s *LiveSession) readLoop() {
	defer close(s.done)
	defer close(s.sentences)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !errors.Is(err, net.ErrClosed) {
				s.readErr = err
			}
			s.flush()
			return
		}

		var msg liveMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("unparseable live message", zap.Error(err))
			continue
		}
		s.handle(msg)
	}
}

func (s *LiveSession) handle(msg liveMessage) {
	switch msg.Type {
	case "Results":
		if len(msg.Channel.Alternatives) == 0 {
			return
		}
		text := msg.Channel.Alternatives[0].Transcript
		if !msg.IsFinal {
			return
		}
		s.collector.AddPart(text)
		if msg.SpeechFinal {
			s.flush()
		}
	case "UtteranceEnd":
		s.flush()
	case "Error":
		s.logger.Error("deepgram live error", zap.String("description", msg.Description))
	case "Metadata", "SpeechStarted":
		s.logger.Debug("deepgram live event", zap.String("type", msg.Type))
	}
}

// flush emits the pending sentence. Sentences are dropped from the channel,
// never from the transcript, when the consumer falls behind.
func (s *LiveSession) flush() {
	sentence, ok := s.collector.Flush()
	if !ok {
		return
	}
	select {
	case s.sentences <- sentence:
	default:
		s.logger.Debug("sentence channel full", zap.String("sentence", sentence))
	}
}
