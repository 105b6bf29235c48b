package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLiveServer struct {
	t        *testing.T
	mu       sync.Mutex
	query    map[string]string
	auth     string
	audio    bytes.Buffer
	controls []string
	results  []map[string]interface{}
}

func result(text string, isFinal, speechFinal bool) map[string]interface{} {
	return map[string]interface{}{
		"type":         "Results",
		"is_final":     isFinal,
		"speech_final": speechFinal,
		"channel": map[string]interface{}{
			"alternatives": []map[string]interface{}{{"transcript": text, "confidence": 0.9}},
		},
	}
}

func (f *fakeLiveServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}
	f.mu.Lock()
	f.auth = r.Header.Get("Authorization")
	f.query = map[string]string{}
	for k, v := range r.URL.Query() {
		f.query[k] = v[0]
	}
	f.mu.Unlock()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.t.Errorf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind == websocket.BinaryMessage {
			f.mu.Lock()
			f.audio.Write(data)
			f.mu.Unlock()
			continue
		}

		var ctl map[string]string
		json.Unmarshal(data, &ctl)
		f.mu.Lock()
		f.controls = append(f.controls, ctl["type"])
		f.mu.Unlock()

		if ctl["type"] == "CloseStream" {
			for _, msg := range f.results {
				conn.WriteJSON(msg)
			}
			conn.WriteJSON(map[string]interface{}{"type": "Metadata", "request_id": "live-1"})
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestLiveSession_CollectsSentences(t *testing.T) {
	fake := &fakeLiveServer{t: t, results: []map[string]interface{}{
		result("Good", false, false),
		result("Good morning", true, false),
		result("everyone.", true, true),
		result("", true, false),
		result("Let's review", true, false),
		{"type": "UtteranceEnd"},
		result("the budget.", true, false),
	}}
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewLiveClient("live-key", wsURL(server), DefaultLiveOptions(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := client.Connect(ctx)
	require.NoError(t, err)

	pcm := bytes.Repeat([]byte{1, 2}, 5000)
	require.NoError(t, session.Stream(ctx, bytes.NewReader(pcm), 3200))

	transcript, err := session.Finish(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Good morning everyone. Let's review the budget.", transcript)

	var sentences []string
	for s := range session.Sentences() {
		sentences = append(sentences, s)
	}
	assert.Equal(t, []string{"Good morning everyone.", "Let's review", "the budget."}, sentences)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "Token live-key", fake.auth)
	assert.Equal(t, pcm, fake.audio.Bytes())
	assert.Equal(t, []string{"CloseStream"}, fake.controls)
	assert.Equal(t, "nova-2", fake.query["model"])
	assert.Equal(t, "linear16", fake.query["encoding"])
	assert.Equal(t, "16000", fake.query["sample_rate"])
	assert.Equal(t, "1", fake.query["channels"])
	assert.Equal(t, "en-US", fake.query["language"])
	assert.Equal(t, "300", fake.query["endpointing"])
	assert.Equal(t, "1000", fake.query["utterance_end_ms"])
	assert.Equal(t, "true", fake.query["interim_results"])
	assert.Equal(t, "true", fake.query["vad_events"])
	assert.Equal(t, "true", fake.query["smart_format"])
}

func TestLiveSession_KeepAlive(t *testing.T) {
	fake := &fakeLiveServer{t: t}
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewLiveClient("k", wsURL(server), DefaultLiveOptions(), nil)
	client.keepAlive = 20 * time.Millisecond

	session, err := client.Connect(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return len(fake.controls) > 0 && fake.controls[0] == "KeepAlive"
	}, 2*time.Second, 10*time.Millisecond)

	_, err = session.Finish(context.Background())
	require.NoError(t, err)
}

func TestLiveClient_HandshakeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewLiveClient("bad", wsURL(server), DefaultLiveOptions(), nil)
	_, err := client.Connect(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
