package audio

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mom-generator/internal/app/api/provider"
	apperrors "mom-generator/internal/app/errors"
)

// makeWAV encodes frames of interleaved samples into a WAV file in memory
func makeWAV(t *testing.T, sampleRate, channels, bitDepth int, samples []int) []byte {
	t.Helper()
	fs := afero.NewMemMapFs()
	f, err := fs.Create("/fixture.wav")
	require.NoError(t, err)

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	data, err := afero.ReadFile(fs, "/fixture.wav")
	require.NoError(t, err)
	return data
}

func decode(t *testing.T, data []byte) (*wav.Decoder, *audio.IntBuffer) {
	t.Helper()
	dec := wav.NewDecoder(bytes.NewReader(data))
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return dec, buf
}

func TestDetect(t *testing.T) {
	wavData := makeWAV(t, 16000, 1, 16, []int{0, 1, 2, 3})

	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     provider.AudioFormat
		wantErr  bool
	}{
		{"wav by extension", "standup.WAV", nil, provider.FormatWAV, false},
		{"mp3 by extension", "call.mp3", nil, provider.FormatMP3, false},
		{"wav by content", "blob", wavData, provider.FormatWAV, false},
		{"mp3 id3 tag", "blob", []byte("ID3\x04\x00"), provider.FormatMP3, false},
		{"mp3 frame sync", "blob", []byte{0xFF, 0xFB, 0x90, 0x00}, provider.FormatMP3, false},
		{"ogg", "", []byte("OggS\x00\x02"), provider.FormatOGG, false},
		{"webm", "", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x01}, provider.FormatWEBM, false},
		{"flac", "a.flac", []byte("fLaC"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.fileName, tt.data)
			if tt.wantErr {
				assert.True(t, apperrors.Is(err, apperrors.ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts(provider.FormatWAV, UploadFormats))
	assert.True(t, Accepts(provider.FormatMP3, UploadFormats))
	assert.False(t, Accepts(provider.FormatWEBM, UploadFormats))
	assert.True(t, Accepts(provider.FormatWEBM, RecordingFormats))
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"meeting 01.wav":          "meeting 01.wav",
		"../../etc/passwd":        "passwd",
		`C:\Users\me\rec.mp3`:     "rec.mp3",
		"weekly<sync>|notes?.mp3": "weeklysyncnotes.mp3",
		"議事録.wav":                 "議事録.wav",
		"会議<録音>.wav":              "会議録音.wav",
		"réunion équipe.mp3":      "réunion équipe.mp3",
		"...":                     "recording",
		"":                        "recording",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestNormalize_StereoToMono16k(t *testing.T) {
	// one second of 48 kHz stereo, left and right differ
	frames := 48000
	samples := make([]int, frames*2)
	for i := 0; i < frames; i++ {
		samples[2*i] = 1000
		samples[2*i+1] = 3000
	}
	in := makeWAV(t, 48000, 2, 16, samples)

	out, err := NewNormalizer(nil, 16000).Normalize(in)
	require.NoError(t, err)

	dec, buf := decode(t, out)
	assert.EqualValues(t, 16000, dec.SampleRate)
	assert.EqualValues(t, 1, dec.NumChans)
	assert.EqualValues(t, 16, dec.BitDepth)
	assert.Len(t, buf.Data, 16000)
	assert.Equal(t, 2000, buf.Data[100])
}

func TestNormalize_Rescales24Bit(t *testing.T) {
	in := makeWAV(t, 16000, 1, 24, []int{256, -512, 1 << 20})

	out, err := NewNormalizer(afero.NewMemMapFs(), 16000).Normalize(in)
	require.NoError(t, err)

	_, buf := decode(t, out)
	assert.Equal(t, []int{1, -2, 1 << 12}, buf.Data)
}

func TestNormalize_PassThrough(t *testing.T) {
	n := NewNormalizer(nil, 16000)

	mp3 := []byte("ID3\x04\x00\x00rest-of-mp3")
	out, err := n.Normalize(mp3)
	require.NoError(t, err)
	assert.Equal(t, mp3, out)

	already := makeWAV(t, 16000, 1, 16, []int{1, 2, 3, 4})
	out, err = n.Normalize(already)
	require.NoError(t, err)
	assert.Equal(t, already, out)
}

func TestNormalize_Errors(t *testing.T) {
	n := NewNormalizer(nil, 0)

	_, err := n.Normalize(nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrEmptyAudio))
}

func TestNormalize_CleansStagingFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	in := makeWAV(t, 8000, 1, 16, make([]int, 800))

	_, err := NewNormalizer(fs, 16000).Normalize(in)
	require.NoError(t, err)

	entries, err := afero.ReadDir(fs, os.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestResample(t *testing.T) {
	assert.Equal(t, []int{0, 10, 20}, resample([]int{0, 10, 20}, 16000, 16000))
	assert.Equal(t, []int{0, 5, 10, 15, 20, 20}, resample([]int{0, 10, 20}, 8000, 16000))
	assert.Equal(t, []int{0, 20}, resample([]int{0, 10, 20, 30}, 32000, 16000))
	assert.Empty(t, resample([]int{5}, 48000, 16000))
}

func TestDuration(t *testing.T) {
	data := makeWAV(t, 16000, 1, 16, make([]int, 24000))
	assert.Equal(t, 1500*time.Millisecond, Duration(data))
	assert.Zero(t, Duration([]byte("ID3")))
}

func TestPCMChunks(t *testing.T) {
	samples := make([]int, 10)
	for i := range samples {
		samples[i] = i
	}
	data := makeWAV(t, 16000, 1, 16, samples)

	chunks, err := PCMChunks(bytes.NewReader(data), 8)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 8)
	assert.Len(t, chunks[2], 4)
	assert.Equal(t, []byte{0, 0, 1, 0}, chunks[0][:4])

	raw, err := PCMChunks(bytes.NewReader([]byte{1, 2, 3}), 2)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{1, 2}, {3}}, raw)

	_, err = PCMChunks(bytes.NewReader(nil), 0)
	assert.Error(t, err)
}
