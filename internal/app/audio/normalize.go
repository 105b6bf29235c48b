package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"

	"mom-generator/internal/app/api/provider"
	apperrors "mom-generator/internal/app/errors"
)

const (
	// DefaultSampleRate is what Deepgram and the live recorder expect
	DefaultSampleRate = 16000

	targetBitDepth = 16
	pcmFormat      = 1
)

// Normalizer rewrites WAV uploads as mono 16-bit PCM at a fixed rate. The
// encoder needs a seekable writer, so output is staged on Fs.
type Normalizer struct {
	fs         afero.Fs
	sampleRate int
}

// NewNormalizer creates a normalizer. A nil fs stages in memory.
func NewNormalizer(fs afero.Fs, sampleRate int) *Normalizer {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Normalizer{fs: fs, sampleRate: sampleRate}
}

// Normalize returns data converted to mono PCM when it is a WAV file.
// Other formats, and WAVs already in the target shape, are returned unchanged.
func (n *Normalizer) Normalize(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, apperrors.ErrEmptyAudio
	}
	if Sniff(data) != provider.FormatWAV {
		return data, nil
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, apperrors.Mark(apperrors.ErrUnsupportedFormat, "invalid wav header")
	}
	if dec.WavAudioFormat != pcmFormat {
		// compressed WAV payloads go to the provider as uploaded
		return data, nil
	}
	if int(dec.SampleRate) == n.sampleRate && dec.NumChans == 1 && dec.BitDepth == targetBitDepth {
		return data, nil
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, apperrors.Wrap(err, "decode wav")
	}

	samples := toMono16(buf)
	samples = resample(samples, int(dec.SampleRate), n.sampleRate)

	return n.encode(samples)
}

func (n *Normalizer) encode(samples []int) ([]byte, error) {
	f, err := afero.TempFile(n.fs, "", "normalized-*.wav")
	if err != nil {
		return nil, apperrors.Wrap(err, "create staging file")
	}
	name := f.Name()
	defer n.fs.Remove(name)

	enc := wav.NewEncoder(f, n.sampleRate, targetBitDepth, 1, pcmFormat)
	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: n.sampleRate},
		Data:           samples,
		SourceBitDepth: targetBitDepth,
	})
	if err != nil {
		f.Close()
		return nil, apperrors.Wrap(err, "encode wav")
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return nil, apperrors.Wrap(err, "finalise wav")
	}
	if err := f.Close(); err != nil {
		return nil, apperrors.Wrap(err, "close staging file")
	}
	return afero.ReadFile(n.fs, name)
}

// toMono16 averages channels and rescales samples to 16-bit
func toMono16(buf *audio.IntBuffer) []int {
	channels := 1
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = targetBitDepth
	}

	frames := len(buf.Data) / channels
	out := make([]int, frames)
	for i := 0; i < frames; i++ {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += buf.Data[i*channels+c]
		}
		out[i] = rescale(sum/channels, depth)
	}
	return out
}

func rescale(sample, depth int) int {
	switch {
	case depth == 8:
		// 8-bit PCM is unsigned
		return (sample - 128) << 8
	case depth > targetBitDepth:
		return sample >> (depth - targetBitDepth)
	case depth < targetBitDepth:
		return sample << (targetBitDepth - depth)
	}
	return sample
}

// resample converts between rates with linear interpolation
func resample(samples []int, from, to int) []int {
	if from == to || from <= 0 || len(samples) == 0 {
		return samples
	}
	outLen := int(int64(len(samples)) * int64(to) / int64(from))
	if outLen == 0 {
		return []int{}
	}
	out := make([]int, outLen)
	ratio := float64(from) / float64(to)
	last := len(samples) - 1
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= last {
			out[i] = samples[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = int(float64(samples[idx])*(1-frac) + float64(samples[idx+1])*frac)
	}
	return out
}

// Duration returns the length of a WAV recording, or zero when data is in a
// format that cannot be decoded locally.
func Duration(data []byte) time.Duration {
	if Sniff(data) != provider.FormatWAV {
		return 0
	}
	dec := wav.NewDecoder(bytes.NewReader(data))
	dec.ReadInfo()
	bytesPerSec := int(dec.SampleRate) * int(dec.NumChans) * int(dec.BitDepth) / 8
	if dec.Err() != nil || bytesPerSec == 0 {
		return 0
	}
	pcm := len(StripWAVHeader(data))
	return time.Duration(pcm) * time.Second / time.Duration(bytesPerSec)
}

// PCMChunks splits a raw PCM stream into chunks of size bytes. The last chunk
// may be shorter. A WAV header, when present, is skipped.
func PCMChunks(r io.Reader, size int) ([][]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrap(err, "read pcm")
	}
	data = StripWAVHeader(data)

	chunks := make([][]byte, 0, len(data)/size+1)
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		chunks = append(chunks, data[start:end])
	}
	return chunks, nil
}

// StripWAVHeader returns the payload of the data chunk of a WAV file.
// Non-WAV input is returned unchanged.
func StripWAVHeader(data []byte) []byte {
	if Sniff(data) != provider.FormatWAV {
		return data
	}
	for pos := 12; pos+8 <= len(data); {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if id == "data" {
			return data[body:min(body+size, len(data))]
		}
		// chunks are word aligned
		pos = body + size + size%2
	}
	return data
}
