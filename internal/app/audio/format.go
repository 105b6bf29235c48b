// Package audio validates and prepares meeting recordings before they are
// sent for transcription.
package audio

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"mom-generator/internal/app/api/provider"
	apperrors "mom-generator/internal/app/errors"
)

// UploadFormats are the file types accepted from the upload form
var UploadFormats = []provider.AudioFormat{provider.FormatWAV, provider.FormatMP3}

// RecordingFormats are the container types browsers produce with MediaRecorder
var RecordingFormats = []provider.AudioFormat{provider.FormatWEBM, provider.FormatOGG, provider.FormatWAV}

// Detect returns the audio format of data, trusting the file extension first
// and falling back to magic bytes.
func Detect(name string, data []byte) (provider.AudioFormat, error) {
	if format := provider.GetAudioFormatFromFilename(name); format != "" {
		return format, nil
	}
	if format := Sniff(data); format != "" {
		return format, nil
	}
	return "", apperrors.Mark(apperrors.ErrUnsupportedFormat, filepath.Ext(name))
}

// Sniff identifies a format from the leading bytes
func Sniff(data []byte) provider.AudioFormat {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return provider.FormatWAV
	case len(data) >= 3 && bytes.Equal(data[0:3], []byte("ID3")):
		return provider.FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return provider.FormatMP3
	case len(data) >= 4 && bytes.Equal(data[0:4], []byte("OggS")):
		return provider.FormatOGG
	case len(data) >= 4 && bytes.Equal(data[0:4], []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return provider.FormatWEBM
	}
	return ""
}

// Accepts reports whether format is in allowed
func Accepts(format provider.AudioFormat, allowed []provider.AudioFormat) bool {
	return lo.Contains(allowed, format)
}

// SanitizeFilename strips directories and keeps only letters, digits (in any
// script) and "._- "
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._- ", r) {
			return r
		}
		return -1
	}, name)
	name = strings.TrimSpace(strings.Trim(name, "."))
	if name == "" {
		return "recording"
	}
	return name
}
