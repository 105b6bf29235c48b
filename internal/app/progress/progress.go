// Package progress renders terminal progress bars for batch commands.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Config controls whether bars are drawn and where
type Config struct {
	Enabled bool
	Writer  io.Writer
}

// Manager owns the mpb container. A disabled manager hands out no-op bars.
type Manager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

// Bar is one progress line
type Bar struct {
	bar     *mpb.Bar
	enabled bool
}

// NewManager creates a manager writing to cfg.Writer, stderr by default
func NewManager(cfg Config) *Manager {
	if !cfg.Enabled {
		return &Manager{}
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	// auto refresh keeps rendering when writer is a pipe or a buffer
	container := mpb.New(
		mpb.WithOutput(writer),
		mpb.WithAutoRefresh(),
		mpb.WithRefreshRate(120*time.Millisecond),
		mpb.WithWaitGroup(&sync.WaitGroup{}),
	)
	return &Manager{container: container, enabled: true}
}

// Enabled reports whether bars are drawn
func (m *Manager) Enabled() bool {
	return m.enabled
}

// NewBar adds a bar counting total recordings
func (m *Manager) NewBar(total int, description string) *Bar {
	if !m.enabled || m.container == nil {
		return &Bar{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bar := m.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.CountersNoUnit("(%d/%d)", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.NewPercentage("%.1f", decor.WCSyncSpace),
			decor.OnComplete(
				decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), " ✓ ",
			),
		),
	)
	return &Bar{bar: bar, enabled: true}
}

// Increment advances the bar by one, feeding the ETA with the item duration
func (b *Bar) Increment(took time.Duration) {
	if b.enabled && b.bar != nil {
		b.bar.EwmaIncrement(took)
	}
}

// Complete ends the bar even when fewer items were counted. Bars built with
// a positive total ignore SetTotal, so a short bar is aborted in place.
func (b *Bar) Complete() {
	if b.enabled && b.bar != nil {
		b.bar.Abort(false)
	}
}

// Wait blocks until every bar has completed and been rendered
func (m *Manager) Wait() {
	if m.enabled && m.container != nil {
		m.container.Wait()
	}
}

// Shutdown stops rendering without waiting for bars
func (m *Manager) Shutdown() {
	if m.enabled && m.container != nil {
		m.container.Shutdown()
	}
}

// IsTTY reports whether writer is a character device
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok || file == nil {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// ShouldShow decides whether to draw bars: always when forced, else only on a terminal
func ShouldShow(forced bool) bool {
	if forced {
		return true
	}
	return IsTTY(os.Stderr)
}

// Describe builds a bar label such as "Generating minutes (Japanese)"
func Describe(action, detail string) string {
	if detail != "" {
		return fmt.Sprintf("%s (%s)", action, detail)
	}
	return action
}
