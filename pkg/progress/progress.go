// Package progress draws in-place progress bars for long batch scans.
package progress

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	barWidth       = 30
	maxDescription = 50
)

// Callback reports progress for one operation.
type Callback func(percentComplete float64, message string)

// Tracker manages multiple concurrent progress bars
type Tracker struct {
	mu         sync.Mutex
	bars       map[string]*Bar
	output     io.Writer
	lastUpdate time.Time
	throttle   time.Duration
}

// Bar represents a single progress operation
type Bar struct {
	ID           string
	Description  string
	Percent      float64
	LastUpdateTS time.Time
}

// NewTracker creates a tracker drawing to w. Updates closer together than
// throttle are not redrawn.
func NewTracker(w io.Writer, throttle time.Duration) *Tracker {
	return &Tracker{
		bars:     make(map[string]*Bar),
		output:   w,
		throttle: throttle,
	}
}

// Start begins tracking a new operation
func (t *Tracker) Start(id, description string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.bars[id] = &Bar{
		ID:           id,
		Description:  description,
		LastUpdateTS: time.Now(),
	}

	t.render()
}

// Update updates the progress of an operation, creating it if needed
func (t *Tracker) Update(id string, percent float64, description string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	bar, ok := t.bars[id]
	if !ok {
		bar = &Bar{ID: id}
		t.bars[id] = bar
	}
	bar.Percent = percent
	if description != "" {
		bar.Description = description
	}
	bar.LastUpdateTS = time.Now()

	if time.Since(t.lastUpdate) >= t.throttle {
		t.render()
		t.lastUpdate = time.Now()
	}
}

// Complete prints a final line for the operation and stops drawing it
func (t *Tracker) Complete(id string, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if bar, ok := t.bars[id]; ok {
		if message != "" {
			bar.Description = message
		}
		fmt.Fprintf(t.output, "\r%s: %s [Complete]\n", id, bar.Description)
		delete(t.bars, id)
	}

	t.render()
}

// Callback returns a Callback that updates the bar id and completes it at 100%
func (t *Tracker) Callback(id string) Callback {
	return func(percentComplete float64, message string) {
		t.Update(id, percentComplete, message)

		if percentComplete >= 100.0 {
			t.Complete(id, message)
		}
	}
}

// Active returns the ids still being drawn, sorted
func (t *Tracker) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.bars))
	for id := range t.bars {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// render draws every bar and moves the cursor back to the first one.
func (t *Tracker) render() {
	if len(t.bars) == 0 {
		return
	}

	ids := make([]string, 0, len(t.bars))
	for id := range t.bars {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprint(t.output, "\r")
	for _, id := range ids {
		bar := t.bars[id]
		fmt.Fprintf(t.output, "\r%s: %s %.1f%% %s\n", id, Draw(bar.Percent), bar.Percent, truncate(bar.Description))
	}
	fmt.Fprint(t.output, strings.Repeat("\033[F", len(ids)))
}

// Draw returns a fixed-width bar such as [=====>    ].
func Draw(percent float64) string {
	completed := int(percent / 100.0 * barWidth)

	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < barWidth; i++ {
		switch {
		case i < completed:
			sb.WriteByte('=')
		case i == completed:
			sb.WriteByte('>')
		default:
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func truncate(desc string) string {
	if len(desc) > maxDescription {
		return desc[:maxDescription-3] + "..."
	}
	return desc
}
