package clipboard

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidinfra/tenbyte-userdata/pkg/telemetry"
)

// DefaultWindow is how long a successful copy stays acknowledged.
const DefaultWindow = 2 * time.Second

// Copier copies text through a Sink and tracks a transient "copied"
// acknowledgment. Failures are logged and counted, never returned to the
// caller of Copy.
type Copier struct {
	sink    Sink
	window  time.Duration
	logger  zerolog.Logger
	metrics *telemetry.Metrics

	mu       sync.Mutex
	copied   bool
	gen      uint64
	timer    *time.Timer
	onChange func(bool)
}

// CopierOption configures a Copier.
type CopierOption func(*Copier)

// WithWindow sets the acknowledgment window.
func WithWindow(d time.Duration) CopierOption {
	return func(c *Copier) { c.window = d }
}

// WithLogger sets the logger used for copy failures.
func WithLogger(logger zerolog.Logger) CopierOption {
	return func(c *Copier) { c.logger = logger.With().Str("component", "clipboard").Logger() }
}

// WithMetrics records copy attempts on m.
func WithMetrics(m *telemetry.Metrics) CopierOption {
	return func(c *Copier) { c.metrics = m }
}

// NewCopier creates a copier for sink.
func NewCopier(sink Sink, opts ...CopierOption) *Copier {
	c := &Copier{
		sink:   sink,
		window: DefaultWindow,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Window returns the acknowledgment window.
func (c *Copier) Window() time.Duration {
	return c.window
}

// OnChange registers fn to be called whenever Copied flips. fn runs on
// the copying or timer goroutine.
func (c *Copier) OnChange(fn func(copied bool)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Copied reports whether a copy succeeded within the last window.
func (c *Copier) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copied
}

// Copy starts copying text in the background and returns immediately.
func (c *Copier) Copy(ctx context.Context, text string) {
	go c.CopyNow(ctx, text)
}

// CopyNow copies text synchronously and reports whether the sink accepted
// it. The acknowledgment is updated exactly as for Copy.
func (c *Copier) CopyNow(ctx context.Context, text string) bool {
	if err := c.sink.WriteText(ctx, text); err != nil {
		c.logger.Warn().Err(err).Msg("Clipboard copy failed")
		c.metrics.RecordClipboardCopy("error")
		return false
	}
	c.metrics.RecordClipboardCopy("success")
	c.acknowledge()
	return true
}

// acknowledge marks a successful copy and schedules its expiry. A copy
// inside an existing window restarts the window.
func (c *Copier) acknowledge() {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	changed := !c.copied
	c.copied = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, func() { c.expire(gen) })
	fn := c.onChange
	c.mu.Unlock()

	if changed && fn != nil {
		fn(true)
	}
}

func (c *Copier) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.copied {
		c.mu.Unlock()
		return
	}
	c.copied = false
	c.timer = nil
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(false)
	}
}

// Close cancels a pending expiry.
func (c *Copier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
