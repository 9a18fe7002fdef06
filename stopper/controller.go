package stopper

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// State is the banner state of a Controller.
type State int

const (
	StateIdle State = iota
	StateErrorShown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateErrorShown:
		return "error-shown"
	default:
		return "unknown"
	}
}

// Config is handed to the controller by its host at construction time.
type Config struct {
	Enabled      bool
	DismissAfter time.Duration
}

// DefaultConfig returns an enabled controller configuration with a 3s banner.
func DefaultConfig() Config {
	return Config{Enabled: true, DismissAfter: 3 * time.Second}
}

// Source is the live buffer as seen at the moment of a submission.
type Source interface {
	// CurrentLine returns the text and 1-based number of the line under the
	// cursor. ok is false when there is no active document.
	CurrentLine() (text string, number int, ok bool)
	Language() Language
}

// Rejection describes a blocked submission.
type Rejection struct {
	Verdict    Verdict
	Line       string
	Language   Language
	LineNumber int
}

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc arms f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

// Option configures a Controller.
type Option func(*Controller)

// WithObserver registers fn to be called once per rejected submission.
func WithObserver(fn func(Rejection)) Option {
	return func(c *Controller) { c.observer = fn }
}

// WithAfterFunc replaces time.AfterFunc for the auto-dismiss timer.
func WithAfterFunc(af AfterFunc) Option {
	return func(c *Controller) { c.afterFunc = af }
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithDismissHook registers fn to be called after the banner auto-dismisses.
func WithDismissHook(fn func()) Option {
	return func(c *Controller) { c.onDismiss = fn }
}

// Controller intercepts line submission for one editor instance.
type Controller struct {
	mu         sync.Mutex
	cfg        Config
	state      State
	last       Verdict
	hasLast    bool
	timer      Timer
	generation uint64

	observer  func(Rejection)
	onDismiss func()
	afterFunc AfterFunc
	logger    *slog.Logger
}

// NewController creates a controller in the Idle state.
func NewController(cfg Config, opts ...Option) *Controller {
	if cfg.DismissAfter <= 0 {
		cfg.DismissAfter = DefaultConfig().DismissAfter
	}
	c := &Controller{
		cfg: cfg,
		afterFunc: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit handles the submission action. It returns true when the host should
// go on and insert the newline, false when the submission is suppressed.
// literal marks an Enter that explicitly asks for a plain newline.
func (c *Controller) Submit(src Source, literal bool) bool {
	c.mu.Lock()
	if !c.cfg.Enabled || literal || src == nil {
		c.mu.Unlock()
		return true
	}
	text, number, ok := src.CurrentLine()
	lang := src.Language()
	if !ok {
		c.mu.Unlock()
		return true
	}

	v := Validate(text, lang)
	c.last, c.hasLast = v, true
	if v.Valid {
		c.clearLocked()
		c.mu.Unlock()
		return true
	}

	c.state = StateErrorShown
	c.armLocked()
	observer := c.observer
	c.mu.Unlock()

	c.logger.Debug("line rejected",
		"language", lang.String(),
		"line", number,
		"message", v.Message)
	if observer != nil {
		observer(Rejection{Verdict: v, Line: text, Language: lang, LineNumber: number})
	}
	return false
}

// Edit tells the controller the buffer changed; a shown banner is cleared.
func (c *Controller) Edit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

// SetEnabled flips interception. Disabling also clears a shown banner.
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Enabled = enabled
	if !enabled {
		c.clearLocked()
	}
}

// Enabled reports whether submissions are intercepted.
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Enabled
}

// State returns the current banner state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Banner returns the message to display while a rejection is shown.
func (c *Controller) Banner() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateErrorShown {
		return "", false
	}
	return c.last.Message, true
}

// LastVerdict returns the verdict of the most recent validated submission.
func (c *Controller) LastVerdict() (Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.hasLast
}

// Close cancels any pending dismissal. The controller stays usable.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Controller) armLocked() {
	c.stopTimerLocked()
	c.generation++
	gen := c.generation
	c.timer = c.afterFunc(c.cfg.DismissAfter, func() { c.dismiss(gen) })
}

func (c *Controller) dismiss(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.state != StateErrorShown {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	c.timer = nil
	hook := c.onDismiss
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (c *Controller) clearLocked() {
	c.stopTimerLocked()
	c.state = StateIdle
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	// A timer that already fired must not act on a later banner.
	c.generation++
}
