// Package session implements the typing state machine: it consumes one key
// or fetch event at a time and keeps the displayed text, the cursor and the
// timer of the current attempt.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/spede/internal/coords"
	"github.com/verte-zerg/spede/internal/keys"
	"github.com/verte-zerg/spede/internal/metrics"
	"github.com/verte-zerg/spede/internal/model"
)

// DefaultWidth is used until the driver reports the terminal width.
const DefaultWidth = 80

// State is a state of the typing session.
type State int

// Session states.
const (
	AwaitingQuote State = iota
	Fetching
	Typing
	Completed
	Interrupted
)

func (s State) String() string {
	switch s {
	case AwaitingQuote:
		return "awaiting-quote"
	case Fetching:
		return "fetching"
	case Typing:
		return "typing"
	case Completed:
		return "completed"
	case Interrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Effect tells the driver what to do after an event.
type Effect int

// Effects.
const (
	EffectNone Effect = iota
	EffectFetch
	EffectQuit
	EffectCompleted
)

// ErrEmptyQuote is returned when a fetched quote has no content.
var ErrEmptyQuote = errors.New("quote is empty")

// QuoteFetchError reports a failed quote fetch. It is fatal to the session.
type QuoteFetchError struct {
	Err error
}

func (e *QuoteFetchError) Error() string {
	return fmt.Sprintf("failed to fetch quote: %v", e.Err)
}

func (e *QuoteFetchError) Unwrap() error {
	return e.Err
}

// Session is a single typing attempt. It is not safe for concurrent use.
type Session struct {
	state State
	now   func() time.Time
	width int

	quote   model.Quote
	content []rune
	output  []rune
	display []rune

	row int
	col int

	started   bool
	startedAt time.Time

	result    metrics.Result
	hasResult bool
	err       error
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithWidth sets the initial terminal width. Non-positive values are ignored.
func WithWidth(width int) Option {
	return func(s *Session) {
		if width > 0 {
			s.width = width
		}
	}
}

// New returns a session waiting for its first quote.
func New(opts ...Option) *Session {
	s := &Session{
		state: AwaitingQuote,
		now:   time.Now,
		width: DefaultWidth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AtEnd reports whether a key at offset reaches the end of a quote of
// quoteLen runes. Backspace on the last rune is still editing.
func AtEnd(offset, quoteLen int, k keys.Key) bool {
	last := quoteLen - 1
	if offset == last && k.Kind == keys.Backspace {
		return false
	}
	return offset >= last
}

// HandleKey applies one key event.
func (s *Session) HandleKey(k keys.Key) Effect {
	if k.Kind == keys.Interrupt {
		s.state = Interrupted
		s.started = false
		return EffectQuit
	}

	switch s.state {
	case Interrupted:
		return EffectQuit
	case Fetching:
		return EffectNone
	case AwaitingQuote, Completed:
		if k.Kind == keys.Enter {
			s.state = Fetching
			return EffectFetch
		}
		return EffectNone
	}

	switch k.Kind {
	case keys.Enter:
		s.state = Fetching
		s.started = false
		return EffectFetch
	case keys.Backspace, keys.Printable:
		return s.edit(k)
	default:
		return EffectNone
	}
}

func (s *Session) edit(k keys.Key) Effect {
	offset := s.CursorOffset()
	if AtEnd(offset, len(s.content), k) {
		if !s.started {
			return EffectNone
		}
		return s.complete(offset, k)
	}

	if !s.started {
		s.started = true
		s.startedAt = s.now()
	}

	if k.Kind == keys.Backspace {
		row, col, err := coords.Back(s.row, s.col, s.width)
		if err != nil {
			return EffectNone
		}
		s.row, s.col = row, col
		back := s.CursorOffset()
		s.display[back] = s.output[back]
		return EffectNone
	}

	s.display[offset] = k.Rune
	s.moveTo(offset + 1)
	return EffectNone
}

func (s *Session) complete(offset int, k keys.Key) Effect {
	if k.Kind == keys.Printable && offset < len(s.content) {
		s.display[offset] = k.Rune
		s.moveTo(offset + 1)
	}
	res, err := metrics.Compute(s.startedAt, s.now(), string(s.content), string(s.display[:len(s.content)]))
	s.started = false
	s.startedAt = time.Time{}
	if err != nil {
		s.err = fmt.Errorf("failed to compute metrics: %w", err)
		s.state = Interrupted
		return EffectQuit
	}
	s.result = res
	s.hasResult = true
	s.state = Completed
	return EffectCompleted
}

// QuoteLoaded installs a freshly fetched quote and starts a new attempt.
func (s *Session) QuoteLoaded(q model.Quote) error {
	if q.Content == "" {
		return ErrEmptyQuote
	}
	s.quote = q
	s.content = []rune(q.Content)
	s.output = []rune(q.Output())
	s.display = append([]rune(nil), s.output...)
	s.started = false
	s.startedAt = time.Time{}
	s.hasResult = false
	s.result = metrics.Result{}
	s.row, s.col = 0, 0
	s.state = Typing
	return nil
}

// FetchFailed records a failed fetch and returns the fatal error.
func (s *Session) FetchFailed(err error) error {
	s.state = Interrupted
	s.err = &QuoteFetchError{Err: err}
	return s.err
}

// Resize changes the terminal width, keeping the cursor on the same rune.
func (s *Session) Resize(width int) error {
	offset := s.CursorOffset()
	row, col, err := coords.ToRowCol(offset, width)
	if err != nil {
		return err
	}
	s.width = width
	s.row, s.col = row, col
	return nil
}

func (s *Session) moveTo(offset int) {
	row, col, err := coords.ToRowCol(offset, s.width)
	if err != nil {
		return
	}
	s.row, s.col = row, col
}

// CursorOffset returns the cursor position as an offset into the quote.
func (s *Session) CursorOffset() int {
	offset, err := coords.ToLinearOffset(s.row, s.col, s.width)
	if err != nil {
		return 0
	}
	return offset
}

// Cursor returns the cursor cell.
func (s *Session) Cursor() (row, col int) {
	return s.row, s.col
}

// Width returns the terminal width the cursor is laid out for.
func (s *Session) Width() int {
	return s.width
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Quote returns the current quote.
func (s *Session) Quote() model.Quote {
	return s.quote
}

// QuoteLen returns the number of runes the user types against.
func (s *Session) QuoteLen() int {
	return len(s.content)
}

// Output returns the full displayed line of the current quote.
func (s *Session) Output() []rune {
	return s.output
}

// Display returns the runes currently shown for the output line.
func (s *Session) Display() []rune {
	return s.display
}

// Started reports whether the timer runs, and since when.
func (s *Session) Started() (time.Time, bool) {
	return s.startedAt, s.started
}

// Result returns the metrics of the last completed attempt.
func (s *Session) Result() (metrics.Result, bool) {
	return s.result, s.hasResult
}

// Err returns the fatal error that ended the session, if any.
func (s *Session) Err() error {
	return s.err
}
