// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/spede/internal/keys"
	"github.com/verte-zerg/spede/internal/model"
	"github.com/verte-zerg/spede/internal/quote"
	"github.com/verte-zerg/spede/internal/session"
	"github.com/verte-zerg/spede/internal/textfmt"
)

const defaultFetchTimeout = 30 * time.Second

type quoteMsg struct {
	quote model.Quote
}

type fetchFailedMsg struct {
	err error
}

type keyMap struct {
	NewQuote key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewQuote, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	NewQuote: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new quote")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	session  *session.Session
	provider quote.Provider
	logger   *slog.Logger
	timeout  time.Duration

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width  int
	height int

	err error
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Underline(true)
	authorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Italic(true)
	resultStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a typing TUI model. width is the terminal width known
// before the first resize message, or 0.
func NewModel(provider quote.Provider, logger *slog.Logger, width int) *Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(footerStyle))
	m := &Model{
		provider: provider,
		logger:   logger,
		timeout:  defaultFetchTimeout,
		spinner:  sp,
		help:     help.New(),
		keys:     defaultKeys,
		width:    width,
	}
	m.session = session.New(session.WithWidth(contentWidth(width)))
	return m
}

// Err returns the fatal error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Session exposes the underlying typing session.
func (m *Model) Session() *session.Session {
	return m.session
}

// Init implements tea.Model. The first quote is requested right away, as if
// Enter had been pressed.
func (m *Model) Init() tea.Cmd {
	return m.apply(m.session.HandleKey(keys.Key{Kind: keys.Enter}))
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if err := m.session.Resize(contentWidth(msg.Width)); err != nil {
			m.logger.Warn("ignoring resize", "width", msg.Width, "error", err)
		}
		return m, nil
	case tea.KeyMsg:
		var cmds []tea.Cmd
		for _, code := range keyCodes(msg) {
			k := keys.Classify(code)
			cmd := m.apply(m.session.HandleKey(k))
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			if m.session.State() != session.Typing {
				break
			}
		}
		return m, tea.Batch(cmds...)
	case quoteMsg:
		if err := m.session.QuoteLoaded(msg.quote); err != nil {
			m.err = m.session.FetchFailed(err)
			return m, tea.Quit
		}
		m.logger.Info("quote loaded", "id", msg.quote.ID, "author", msg.quote.Author, "runes", m.session.QuoteLen())
		return m, nil
	case fetchFailedMsg:
		m.err = m.session.FetchFailed(msg.err)
		m.logger.Error("quote fetch failed", "error", msg.err)
		return m, tea.Quit
	case spinner.TickMsg:
		if m.session.State() != session.Fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *Model) apply(effect session.Effect) tea.Cmd {
	switch effect {
	case session.EffectFetch:
		return tea.Batch(m.spinner.Tick, m.fetch())
	case session.EffectQuit:
		if err := m.session.Err(); err != nil {
			m.err = err
			m.logger.Error("session ended", "error", err)
		}
		return tea.Quit
	case session.EffectCompleted:
		if res, ok := m.session.Result(); ok {
			m.logger.Info("quote completed",
				"wpm", res.AdjustedWPM,
				"accuracy", res.Accuracy,
				"correct_words", res.CorrectWords,
				"words", res.WordCount,
				"elapsed", res.Elapsed)
		}
		return nil
	default:
		return nil
	}
}

func (m *Model) fetch() tea.Cmd {
	provider := m.provider
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		q, err := provider.Random(ctx)
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		return quoteMsg{quote: q}
	}
}

// keyCodes turns a key message back into raw codes. Control keys carry their
// ASCII value as the key type, so Ctrl+C arrives as byte 3 in raw mode.
func keyCodes(msg tea.KeyMsg) []int {
	if msg.Paste {
		return nil
	}
	switch msg.Type {
	case tea.KeyRunes:
		codes := make([]int, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			codes = append(codes, int(r))
		}
		return codes
	case tea.KeySpace:
		return []int{' '}
	}
	if msg.Type >= 0 && msg.Type <= tea.KeyBackspace {
		return []int{int(msg.Type)}
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.session.State() {
	case session.AwaitingQuote, session.Fetching:
		content = m.spinner.View() + " fetching a quote..."
	case session.Interrupted:
		return ""
	default:
		content = m.renderQuote()
	}

	footer := footerStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	width := contentWidth(m.width)
	body := lipgloss.NewStyle().Width(width).Render(content)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) renderQuote() string {
	s := m.session
	content := []rune(s.Quote().Content)
	display := s.Display()
	kinds := classifyCells(content, display, s.CursorOffset())
	text := renderGrid(display, kinds, s.Width())
	res, ok := s.Result()
	if s.State() != session.Completed || !ok {
		return text
	}
	return text + "\n\n" + renderResult(res.AdjustedWPM, res.Accuracy, s.Width())
}

func renderResult(wpm, accuracy float64, width int) string {
	lines := []string{
		fmt.Sprintf("Adjusted WPM: %.2f", wpm),
		fmt.Sprintf("Accuracy: %.2f%%", accuracy*100),
		"",
		"Press ENTER to continue...",
	}
	for i, line := range lines {
		lines[i] = textfmt.Truncate(line, width)
	}
	return resultStyle.Render(strings.Join(lines, "\n"))
}

func contentWidth(width int) int {
	w := int(float64(width) * 0.70)
	if w < 1 {
		if width > 0 {
			return width
		}
		return session.DefaultWidth
	}
	return w
}
