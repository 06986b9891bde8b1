package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/encore/internal/actions"
	"github.com/five82/encore/internal/dispatch"
	"github.com/five82/encore/internal/prefs"
	"github.com/five82/encore/internal/state"
)

const seekStep = 10 * time.Second

// Dispatcher is the part of dispatch.Dispatcher the UI needs.
type Dispatcher interface {
	Dispatch(e dispatch.Envelope)
	State() state.AppState
	Subscribe() (<-chan state.AppState, func())
}

// Options configures the UI.
type Options struct {
	Dispatcher Dispatcher
	Actions    *actions.Actions
	ThemeName  string
	PrefsPath  string
}

// stateMsg carries a published state into the program.
type stateMsg state.AppState

// Model is the now-playing screen.
type Model struct {
	dispatcher  Dispatcher
	acts        *actions.Actions
	updates     <-chan state.AppState
	unsubscribe func()
	prefsPath   string

	theme    Theme
	keys     keyMap
	help     help.Model
	progress progress.Model
	width    int
	height   int

	snapshot state.AppState
}

// New creates the model and subscribes it to published states.
func New(opts Options) Model {
	updates, cancel := opts.Dispatcher.Subscribe()
	acts := opts.Actions
	if acts == nil {
		acts = actions.New(nil)
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	theme := GetTheme(opts.ThemeName)
	return Model{
		dispatcher:  opts.Dispatcher,
		acts:        acts,
		updates:     updates,
		unsubscribe: cancel,
		prefsPath:   prefsPath,
		theme:       theme,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		progress:    newProgress(theme),
		snapshot:    opts.Dispatcher.State(),
	}
}

func newProgress(t Theme) progress.Model {
	return progress.New(
		progress.WithGradient(t.Accent, t.Success),
		progress.WithoutPercentage(),
	)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForState(m.updates)
}

func waitForState(ch <-chan state.AppState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(msg.Width-16, 10)
		return m, nil

	case stateMsg:
		m.snapshot = state.AppState(msg)
		return m, waitForState(m.updates)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Toggle):
		m.dispatcher.Dispatch(m.acts.Switch())
	case key.Matches(msg, m.keys.Next):
		m.dispatcher.Dispatch(m.acts.ProceedToNextItem())
	case key.Matches(msg, m.keys.Previous):
		m.dispatcher.Dispatch(m.acts.GetBackToPreviousItem())
	case key.Matches(msg, m.keys.SeekBack):
		m.seek(-seekStep)
	case key.Matches(msg, m.keys.SeekForward):
		m.seek(seekStep)
	case key.Matches(msg, m.keys.Lyrics):
		m.toggleLyrics()
	case key.Matches(msg, m.keys.Karaoke):
		m.toggleKaraokeTrack()
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.progress = newProgress(m.theme)
		m.progress.Width = max(m.width-16, 10)
		m.saveTheme()
	}
	return m, nil
}

func (m Model) seek(delta time.Duration) {
	item := m.snapshot.Player.CurrentItem
	if item == nil {
		return
	}
	m.dispatcher.Dispatch(m.acts.Scrub(max(item.State.Progress+delta, 0)))
}

func (m Model) toggleLyrics() {
	item := m.snapshot.Player.CurrentItem
	if item == nil {
		return
	}
	if item.Lyrics == nil {
		m.dispatcher.Dispatch(m.acts.PrepareLyrics())
		return
	}
	if item.Lyrics.Mode == state.LyricsKaraoke {
		m.dispatcher.Dispatch(m.acts.ChangeLyricsMode(state.LyricsPlain, ""))
		return
	}
	m.dispatcher.Dispatch(m.acts.ChangeLyricsMode(state.LyricsKaraoke, state.KaraokeVocal))
}

func (m Model) toggleKaraokeTrack() {
	item := m.snapshot.Player.CurrentItem
	if item == nil || item.Lyrics == nil || item.Lyrics.Mode != state.LyricsKaraoke {
		return
	}
	next := state.KaraokeBacking
	if item.Lyrics.KaraokeTrack == state.KaraokeBacking {
		next = state.KaraokeVocal
	}
	m.dispatcher.Dispatch(m.acts.ChangeLyricsMode(state.LyricsKaraoke, next))
}

func (m Model) saveTheme() {
	p := prefs.Load(m.prefsPath)
	p.Theme = m.theme.Name
	_ = prefs.Save(m.prefsPath, p)
}

// Run shows the now-playing screen until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	m := New(opts)
	defer m.unsubscribe()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
