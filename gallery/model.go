// Package gallery is the terminal front end of the carousel: a bubbletea
// model that maps keys and clicks to navigation intents, ticks the ring
// animation from frame timestamps and draws the ring with lipgloss.
package gallery

import (
	"errors"
	"image/color"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/internal/metrics"
	"github.com/teranos/carousel/render"
	"github.com/teranos/carousel/trip"
)

// DefaultFrameRate is the render loop rate when none is configured.
const DefaultFrameRate = 60

// FrameMsg is one tick of the render loop. The model measures elapsed time
// from consecutive frame timestamps, so any clock can drive it.
type FrameMsg struct {
	Time time.Time
}

// MoveMsg asks the model to move one slot. Remote controls send it through
// tea.Program.Send so that all navigation happens on the render goroutine.
type MoveMsg struct {
	Direction int
}

type autoplayMsg struct{}

// Model is the bubbletea model for the gallery.
type Model struct {
	nav      *carousel.Navigator
	title    *TitleDisplay
	scene    carousel.SceneConfig
	palette  []color.RGBA
	trips    *trip.Handler
	recorder *metrics.Recorder
	board    *StateBoard
	logger   *slog.Logger

	layout    Layout
	height    int
	frameRate int
	autoplay  time.Duration
	lastFrame time.Time
	moved     bool // a transition started since lastFrame

	help     string
	showHelp bool
	quitting bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRecorder counts navigation in Prometheus collectors.
func WithRecorder(r *metrics.Recorder) ModelOption {
	return func(m *Model) { m.recorder = r }
}

// WithBoard publishes snapshots after every update.
func WithBoard(b *StateBoard) ModelOption {
	return func(m *Model) { m.board = b }
}

// WithLogger sets the model logger.
func WithLogger(logger *slog.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithFrameRate sets the render loop rate in frames per second.
func WithFrameRate(fps int) ModelOption {
	return func(m *Model) {
		if fps > 0 {
			m.frameRate = fps
		}
	}
}

// WithTripPolicy replaces the default trip policy.
func WithTripPolicy(policy *trip.Policy) ModelOption {
	return func(m *Model) { m.trips = trip.NewHandler("gallery", policy) }
}

// NewModel builds the gallery around nav. cfg supplies the scene, the
// autoplay interval and the slot colors.
func NewModel(nav *carousel.Navigator, cfg carousel.Config, opts ...ModelOption) (*Model, error) {
	palette, err := render.Palette(cfg.Colors, nav.Count())
	if err != nil {
		return nil, trip.NewFall(trip.Configuration, err.Error(), nil).Wrap(carousel.ErrConfiguration)
	}

	titles := make([]string, nav.Count())
	for i := range titles {
		titles[i], _ = nav.Title(i)
	}

	m := &Model{
		nav:       nav,
		title:     NewTitleDisplay(titles, nav.CurrentIndex()),
		scene:     cfg.Scene,
		palette:   palette,
		trips:     trip.NewHandler("gallery", trip.DefaultPolicy()),
		logger:    slog.New(slog.DiscardHandler),
		layout:    NewLayout(80),
		height:    24,
		frameRate: DefaultFrameRate,
		autoplay:  cfg.Autoplay,
	}
	for _, opt := range opts {
		opt(m)
	}
	nav.AddListener(m.title)
	m.help = renderHelp(m.layout.Width - 4)
	m.publish()
	return m, nil
}

// Init starts the frame loop and, when configured, autoplay.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.frameCmd()}
	if m.autoplay > 0 {
		cmds = append(cmds, m.autoplayCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) frameCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}

func (m *Model) autoplayCmd() tea.Cmd {
	return tea.Tick(m.autoplay, func(time.Time) tea.Msg { return autoplayMsg{} })
}

// Update handles input, frames and remote requests.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width)
		m.height = msg.Height
		m.help = renderHelp(m.layout.Width - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
		if d, ok := KeyDirection(msg); ok {
			return m, m.move(d)
		}
		return m, nil

	case tea.MouseMsg:
		if d, ok := m.layout.MouseDirection(msg); ok {
			return m, m.move(d)
		}
		return m, nil

	case MoveMsg:
		return m, m.move(msg.Direction)

	case autoplayMsg:
		return m, tea.Batch(m.move(+1), m.autoplayCmd())

	case FrameMsg:
		m.advance(msg.Time)
		return m, m.frameCmd()
	}
	return m, nil
}

// advance ticks the ring and the title fade by the time since the last frame.
func (m *Model) advance(now time.Time) {
	var dt time.Duration
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame)
	}
	m.lastFrame = now

	// A move that arrived between frames is credited one frame at most, not
	// the time that passed before it was requested.
	navDt := dt
	if m.moved {
		navDt = min(navDt, time.Second/time.Duration(m.frameRate))
		m.moved = false
	}

	frame := m.nav.Tick(navDt)
	if frame.Completed && m.recorder != nil {
		m.recorder.ObserveCompleted()
	}
	m.title.Advance(dt)
	m.publish()
}

func (m *Model) move(direction int) tea.Cmd {
	req, err := m.nav.RequestMove(direction)
	if err != nil {
		m.reject(err)
		if !m.trips.ShouldContinue() {
			m.quitting = true
			return tea.Quit
		}
		return nil
	}
	m.moved = true
	if m.recorder != nil {
		m.recorder.ObserveMove(req)
	}
	m.publish()
	return nil
}

func (m *Model) reject(err error) {
	var t *trip.Trip
	if !errors.As(err, &t) {
		t = trip.NewStumble(trip.InvalidDirection, err.Error(), nil).Wrap(err)
	}
	m.trips.Record(t)
	if m.recorder != nil {
		m.recorder.ObserveRejected(err)
	}
	m.logger.Warn("navigation request rejected", "type", t.Type, "error", err)
}

func (m *Model) publish() {
	if m.board != nil {
		m.board.Publish(m.nav.Snapshot())
	}
}

// Navigator returns the navigation state the model drives.
func (m *Model) Navigator() *carousel.Navigator { return m.nav }

// Title returns the title display.
func (m *Model) Title() *TitleDisplay { return m.title }

// Trips returns the handler collecting rejected requests.
func (m *Model) Trips() *trip.Handler { return m.trips }

// Layout returns the current terminal layout.
func (m *Model) Layout() Layout { return m.layout }

// CurrentIndex returns the tracked index.
func (m *Model) CurrentIndex() int { return m.nav.CurrentIndex() }

// CurrentTitle returns the text on the title label. It changes when a
// transition ends, not when it starts.
func (m *Model) CurrentTitle() string { return m.title.Text() }

// Snapshot copies the navigation state.
func (m *Model) Snapshot() carousel.Snapshot { return m.nav.Snapshot() }

// TitleAlpha returns the title label opacity.
func (m *Model) TitleAlpha() float64 { return m.title.Alpha() }

// CheckCondition evaluates a named condition against the model state.
func (m *Model) CheckCondition(condition string) bool {
	switch condition {
	case "idle":
		return !m.nav.Active()
	case "moving":
		return m.nav.Active()
	case "title-visible":
		return m.title.Visible() && m.title.Alpha() >= 0.99
	case "title-hidden":
		return !m.title.Visible()
	case "help":
		return m.showHelp
	case "quitting":
		return m.quitting
	default:
		return false
	}
}
