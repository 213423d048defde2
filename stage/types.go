// Package stage provides automated stage testing for the gallery.
//
// The stage director drives a gallery model headlessly on a virtual clock:
// every interaction is delivered synchronously through Update and time only
// passes when the director advances frames, so transitions, interruptions
// and title fades replay identically on every run.
//
// Basic usage:
//
//	result := stage.NewStageDirector(t, model).
//		Start().
//		PressRight().
//		Settle().
//		AssertIndex(1).
//		AssertTitle("Water Lilies").
//		Stop()
//
//	assert.True(t, result.Success)
//
// For visual staging with captured frames:
//
//	stage.NewOperator(t, model, cfg, "frames/").
//		Start().
//		CaptureTrackingShot("initial").
//		PressRightWithTrackingShot("turning").
//		Stop()
package stage

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/gallery"
	"github.com/teranos/carousel/trip"
)

// Trip types raised by the director.
const (
	tripAssertion    = "assertion"
	tripTimeout      = "timeout"
	tripModelPanic   = "model_panic"
	tripInvalidModel = "invalid_model_state"
	tripCapture      = "capture"
	tripVisual       = "visual_regression"
)

// Model is what the director can stage: a bubbletea model that exposes its
// navigation state.
type Model interface {
	tea.Model
	// CurrentIndex returns the tracked carousel index
	CurrentIndex() int
	// CurrentTitle returns the text on the title label
	CurrentTitle() string
	// Snapshot copies the navigation state
	Snapshot() carousel.Snapshot
	// TitleAlpha returns the title label opacity
	TitleAlpha() float64
	// CheckCondition allows custom wait conditions and assertions
	CheckCondition(condition string) bool
}

// Reporter is the part of testing.TB the director reports trips through.
// A nil Reporter keeps trips in the result only, for staging outside tests.
type Reporter interface {
	Helper()
	Error(args ...any)
	Log(args ...any)
}

// StageDirector orchestrates automated staging of the gallery.
//
// Errors are collected as trips and returned in the final StageResult rather
// than failing the test immediately; falls are also reported through t.
type StageDirector struct {
	t     Reporter
	model Model
	now   time.Time

	interactions []StageAction
	snapshots    []StageSnapshot

	tripHandler *trip.Handler
	lastTrip    *trip.Trip
	failed      bool

	config  StageConfig
	started bool
	began   time.Time
}

// StageAction records a single interaction during staging.
type StageAction struct {
	Timestamp time.Time // virtual clock
	Type      string    // "keypress", "click", "move", "advance", "assertion", "screenshot"
	Details   interface{}
}

// StageSnapshot captures the state of the gallery at a moment of the
// virtual clock.
type StageSnapshot struct {
	Timestamp time.Time
	Reason    string
	View      string
	State     carousel.Snapshot
}

// StageResult contains the complete results of a stage session.
type StageResult struct {
	Actions      []StageAction
	Snapshots    []StageSnapshot
	Success      bool
	Duration     time.Duration // virtual time staged
	ErrorMessage string
	Error        error
	TripReport   string
}

// StageConfig configures the behavior of the StageDirector.
type StageConfig struct {
	// FrameInterval is the virtual time between frames
	FrameInterval time.Duration
	// Timeout bounds waits, in virtual time
	Timeout time.Duration
	// CaptureViews enables view snapshots after every interaction
	CaptureViews bool
	// Width and Height are sent as the initial window size
	Width, Height int
	// Frame builds the frame message for a virtual timestamp
	Frame func(time.Time) tea.Msg
	// Epoch is the virtual clock's starting point
	Epoch time.Time
}

// DefaultStageConfig stages at 60 frames per second with a five second
// virtual timeout on an 80x24 terminal.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		FrameInterval: time.Second / 60,
		Timeout:       5 * time.Second,
		CaptureViews:  true,
		Width:         80,
		Height:        24,
		Frame: func(t time.Time) tea.Msg {
			return gallery.FrameMsg{Time: t}
		},
		Epoch: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// NewStageDirector creates a StageDirector with default configuration.
// Call Start before interacting and Stop to collect results.
func NewStageDirector(t Reporter, model Model) *StageDirector {
	return NewStageDirectorWithConfig(t, model, DefaultStageConfig())
}

// NewStageDirectorWithConfig creates a StageDirector with custom configuration.
func NewStageDirectorWithConfig(t Reporter, model Model, config StageConfig) *StageDirector {
	defaults := DefaultStageConfig()
	if config.FrameInterval <= 0 {
		config.FrameInterval = defaults.FrameInterval
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Frame == nil {
		config.Frame = defaults.Frame
	}
	if config.Epoch.IsZero() {
		config.Epoch = defaults.Epoch
	}

	return &StageDirector{
		t:            t,
		model:        model,
		now:          config.Epoch,
		interactions: make([]StageAction, 0),
		snapshots:    make([]StageSnapshot, 0),
		tripHandler:  trip.NewHandler("stage_director", trip.DefaultPolicy()),
		config:       config,
	}
}

func newStageTrip(errorType, message string, context map[string]interface{}) *trip.Trip {
	tripContext := make(trip.Context)
	for k, v := range context {
		tripContext[k] = v
	}
	return trip.NewTrip(errorType, message, tripContext)
}
