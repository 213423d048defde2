// Package host runs the carousel behind a pixel display: it owns the render
// loop state, drains remote moves on the loop goroutine and produces frames.
package host

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/teranos/carousel"
	"github.com/teranos/carousel/gallery"
	"github.com/teranos/carousel/internal/metrics"
	"github.com/teranos/carousel/render"
	"github.com/teranos/carousel/trip"
)

// QueueSize bounds the remote moves waiting for the next frame.
const QueueSize = 16

// ErrQueueFull is returned by Move when the render loop is not keeping up.
var ErrQueueFull = errors.New("move queue full")

// Host is the loop-side state of a windowed carousel. Step, Request, Click,
// Resize and Frame belong to the loop goroutine; Move and State may be
// called from anywhere.
type Host struct {
	nav      *carousel.Navigator
	stage    *render.Stage
	title    *gallery.TitleDisplay
	board    *gallery.StateBoard
	trips    *trip.Handler
	recorder *metrics.Recorder
	logger   *slog.Logger

	moves         chan int
	lastFrame     time.Time
	frameInterval time.Duration
	moved         bool // a transition started since lastFrame
}

// Option configures a Host.
type Option func(*Host)

// WithRecorder counts navigation in Prometheus collectors.
func WithRecorder(r *metrics.Recorder) Option {
	return func(h *Host) { h.recorder = r }
}

// WithFrameInterval sets the nominal time between Steps. A move requested
// between Steps advances by at most this much on the next one.
func WithFrameInterval(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.frameInterval = d
		}
	}
}

// WithLogger sets the host logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New builds a host that renders nav with stage.
func New(nav *carousel.Navigator, stage *render.Stage, opts ...Option) *Host {
	titles := make([]string, nav.Count())
	for i := range titles {
		titles[i], _ = nav.Title(i)
	}

	h := &Host{
		nav:    nav,
		stage:  stage,
		title:  gallery.NewTitleDisplay(titles, nav.CurrentIndex()),
		board:  &gallery.StateBoard{},
		trips:  trip.NewHandler("window", trip.DefaultPolicy()),
		logger: slog.New(slog.DiscardHandler),
		moves:  make(chan int, QueueSize),

		frameInterval: time.Second / 60,
	}
	for _, opt := range opts {
		opt(h)
	}
	nav.AddListener(h.title)
	h.board.Publish(nav.Snapshot())
	return h
}

// Move queues a remote move for the next Step.
func (h *Host) Move(direction int) error {
	if err := carousel.ValidateDirection(direction); err != nil {
		return err
	}
	select {
	case h.moves <- direction:
		return nil
	default:
		return fmt.Errorf("%w: %d pending", ErrQueueFull, QueueSize)
	}
}

// State returns the snapshot published by the last Step.
func (h *Host) State() carousel.Snapshot {
	return h.board.Snapshot()
}

// Request moves immediately; the loop calls it for keyboard input.
func (h *Host) Request(direction int) {
	req, err := h.nav.RequestMove(direction)
	if err != nil {
		var t *trip.Trip
		if !errors.As(err, &t) {
			t = trip.NewStumble(trip.InvalidDirection, err.Error(), nil).Wrap(err)
		}
		h.trips.Record(t)
		if h.recorder != nil {
			h.recorder.ObserveRejected(err)
		}
		h.logger.Warn("navigation request rejected", "type", t.Type, "error", err)
		return
	}
	h.moved = true
	if h.recorder != nil {
		h.recorder.ObserveMove(req)
	}
	h.board.Publish(h.nav.Snapshot())
}

// Click turns a left click at pixel (x, y) into a move when it lands on
// an arrow. It reports whether it did.
func (h *Host) Click(x, y int) bool {
	switch h.stage.HitTest(x, y) {
	case render.RegionLeftArrow:
		h.Request(-1)
	case render.RegionRightArrow:
		h.Request(+1)
	default:
		return false
	}
	return true
}

// Step drains queued moves and advances the animation to now.
func (h *Host) Step(now time.Time) {
	for drained := false; !drained; {
		select {
		case d := <-h.moves:
			h.Request(d)
		default:
			drained = true
		}
	}

	var dt time.Duration
	if !h.lastFrame.IsZero() {
		dt = now.Sub(h.lastFrame)
	}
	h.lastFrame = now

	navDt := dt
	if h.moved {
		navDt = min(navDt, h.frameInterval)
		h.moved = false
	}

	frame := h.nav.Tick(navDt)
	if frame.Completed && h.recorder != nil {
		h.recorder.ObserveCompleted()
	}
	h.title.Advance(dt)
	h.board.Publish(h.nav.Snapshot())
}

// Resize follows the window size.
func (h *Host) Resize(width, height int) {
	h.stage.Resize(width, height)
}

// Bounds returns the frame size.
func (h *Host) Bounds() image.Rectangle {
	return h.stage.Bounds()
}

// Frame renders the current state.
func (h *Host) Frame() *image.RGBA {
	return h.stage.Render(h.view())
}

// Capture writes the current state as a PNG frame and returns its path.
func (h *Host) Capture(label string) (string, error) {
	return h.stage.CaptureFrame(label, h.view())
}

func (h *Host) view() render.View {
	return render.View{
		Angle:      h.nav.Angle(),
		Title:      h.title.Text(),
		TitleAlpha: h.title.Alpha(),
	}
}

// Trips returns the handler collecting rejected requests.
func (h *Host) Trips() *trip.Handler { return h.trips }

// Navigator returns the navigation state the host drives.
func (h *Host) Navigator() *carousel.Navigator { return h.nav }
