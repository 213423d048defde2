package carousel

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/teranos/carousel/trip"
)

// TransitionRequest describes the transition a move started.
type TransitionRequest struct {
	Direction   int
	From        int     // index before the move
	To          int     // index after the move
	StartAngle  float64 // interpolated angle the transition starts from
	TargetAngle float64
	Interrupted bool // an in-flight transition was cancelled
}

// Snapshot is a plain copy of navigation state, safe to hand to other goroutines.
type Snapshot struct {
	Index  int     `json:"index"`
	Title  string  `json:"title"`
	Angle  float64 `json:"angle"`
	Target float64 `json:"target"`
	Active bool    `json:"active"`
	Count  int     `json:"count"`
}

// Navigator is the explicit carousel state: the current index, the ring
// geometry, the titles, and the animator driving the ring angle.
//
// The tracked index is the source of truth; FacingIndex is derived from the
// angle. Moves requested while a transition is in flight cancel it and
// restart from the current interpolated angle.
type Navigator struct {
	ring      *Ring
	titles    []string
	policy    AnglePolicy
	animator  *Animator
	index     int
	listeners []Listener
	logger    *slog.Logger
}

// Option configures a Navigator at construction.
type Option func(*Navigator)

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithListener registers a transition listener.
func WithListener(l Listener) Option {
	return func(n *Navigator) {
		n.AddListener(l)
	}
}

// New validates cfg and builds a Navigator at index 0, angle 0.
func New(cfg Config, opts ...Option) (*Navigator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ring, err := NewRing(cfg.SlotCount(), cfg.Sign())
	if err != nil {
		return nil, err
	}
	easing, err := EasingByName(cfg.Easing)
	if err != nil {
		return nil, err
	}
	policy := cfg.Policy
	if policy == "" {
		policy = Accumulate
	}

	n := &Navigator{
		ring:     ring,
		titles:   append([]string(nil), cfg.Titles...),
		policy:   policy,
		animator: NewAnimator(0, cfg.Duration, easing),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// AddListener registers l for transition notifications. Call it before the
// render loop starts.
func (n *Navigator) AddListener(l Listener) {
	if l != nil {
		n.listeners = append(n.listeners, l)
	}
}

// Ring returns the immutable slot geometry.
func (n *Navigator) Ring() *Ring { return n.ring }

// Policy returns the angle policy in effect.
func (n *Navigator) Policy() AnglePolicy { return n.policy }

// ValidateDirection reports whether direction is a single step.
func ValidateDirection(direction int) error {
	if direction != -1 && direction != 1 {
		return trip.NewStumble(trip.InvalidDirection,
			fmt.Sprintf("direction %d is not -1 or +1", direction),
			trip.Context{"direction": direction}).Wrap(ErrInvalidDirection)
	}
	return nil
}

// RequestMove moves the current index one slot in direction and starts the
// transition towards the new target angle. The index changes immediately;
// the angle follows on subsequent ticks. A rejected request changes nothing.
func (n *Navigator) RequestMove(direction int) (TransitionRequest, error) {
	if err := ValidateDirection(direction); err != nil {
		return TransitionRequest{}, err
	}

	from := n.index
	to := n.ring.Wrap(from + direction)

	var target float64
	switch n.policy {
	case Absolute:
		angle, err := n.ring.AngleOfSlot(to)
		if err != nil {
			return TransitionRequest{}, err
		}
		target = angle
	default:
		target = n.animator.Target() + float64(direction)*n.ring.Step()
	}

	start, interrupted := n.animator.Start(target, to)
	n.index = to

	n.logger.Debug("carousel move",
		"direction", direction,
		"from", from,
		"to", to,
		"start", start,
		"target", target,
		"interrupted", interrupted)

	for _, l := range n.listeners {
		l.OnTransitionStart()
	}

	return TransitionRequest{
		Direction:   direction,
		From:        from,
		To:          to,
		StartAngle:  start,
		TargetAngle: target,
		Interrupted: interrupted,
	}, nil
}

// Tick advances the animation by the real time elapsed since the previous
// frame. On the tick that completes a transition the end notification fires
// exactly once, with the angle landing exactly on the target.
func (n *Navigator) Tick(dt time.Duration) Frame {
	frame := n.animator.Tick(dt)
	if frame.Completed {
		n.logger.Debug("carousel transition completed", "index", frame.Index, "angle", frame.Angle)
		for _, l := range n.listeners {
			l.OnTransitionEnd(frame.Index)
		}
	}
	return frame
}

// CurrentIndex returns the tracked index.
func (n *Navigator) CurrentIndex() int { return n.index }

// FacingIndex returns the slot nearest the camera at the current angle.
func (n *Navigator) FacingIndex() int {
	return n.ring.IndexForAngle(n.animator.Angle())
}

// Angle returns the current interpolated ring angle.
func (n *Navigator) Angle() float64 { return n.animator.Angle() }

// Active reports whether a transition is in flight.
func (n *Navigator) Active() bool { return n.animator.Active() }

// Transition returns the in-flight transition, if any.
func (n *Navigator) Transition() (Transition, bool) { return n.animator.Current() }

// Count returns the number of slots.
func (n *Navigator) Count() int { return n.ring.Count() }

// Title returns the title of slot i.
func (n *Navigator) Title(i int) (string, error) {
	if err := n.ring.checkIndex(i); err != nil {
		return "", err
	}
	return n.titles[i], nil
}

// CurrentTitle returns the title of the tracked index.
func (n *Navigator) CurrentTitle() string {
	return n.titles[n.index]
}

// Snapshot copies the navigation state.
func (n *Navigator) Snapshot() Snapshot {
	return Snapshot{
		Index:  n.index,
		Title:  n.titles[n.index],
		Angle:  n.animator.Angle(),
		Target: n.animator.Target(),
		Active: n.animator.Active(),
		Count:  n.ring.Count(),
	}
}
