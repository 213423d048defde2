package carousel

import "time"

// Transition is an in-flight interpolation of the ring angle.
type Transition struct {
	StartAngle  float64
	TargetAngle float64
	Elapsed     time.Duration
	Duration    time.Duration
	Index       int // slot that faces the camera when the transition completes
}

// Progress returns the clamped fraction of the duration already elapsed.
func (tr Transition) Progress() float64 {
	if tr.Duration <= 0 {
		return 1
	}
	return clamp01(float64(tr.Elapsed) / float64(tr.Duration))
}

// Frame is the result of one animator tick.
type Frame struct {
	Angle     float64 // angle to apply to the ring this frame
	Active    bool    // a transition is still in flight after this tick
	Completed bool    // the transition finished on this tick
	Index     int     // slot index the completed transition landed on
}

// Animator advances at most one transition per ring. It never blocks and
// never sleeps; the host decides when to call Tick.
type Animator struct {
	angle    float64
	duration time.Duration
	easing   Easing
	current  *Transition
}

// NewAnimator returns an idle animator resting at angle.
func NewAnimator(angle float64, duration time.Duration, easing Easing) *Animator {
	if easing == nil {
		easing = EaseInOutCirc
	}
	return &Animator{angle: angle, duration: duration, easing: easing}
}

// Start replaces any in-flight transition with one running from the current
// interpolated angle to target. It reports whether a transition was cut short.
func (a *Animator) Start(target float64, index int) (from float64, interrupted bool) {
	from = a.Angle()
	interrupted = a.current != nil
	a.current = &Transition{
		StartAngle:  from,
		TargetAngle: target,
		Duration:    a.duration,
		Index:       index,
	}
	return from, interrupted
}

// Tick advances the in-flight transition by dt. With nothing in flight it
// returns the steady angle unchanged. Negative dt counts as zero.
func (a *Animator) Tick(dt time.Duration) Frame {
	if a.current == nil {
		return Frame{Angle: a.angle}
	}
	if dt > 0 {
		a.current.Elapsed += dt
	}

	tr := a.current
	if tr.Progress() >= 1 {
		a.angle = tr.TargetAngle
		a.current = nil
		return Frame{Angle: a.angle, Completed: true, Index: tr.Index}
	}
	return Frame{Angle: a.Angle(), Active: true}
}

// Angle returns the current interpolated angle.
func (a *Animator) Angle() float64 {
	if a.current == nil {
		return a.angle
	}
	tr := a.current
	return lerp(tr.StartAngle, tr.TargetAngle, a.easing(tr.Progress()))
}

// Target returns where the ring is heading: the in-flight target, or the
// steady angle when idle.
func (a *Animator) Target() float64 {
	if a.current == nil {
		return a.angle
	}
	return a.current.TargetAngle
}

// Active reports whether a transition is in flight.
func (a *Animator) Active() bool {
	return a.current != nil
}

// Current returns a copy of the in-flight transition.
func (a *Animator) Current() (Transition, bool) {
	if a.current == nil {
		return Transition{}, false
	}
	return *a.current, true
}
