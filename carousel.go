// Package carousel provides the navigation core of a rotating art-gallery ring.
//
// A ring of N framed images turns around a vertical axis. Left/right intents
// move the current index by one slot and start an eased transition of the
// ring angle; the host's render loop advances the transition once per frame
// with the real elapsed time and applies the returned angle to its transform.
//
// Basic usage:
//
//	nav, err := carousel.New(carousel.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	nav.AddListener(titleLabel)
//
//	// input handler
//	nav.RequestMove(+1)
//
//	// render loop, once per frame
//	frame := nav.Tick(dt)
//	ring.SetRotationY(frame.Angle)
//
// Everything runs on the caller's goroutine. Hosts that receive input on other
// goroutines must funnel it into the goroutine that owns the Navigator.
package carousel

import "errors"

// Sentinels wrapped by the trips returned from this package.
var (
	ErrInvalidSlotIndex = errors.New("invalid slot index")
	ErrConfiguration    = errors.New("configuration error")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Listener receives transition notifications synchronously on the goroutine
// that owns the Navigator. A title display hides its label on start and shows
// the title of newIndex on end.
type Listener interface {
	OnTransitionStart()
	OnTransitionEnd(newIndex int)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Start func()
	End   func(newIndex int)
}

func (f ListenerFuncs) OnTransitionStart() {
	if f.Start != nil {
		f.Start()
	}
}

func (f ListenerFuncs) OnTransitionEnd(newIndex int) {
	if f.End != nil {
		f.End(newIndex)
	}
}
