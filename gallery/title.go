package gallery

import (
	"time"

	"github.com/charmbracelet/harmonica"
)

// TitleDisplay is the on-screen title label. It hides when a transition
// starts and fades the new title in with a critically damped spring when
// the transition ends.
type TitleDisplay struct {
	titles   []string
	text     string
	visible  bool
	alpha    float64
	velocity float64
}

// NewTitleDisplay shows titles[initial] at full opacity.
func NewTitleDisplay(titles []string, initial int) *TitleDisplay {
	return &TitleDisplay{
		titles:  titles,
		text:    titles[initial],
		visible: true,
		alpha:   1,
	}
}

// OnTransitionStart hides the label immediately.
func (d *TitleDisplay) OnTransitionStart() {
	d.visible = false
	d.alpha = 0
	d.velocity = 0
}

// OnTransitionEnd sets the text for newIndex and starts the fade-in.
func (d *TitleDisplay) OnTransitionEnd(newIndex int) {
	d.text = d.titles[newIndex]
	d.visible = true
}

// Advance moves the fade by dt of real time.
func (d *TitleDisplay) Advance(dt time.Duration) {
	if !d.visible || dt <= 0 {
		return
	}
	spring := harmonica.NewSpring(dt.Seconds(), 8.0, 1.0)
	d.alpha, d.velocity = spring.Update(d.alpha, d.velocity, 1)
	if d.alpha > 0.995 {
		d.alpha, d.velocity = 1, 0
	}
}

// Text returns the current label text, even while hidden.
func (d *TitleDisplay) Text() string { return d.text }

// Visible reports whether the label is shown or fading in.
func (d *TitleDisplay) Visible() bool { return d.visible }

// Alpha returns the label opacity in [0,1].
func (d *TitleDisplay) Alpha() float64 {
	if !d.visible {
		return 0
	}
	if d.alpha < 0 {
		return 0
	}
	if d.alpha > 1 {
		return 1
	}
	return d.alpha
}
