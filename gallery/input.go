package gallery

import tea "github.com/charmbracelet/bubbletea"

// Hit regions in the terminal layout.
const (
	RegionNone       = ""
	RegionLeftArrow  = "left-arrow"
	RegionRightArrow = "right-arrow"
)

// Layout places the ring band and its arrow gutters inside the terminal.
// View and HitTest share it so clicks land where the arrows are drawn.
type Layout struct {
	Width      int
	RingTop    int // first row of the ring band
	RingHeight int
	ArrowWidth int
}

// NewLayout computes the layout for a terminal width.
func NewLayout(width int) Layout {
	if width < minWidth {
		width = minWidth
	}
	return Layout{
		Width:      width,
		RingTop:    2,
		RingHeight: 5,
		ArrowWidth: 3,
	}
}

// BandWidth is the number of columns between the arrow gutters.
func (l Layout) BandWidth() int {
	return l.Width - 2*l.ArrowWidth
}

// HitTest maps a terminal cell to the arrow region under it.
func (l Layout) HitTest(x, y int) string {
	if y < l.RingTop || y >= l.RingTop+l.RingHeight {
		return RegionNone
	}
	switch {
	case x >= 0 && x < l.ArrowWidth:
		return RegionLeftArrow
	case x >= l.Width-l.ArrowWidth && x < l.Width:
		return RegionRightArrow
	default:
		return RegionNone
	}
}

// RegionDirection turns a hit region into a navigation intent.
func RegionDirection(region string) (int, bool) {
	switch region {
	case RegionLeftArrow:
		return -1, true
	case RegionRightArrow:
		return +1, true
	default:
		return 0, false
	}
}

// KeyDirection maps arrow keys and h/l to a navigation intent.
func KeyDirection(msg tea.KeyMsg) (int, bool) {
	switch msg.String() {
	case "left", "h":
		return -1, true
	case "right", "l":
		return +1, true
	default:
		return 0, false
	}
}

// MouseDirection maps a left click on an arrow to a navigation intent.
func (l Layout) MouseDirection(msg tea.MouseMsg) (int, bool) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return 0, false
	}
	return RegionDirection(l.HitTest(msg.X, msg.Y))
}
