package stage

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/carousel/gallery"
	"github.com/teranos/carousel/trip"
)

// PressLeft simulates the left arrow key.
func (d *StageDirector) PressLeft() *StageDirector {
	d.sendMessage(tea.KeyMsg{Type: tea.KeyLeft})
	d.recordStageAction("keypress", "left")
	return d
}

// PressRight simulates the right arrow key.
func (d *StageDirector) PressRight() *StageDirector {
	d.sendMessage(tea.KeyMsg{Type: tea.KeyRight})
	d.recordStageAction("keypress", "right")
	return d
}

// Type simulates typing text one rune at a time, for bindings such as h,
// l and ?.
func (d *StageDirector) Type(text string) *StageDirector {
	for _, char := range text {
		d.sendMessage(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{char}})
		d.recordStageAction("type", string(char))
	}
	return d
}

// PressEscape simulates the Escape key.
func (d *StageDirector) PressEscape() *StageDirector {
	d.sendMessage(tea.KeyMsg{Type: tea.KeyEsc})
	d.recordStageAction("keypress", "escape")
	return d
}

// Click simulates a left mouse click at a terminal cell.
func (d *StageDirector) Click(x, y int) *StageDirector {
	d.sendMessage(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	d.recordStageAction("click", fmt.Sprintf("%d,%d", x, y))
	return d
}

// Move delivers a remote navigation request.
func (d *StageDirector) Move(direction int) *StageDirector {
	d.sendMessage(gallery.MoveMsg{Direction: direction})
	d.recordStageAction("move", direction)
	return d
}

// Resize simulates a terminal resize.
func (d *StageDirector) Resize(width, height int) *StageDirector {
	d.sendMessage(tea.WindowSizeMsg{Width: width, Height: height})
	d.recordStageAction("resize", fmt.Sprintf("%dx%d", width, height))
	return d
}

// AssertIndex verifies the tracked index.
func (d *StageDirector) AssertIndex(expected int) *StageDirector {
	actual := d.model.CurrentIndex()
	if actual != expected {
		d.recordTrip(newStageTrip(tripAssertion,
			fmt.Sprintf("Expected index %d, got %d", expected, actual),
			map[string]interface{}{"expected": expected, "actual": actual}))
		return d
	}
	d.recordStageAction("assertion", fmt.Sprintf("index=%d", expected))
	return d
}

// AssertTitle verifies the text on the title label.
func (d *StageDirector) AssertTitle(expected string) *StageDirector {
	actual := d.model.CurrentTitle()
	if actual != expected {
		d.recordTrip(newStageTrip(tripAssertion,
			"Expected title '"+expected+"', got '"+actual+"'",
			map[string]interface{}{"expected": expected, "actual": actual}))
		return d
	}
	d.recordStageAction("assertion", "title="+expected)
	return d
}

// AssertCondition verifies a named model condition.
func (d *StageDirector) AssertCondition(condition string) *StageDirector {
	if !d.model.CheckCondition(condition) {
		d.recordTrip(newStageTrip(tripAssertion, "Condition not met: "+condition,
			map[string]interface{}{"condition": condition, "state": d.model.Snapshot()}))
		return d
	}
	d.recordStageAction("assertion", "condition="+condition)
	return d
}

// AssertViewContains verifies that the current view contains text.
func (d *StageDirector) AssertViewContains(text string) *StageDirector {
	view := d.getCurrentView()
	if !strings.Contains(view, text) {
		d.recordTrip(newStageTrip(tripAssertion, "View does not contain expected text: "+text,
			map[string]interface{}{"expected": text, "actual_view": view}))
		return d
	}
	d.recordStageAction("assertion", "contains="+text)
	return d
}

// AssertAngle verifies the ring angle within tolerance.
func (d *StageDirector) AssertAngle(expected, tolerance float64) *StageDirector {
	actual := d.model.Snapshot().Angle
	if diff := actual - expected; diff > tolerance || diff < -tolerance {
		d.recordTrip(newStageTrip(tripAssertion,
			fmt.Sprintf("Expected angle %.6f, got %.6f", expected, actual),
			map[string]interface{}{"expected": expected, "actual": actual}))
		return d
	}
	d.recordStageAction("assertion", fmt.Sprintf("angle=%.6f", expected))
	return d
}

func (d *StageDirector) sendMessage(msg tea.Msg) {
	if !d.started || d.failed {
		return
	}
	d.update(msg)
	d.captureSnapshot("interaction")
}

func (d *StageDirector) recordStageAction(actionType string, details interface{}) {
	d.interactions = append(d.interactions, StageAction{
		Timestamp: d.now,
		Type:      actionType,
		Details:   details,
	})
}

func (d *StageDirector) captureSnapshot(reason string) {
	if !d.config.CaptureViews {
		return
	}
	d.snapshots = append(d.snapshots, StageSnapshot{
		Timestamp: d.now,
		Reason:    reason,
		View:      d.getCurrentView(),
		State:     d.model.Snapshot(),
	})
}

// recordTrip records a trip and marks the stage failed unless it can recover.
func (d *StageDirector) recordTrip(t *trip.Trip) {
	d.tripHandler.Record(t)
	d.lastTrip = t

	if !t.CanRecover() {
		d.failed = true
	}

	if d.t != nil {
		d.t.Helper()
		if t.IsFall() {
			d.t.Error(t)
		} else {
			d.t.Log(t.DetailedString())
		}
	}
}

// HasFailed reports whether the stage hit a non-recoverable trip.
func (d *StageDirector) HasFailed() bool {
	return d.failed || !d.tripHandler.ShouldContinue()
}

// GetError returns the last trip, if any.
func (d *StageDirector) GetError() error {
	if d.lastTrip != nil {
		return d.lastTrip
	}
	return nil
}

// GetTripHandler returns the trip handler for detailed error analysis.
func (d *StageDirector) GetTripHandler() *trip.Handler {
	return d.tripHandler
}

// GetLatestSnapshot returns the most recent snapshot.
func (d *StageDirector) GetLatestSnapshot() StageSnapshot {
	if len(d.snapshots) == 0 {
		return StageSnapshot{}
	}
	return d.snapshots[len(d.snapshots)-1]
}

// GetStageActionCount returns how many actions were recorded.
func (d *StageDirector) GetStageActionCount() int {
	return len(d.interactions)
}
