package stage

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/carousel/trip"
)

// Start sends the initial window size and the first frame.
func (d *StageDirector) Start() *StageDirector {
	if d.started {
		return d
	}
	d.started = true
	d.began = d.now

	if d.config.Width > 0 && d.config.Height > 0 {
		d.sendMessage(tea.WindowSizeMsg{Width: d.config.Width, Height: d.config.Height})
	}
	d.frame()
	d.recordStageAction("start", fmt.Sprintf("%dx%d", d.config.Width, d.config.Height))
	d.captureSnapshot("start")
	return d
}

// Stop ends the session and returns the collected results.
func (d *StageDirector) Stop() *StageResult {
	if d.config.CaptureViews && d.started {
		d.captureSnapshot("final")
	}

	result := &StageResult{
		Actions:   d.interactions,
		Snapshots: d.snapshots,
		Success:   !d.failed && d.lastTrip == nil,
		Duration:  d.now.Sub(d.began),
	}
	if d.lastTrip != nil {
		result.ErrorMessage = d.lastTrip.Message
		result.Error = d.lastTrip
		result.TripReport = d.tripHandler.DetailedReport()
	}
	return result
}

// Advance lets duration of virtual time pass, one frame at a time.
func (d *StageDirector) Advance(duration time.Duration) *StageDirector {
	if d.failed {
		return d
	}
	frames := int((duration + d.config.FrameInterval - 1) / d.config.FrameInterval)
	for i := 0; i < frames && !d.failed; i++ {
		d.now = d.now.Add(d.config.FrameInterval)
		d.frame()
	}
	d.recordStageAction("advance", duration)
	d.captureSnapshot("advance")
	return d
}

// WaitFor advances frames until condition holds or the virtual timeout
// passes.
func (d *StageDirector) WaitFor(condition string) *StageDirector {
	if d.failed {
		return d
	}
	deadline := d.now.Add(d.config.Timeout)
	for !d.model.CheckCondition(condition) {
		if !d.now.Before(deadline) {
			d.recordTrip(newStageTrip(tripTimeout,
				fmt.Sprintf("condition %q not reached within %v", condition, d.config.Timeout),
				map[string]interface{}{"condition": condition, "state": d.model.Snapshot()}))
			return d
		}
		d.now = d.now.Add(d.config.FrameInterval)
		d.frame()
		if d.failed {
			return d
		}
	}
	d.recordStageAction("wait", condition)
	d.captureSnapshot("wait:" + condition)
	return d
}

// Settle waits until no transition is in flight.
func (d *StageDirector) Settle() *StageDirector {
	return d.WaitFor("idle")
}

// Now returns the virtual clock.
func (d *StageDirector) Now() time.Time { return d.now }

// Model returns the staged model.
func (d *StageDirector) Model() Model { return d.model }

func (d *StageDirector) frame() {
	d.update(d.config.Frame(d.now))
}

// update delivers msg synchronously. Commands are dropped: frames come from
// the virtual clock, and a quit shows up through CheckCondition.
func (d *StageDirector) update(msg tea.Msg) {
	defer func() {
		if r := recover(); r != nil {
			d.handleModelPanic(r, msg)
		}
	}()

	next, _ := d.model.Update(msg)
	if next == nil {
		d.handleInvalidModelState("Update returned nil model", msg)
		return
	}
	model, ok := next.(Model)
	if !ok {
		d.handleInvalidModelState(fmt.Sprintf("Update returned %T", next), msg)
		return
	}
	d.model = model
}

func (d *StageDirector) handleModelPanic(panicValue interface{}, msg tea.Msg) {
	d.recordTrip(newStageTrip(tripModelPanic, fmt.Sprintf("model panic during Update: %v", panicValue),
		map[string]interface{}{
			"panic_value": panicValue,
			"tea_msg":     fmt.Sprintf("%T: %+v", msg, msg),
			"model_type":  fmt.Sprintf("%T", d.model),
		}).WithSeverity(trip.Fall))
}

func (d *StageDirector) handleInvalidModelState(reason string, msg tea.Msg) {
	d.recordTrip(newStageTrip(tripInvalidModel, reason,
		map[string]interface{}{
			"tea_msg":    fmt.Sprintf("%T: %+v", msg, msg),
			"model_type": fmt.Sprintf("%T", d.model),
		}).WithSeverity(trip.Fall))
}

// getCurrentView renders the view, surviving a panicking View.
func (d *StageDirector) getCurrentView() (view string) {
	defer func() {
		if r := recover(); r != nil {
			view = fmt.Sprintf("ERROR: could not get view due to panic: %v", r)
		}
	}()
	return d.model.View()
}
