package stage

import (
	"time"

	"github.com/teranos/carousel"
	"github.com/teranos/carousel/render"
)

// Operator extends StageDirector with tracking shots: every capture writes
// the rasterized 3D ring and the terminal view as PNG frames.
type Operator struct {
	*StageDirector
	stage  *render.Stage
	text   *render.TextStage
	frames []string

	outputDir      string
	supervisor     *render.Supervisor
	updateBaseline bool
}

// NewOperator creates a director that captures frames into outputDir.
func NewOperator(t Reporter, model Model, cfg carousel.Config, outputDir string) (*Operator, error) {
	ring, err := carousel.NewRing(cfg.SlotCount(), cfg.Sign())
	if err != nil {
		return nil, err
	}

	stageConfig := render.DefaultConfig()
	stageConfig.OutputDir = outputDir
	st, err := render.NewStage(stageConfig, cfg, ring)
	if err != nil {
		return nil, err
	}

	textConfig := render.DefaultTextConfig()
	textConfig.OutputDir = outputDir
	text, err := render.NewTextStage(textConfig)
	if err != nil {
		return nil, err
	}

	return &Operator{
		StageDirector: NewStageDirector(t, model),
		stage:         st,
		text:          text,
		outputDir:     outputDir,
	}, nil
}

// Start wraps the base Start method to return *Operator.
func (op *Operator) Start() *Operator {
	op.StageDirector.Start()
	return op
}

// Advance wraps the base method to return *Operator.
func (op *Operator) Advance(duration time.Duration) *Operator {
	op.StageDirector.Advance(duration)
	return op
}

// Settle wraps the base method to return *Operator.
func (op *Operator) Settle() *Operator {
	op.StageDirector.Settle()
	return op
}

// WithBaseline compares ring shots against PNG baselines in dir. With update
// set, AssertMatchesBaseline rewrites the baselines instead.
func (op *Operator) WithBaseline(dir string, tolerance float64, update bool) *Operator {
	op.supervisor = render.NewSupervisor(dir, op.outputDir).WithTolerance(tolerance)
	op.updateBaseline = update
	return op
}

func (op *Operator) ringView() render.View {
	return render.View{
		Angle:      op.model.Snapshot().Angle,
		Title:      op.model.CurrentTitle(),
		TitleAlpha: op.model.TitleAlpha(),
	}
}

// CaptureTrackingShot renders the current state as a pair of frames.
func (op *Operator) CaptureTrackingShot(label string) *Operator {
	ring, err := op.stage.CaptureFrame(label, op.ringView())
	if err != nil {
		op.recordTrip(newStageTrip(tripCapture, err.Error(), map[string]interface{}{"label": label}))
		return op
	}
	terminal, err := op.text.CaptureFrame(label, op.getCurrentView())
	if err != nil {
		op.recordTrip(newStageTrip(tripCapture, err.Error(), map[string]interface{}{"label": label}))
		return op
	}

	op.frames = append(op.frames, ring, terminal)
	op.recordStageAction("screenshot", label)
	return op
}

// AssertMatchesBaseline renders the ring and compares it with the baseline
// called name.
func (op *Operator) AssertMatchesBaseline(name string) *Operator {
	if op.supervisor == nil {
		op.recordTrip(newStageTrip(tripVisual, "no baseline directory configured",
			map[string]interface{}{"baseline": name}))
		return op
	}

	img := op.stage.Render(op.ringView())
	var err error
	if op.updateBaseline {
		err = op.supervisor.SetBaseline(name, img)
	} else if err = op.supervisor.SetCurrent(name, img); err == nil {
		err = op.supervisor.Validate(name)
	}
	if err != nil {
		op.recordTrip(newStageTrip(tripVisual, err.Error(),
			map[string]interface{}{"baseline": name}))
		return op
	}
	op.recordStageAction("baseline", name)
	return op
}

// PressLeftWithTrackingShot presses left and captures a frame.
func (op *Operator) PressLeftWithTrackingShot(label string) *Operator {
	op.PressLeft()
	return op.CaptureTrackingShot(label)
}

// PressRightWithTrackingShot presses right and captures a frame.
func (op *Operator) PressRightWithTrackingShot(label string) *Operator {
	op.PressRight()
	return op.CaptureTrackingShot(label)
}

// SettleWithTrackingShot waits for the ring to stop and captures a frame.
func (op *Operator) SettleWithTrackingShot(label string) *Operator {
	op.Settle()
	return op.CaptureTrackingShot(label)
}

// Frames lists the files written so far.
func (op *Operator) Frames() []string {
	return op.frames
}
