package stage

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/gallery"
)

func newGallery(t *testing.T) (*gallery.Model, carousel.Config) {
	t.Helper()
	cfg := carousel.DefaultConfig()
	nav, err := carousel.New(cfg)
	require.NoError(t, err)
	m, err := gallery.NewModel(nav, cfg)
	require.NoError(t, err)
	return m, cfg
}

func TestStageDirector_SingleMove(t *testing.T) {
	m, _ := newGallery(t)
	step := 2 * math.Pi / 6

	result := NewStageDirector(t, m).
		Start().
		PressRight().
		AssertIndex(1).
		AssertCondition("moving").
		AssertCondition("title-hidden").
		AssertTitle("The Starry Night").
		Settle().
		AssertTitle("Water Lilies").
		AssertAngle(step, 1e-9).
		WaitFor("title-visible").
		AssertViewContains("Water Lilies").
		AssertViewContains("2/6").
		Stop()

	assert.True(t, result.Success, result.TripReport)
	assert.GreaterOrEqual(t, result.Duration, 500*time.Millisecond)
	assert.NotEmpty(t, result.Snapshots)
}

func TestStageDirector_WrapAround(t *testing.T) {
	m, _ := newGallery(t)

	result := NewStageDirector(t, m).
		Start().
		PressLeft().
		Settle().
		AssertIndex(5).
		AssertTitle("Impression, Sunrise").
		Type("l").
		Settle().
		AssertIndex(0).
		AssertAngle(0, 1e-9).
		Stop()

	assert.True(t, result.Success, result.TripReport)
}

func TestStageDirector_InterruptedMoveLandsOnLatestTarget(t *testing.T) {
	m, _ := newGallery(t)
	step := 2 * math.Pi / 6

	ends := 0
	m.Navigator().AddListener(carousel.ListenerFuncs{End: func(int) { ends++ }})

	d := NewStageDirector(t, m).
		Start().
		PressRight().
		Advance(200 * time.Millisecond)

	mid := d.Model().Snapshot().Angle
	assert.Greater(t, mid, 0.0)
	assert.Less(t, mid, step)

	result := d.PressRight().
		AssertIndex(2).
		Settle().
		AssertAngle(2*step, 1e-9).
		AssertTitle("The Great Wave off Kanagawa").
		Stop()

	assert.True(t, result.Success, result.TripReport)
	assert.Equal(t, 1, ends, "the cancelled transition never ends")
}

func TestStageDirector_FullLap(t *testing.T) {
	m, _ := newGallery(t)
	d := NewStageDirector(t, m).Start()

	for i := 0; i < 6; i++ {
		d.PressRight().Advance(50 * time.Millisecond)
	}
	result := d.Settle().
		AssertIndex(0).
		AssertAngle(2*math.Pi, 1e-9).
		AssertTitle("The Starry Night").
		Stop()

	assert.True(t, result.Success, result.TripReport)
}

func TestStageDirector_ClickArrows(t *testing.T) {
	m, _ := newGallery(t)
	layout := gallery.NewLayout(80)
	y := layout.RingTop + layout.RingHeight/2

	result := NewStageDirector(t, m).
		Start().
		Click(layout.Width-1, y).
		Settle().
		AssertIndex(1).
		Click(0, y).
		Settle().
		AssertIndex(0).
		Click(layout.Width/2, y).
		AssertCondition("idle").
		Stop()

	assert.True(t, result.Success, result.TripReport)
}

func TestStageDirector_InvalidRemoteMoveIsIgnored(t *testing.T) {
	m, _ := newGallery(t)

	result := NewStageDirector(t, m).
		Start().
		Move(3).
		AssertIndex(0).
		AssertCondition("idle").
		AssertViewContains("stumbles").
		Stop()

	assert.True(t, result.Success, result.TripReport)
	assert.True(t, m.Trips().HasStumbles())
}

func TestStageDirector_FailedAssertionIsReported(t *testing.T) {
	m, _ := newGallery(t)

	result := NewStageDirector(nil, m).
		Start().
		AssertIndex(4).
		Stop()

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "Expected index 4, got 0")
	assert.Contains(t, result.TripReport, "stage_director")
}

func TestStageDirector_WaitTimeout(t *testing.T) {
	m, _ := newGallery(t)
	config := DefaultStageConfig()
	config.Timeout = 100 * time.Millisecond

	d := NewStageDirectorWithConfig(nil, m, config).Start().WaitFor("help")
	result := d.Stop()

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, `condition "help" not reached`)
	assert.True(t, d.HasFailed())
}

func TestStageDirector_Quit(t *testing.T) {
	m, _ := newGallery(t)

	result := NewStageDirector(t, m).
		Start().
		Type("?").
		AssertCondition("help").
		PressEscape().
		AssertCondition("quitting").
		Stop()

	assert.True(t, result.Success, result.TripReport)
}

type panickyModel struct {
	*gallery.Model
}

func (p panickyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		panic("boom")
	}
	next, cmd := p.Model.Update(msg)
	return panickyModel{next.(*gallery.Model)}, cmd
}

func TestStageDirector_ModelPanicIsAFall(t *testing.T) {
	m, _ := newGallery(t)

	d := NewStageDirector(nil, panickyModel{m}).Start().PressRight()
	result := d.Stop()

	assert.False(t, result.Success)
	assert.True(t, d.HasFailed())
	assert.Contains(t, result.ErrorMessage, "boom")
	assert.True(t, d.GetTripHandler().HasTrips())
}

func TestOperator_CapturesFrames(t *testing.T) {
	m, cfg := newGallery(t)
	dir := t.TempDir()

	op, err := NewOperator(t, m, cfg, dir)
	require.NoError(t, err)

	result := op.Start().
		CaptureTrackingShot("initial").
		PressRightWithTrackingShot("turning").
		SettleWithTrackingShot("settled").
		Stop()

	assert.True(t, result.Success, result.TripReport)
	require.Len(t, op.Frames(), 6)
	for _, f := range op.Frames() {
		assert.Equal(t, dir, filepath.Dir(f))
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestReport_WritesHTML(t *testing.T) {
	m, cfg := newGallery(t)
	frameDir := t.TempDir()

	op, err := NewOperator(t, m, cfg, frameDir)
	require.NoError(t, err)
	result := op.Start().
		CaptureTrackingShot("initial").
		PressRightWithTrackingShot("turning").
		Stop()

	report, err := NewReport("TestReport_WritesHTML", result, op.Frames())
	require.NoError(t, err)
	assert.True(t, report.Success)
	assert.Len(t, report.Frames, 4)
	assert.NotEmpty(t, report.Snapshots)
	assert.Equal(t, time.Duration(0), report.Snapshots[0].Offset)

	path, err := report.WriteHTML(t.TempDir())
	require.NoError(t, err)
	html, err := os.ReadFile(path)
	require.NoError(t, err)

	body := string(html)
	assert.Contains(t, body, "passed")
	assert.Contains(t, body, "data:image/png;base64,")
	assert.Contains(t, body, "The Starry Night")
	assert.Contains(t, body, "keypress")
}

func TestReport_EscapesViews(t *testing.T) {
	report := Report{
		Name: "escape",
		Snapshots: []ReportSnapshot{
			{Reason: "interaction", View: "<script>alert('x')</script>"},
		},
	}

	path, err := report.WriteHTML(t.TempDir())
	require.NoError(t, err)
	html, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotContains(t, string(html), "<script>alert")
	assert.Contains(t, string(html), "&lt;script&gt;")
	assert.Contains(t, string(html), "failed")
}

func TestReport_MissingFrame(t *testing.T) {
	_, err := NewReport("missing", &StageResult{}, []string{filepath.Join(t.TempDir(), "nope.png")})
	assert.Error(t, err)
}

func TestDashboard_ListsReports(t *testing.T) {
	base := t.TempDir()

	passed := Report{Name: "passing", Success: true, Duration: time.Second}
	_, err := passed.WriteHTML(filepath.Join(base, "passing"))
	require.NoError(t, err)
	failed := Report{Name: "failing", Error: "Expected index 4, got 0"}
	_, err = failed.WriteHTML(filepath.Join(base, "nested", "failing"))
	require.NoError(t, err)

	entries, err := ScanReports(base)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byName := map[string]DashboardEntry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.True(t, byName["passing"].Success)
	assert.Equal(t, "1s", byName["passing"].Duration)
	assert.Equal(t, "passing/index.html", byName["passing"].RelativePath)
	assert.False(t, byName["failing"].Success)
	assert.Equal(t, "nested/failing/index.html", byName["failing"].RelativePath)

	n, err := GenerateDashboard(base)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	html, err := os.ReadFile(filepath.Join(base, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "1 of 2 passed")
	assert.Contains(t, string(html), `href="nested/failing/index.html"`)
}

func TestDashboard_EmptyDirectory(t *testing.T) {
	n, err := GenerateDashboard(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOperator_Baseline(t *testing.T) {
	baseline := t.TempDir()

	m, cfg := newGallery(t)
	op, err := NewOperator(t, m, cfg, t.TempDir())
	require.NoError(t, err)
	result := op.WithBaseline(baseline, 0, true).
		Start().
		AssertMatchesBaseline("rest").
		Stop()
	require.True(t, result.Success, result.TripReport)
	assert.FileExists(t, filepath.Join(baseline, "rest.png"))

	m, cfg = newGallery(t)
	op, err = NewOperator(t, m, cfg, t.TempDir())
	require.NoError(t, err)
	result = op.WithBaseline(baseline, 0, false).
		Start().
		AssertMatchesBaseline("rest").
		Stop()
	assert.True(t, result.Success, result.TripReport)

	m, cfg = newGallery(t)
	op, err = NewOperator(nil, m, cfg, t.TempDir())
	require.NoError(t, err)
	op.WithBaseline(baseline, 0, false).Start().PressRight()
	result = op.Advance(250 * time.Millisecond).
		AssertMatchesBaseline("rest").
		Stop()
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "visual regression detected")
}

func TestOperator_BaselineRequiresDirectory(t *testing.T) {
	m, cfg := newGallery(t)
	op, err := NewOperator(nil, m, cfg, t.TempDir())
	require.NoError(t, err)

	result := op.Start().AssertMatchesBaseline("rest").Stop()
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "no baseline directory configured")
}

var _ Reporter = (*testing.T)(nil)

// recordingReporter collects what the director reports.
type recordingReporter struct {
	errors []string
	logs   []string
}

func (r *recordingReporter) Helper() {}

func (r *recordingReporter) Error(args ...any) { r.errors = append(r.errors, fmt.Sprint(args...)) }

func (r *recordingReporter) Log(args ...any) { r.logs = append(r.logs, fmt.Sprint(args...)) }

func TestStageDirector_ReportsThroughReporter(t *testing.T) {
	m, _ := newGallery(t)
	rep := &recordingReporter{}

	result := NewStageDirector(rep, m).Start().AssertIndex(3).Stop()
	assert.False(t, result.Success)
	assert.Empty(t, rep.errors)
	require.Len(t, rep.logs, 1)
	assert.Contains(t, rep.logs[0], "Expected index 3, got 0")

	m, _ = newGallery(t)
	rep = &recordingReporter{}
	NewStageDirector(rep, panickyModel{m}).Start().PressRight().Stop()
	require.Len(t, rep.errors, 1)
	assert.Contains(t, rep.errors[0], "boom")
}
