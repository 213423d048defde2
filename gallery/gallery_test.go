package gallery

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/carousel"
	"github.com/teranos/carousel/internal/metrics"
	"github.com/teranos/carousel/trip"
)

func newTestModel(t *testing.T, opts ...ModelOption) *Model {
	t.Helper()
	cfg := carousel.DefaultConfig()
	nav, err := carousel.New(cfg)
	require.NoError(t, err)
	m, err := NewModel(nav, cfg, opts...)
	require.NoError(t, err)
	return m
}

// frames feeds n frames spaced by step, starting from the model's last frame.
func frames(m *Model, start time.Time, n int, step time.Duration) time.Time {
	now := start
	for i := 0; i < n; i++ {
		m.Update(FrameMsg{Time: now})
		now = now.Add(step)
	}
	return now
}

func TestModel_KeyMovesAndTitleFollows(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, "The Starry Night", m.CurrentTitle())
	assert.True(t, m.CheckCondition("title-visible"))

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.CurrentIndex())
	assert.True(t, m.CheckCondition("moving"))
	assert.True(t, m.CheckCondition("title-hidden"))

	start := time.Unix(0, 0)
	now := frames(m, start, 40, 16*time.Millisecond)
	assert.True(t, m.CheckCondition("idle"))
	assert.Equal(t, "Water Lilies", m.CurrentTitle())
	assert.InDelta(t, m.Navigator().Ring().Step(), m.Navigator().Angle(), 1e-9)

	frames(m, now, 60, 16*time.Millisecond)
	assert.True(t, m.CheckCondition("title-visible"))
}

func TestModel_VimKeysAndWrap(t *testing.T) {
	m := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.Equal(t, 5, m.CurrentIndex())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	assert.Equal(t, 0, m.CurrentIndex())
}

func TestModel_ClickOnArrows(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	l := m.Layout()
	press := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	m.Update(press(l.Width-1, l.RingTop+2))
	assert.Equal(t, 1, m.CurrentIndex())

	m.Update(press(0, l.RingTop+2))
	assert.Equal(t, 0, m.CurrentIndex())

	// Outside the arrows nothing happens.
	m.Update(press(l.Width/2, l.RingTop+2))
	m.Update(press(0, 0))
	assert.Equal(t, 0, m.CurrentIndex())

	// Releases are ignored.
	m.Update(tea.MouseMsg{X: 0, Y: l.RingTop, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, 0, m.CurrentIndex())
}

func TestModel_RapidMovesInterrupt(t *testing.T) {
	rec := metrics.NewRecorder()
	m := newTestModel(t, WithRecorder(rec))

	ends := 0
	m.Navigator().AddListener(carousel.ListenerFuncs{End: func(int) { ends++ }})

	m.Update(MoveMsg{Direction: 1})
	now := frames(m, time.Unix(0, 0), 10, 16*time.Millisecond)
	m.Update(MoveMsg{Direction: 1})
	frames(m, now, 60, 16*time.Millisecond)

	assert.Equal(t, 2, m.CurrentIndex())
	assert.Equal(t, 1, ends)
	assert.Equal(t, "The Great Wave off Kanagawa", m.CurrentTitle())
	assert.InDelta(t, 2*m.Navigator().Ring().Step(), m.Navigator().Angle(), 1e-9)
}

func TestModel_InvalidRemoteMoveIsRecorded(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(MoveMsg{Direction: 2})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.CurrentIndex())
	assert.True(t, m.Trips().HasStumbles())
	assert.Equal(t, trip.InvalidDirection, m.Trips().Last().Type)
	assert.Contains(t, m.View(), "1 stumbles")
}

func TestModel_StrictPolicyQuits(t *testing.T) {
	m := newTestModel(t, WithTripPolicy(&trip.Policy{StopOnFall: true, MaxStumbles: 1}))

	_, cmd := m.Update(MoveMsg{Direction: 0})
	assert.Nil(t, cmd)
	_, cmd = m.Update(MoveMsg{Direction: 0})
	assert.NotNil(t, cmd)
	assert.True(t, m.CheckCondition("quitting"))
}

func TestModel_HelpAndQuit(t *testing.T) {
	m := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, m.CheckCondition("help"))
	assert.Contains(t, m.View(), "previous artwork")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.False(t, m.CheckCondition("help"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestModel_ViewShowsRing(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, "Gallery")
	assert.Contains(t, view, "1/6")
	assert.Contains(t, view, "◀")
	assert.Contains(t, view, "▶")
	assert.Contains(t, view, "The Starry Night")
	assert.Contains(t, view, "░")
}

func TestModel_TitleHiddenWhileMoving(t *testing.T) {
	m := newTestModel(t)
	m.Update(MoveMsg{Direction: -1})

	assert.NotContains(t, m.View(), "Impression, Sunrise")
	assert.NotContains(t, m.View(), "The Starry Night")
}

func TestModel_BoardPublishes(t *testing.T) {
	board := &StateBoard{}
	m := newTestModel(t, WithBoard(board))
	assert.Equal(t, "The Starry Night", board.Snapshot().Title)

	m.Update(MoveMsg{Direction: 1})
	snap := board.Snapshot()
	assert.Equal(t, 1, snap.Index)
	assert.True(t, snap.Active)
	assert.Equal(t, 6, snap.Count)
}

func TestModel_Autoplay(t *testing.T) {
	cfg := carousel.DefaultConfig()
	cfg.Autoplay = 3 * time.Second
	nav, err := carousel.New(cfg)
	require.NoError(t, err)
	m, err := NewModel(nav, cfg)
	require.NoError(t, err)

	assert.NotNil(t, m.Init())
	_, cmd := m.Update(autoplayMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, m.CurrentIndex())
}

func TestNewModel_BadColors(t *testing.T) {
	cfg := carousel.DefaultConfig()
	nav, err := carousel.New(cfg)
	require.NoError(t, err)

	cfg.Colors = []string{"#zzz", "#000", "#000", "#000", "#000", "#000"}
	_, err = NewModel(nav, cfg)
	assert.ErrorIs(t, err, carousel.ErrConfiguration)
}

func TestLayout_HitTest(t *testing.T) {
	l := NewLayout(10)
	assert.Equal(t, minWidth, l.Width, "narrow terminals are clamped")

	l = NewLayout(80)
	tests := []struct {
		x, y int
		want string
	}{
		{0, 2, RegionLeftArrow},
		{2, 6, RegionLeftArrow},
		{3, 4, RegionNone},
		{77, 4, RegionRightArrow},
		{79, 2, RegionRightArrow},
		{80, 4, RegionNone},
		{0, 1, RegionNone},
		{0, 7, RegionNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.HitTest(tt.x, tt.y), "(%d,%d)", tt.x, tt.y)
	}
}

func TestKeyDirection(t *testing.T) {
	d, ok := KeyDirection(tea.KeyMsg{Type: tea.KeyLeft})
	assert.True(t, ok)
	assert.Equal(t, -1, d)

	d, ok = KeyDirection(tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, ok)
	assert.Equal(t, 1, d)

	_, ok = KeyDirection(tea.KeyMsg{Type: tea.KeyUp})
	assert.False(t, ok)
}

func TestTitleDisplay_Fade(t *testing.T) {
	d := NewTitleDisplay([]string{"a", "b"}, 0)
	assert.Equal(t, 1.0, d.Alpha())

	d.OnTransitionStart()
	assert.False(t, d.Visible())
	assert.Equal(t, 0.0, d.Alpha())
	d.Advance(time.Second)
	assert.Equal(t, 0.0, d.Alpha(), "hidden labels do not fade in")

	d.OnTransitionEnd(1)
	assert.Equal(t, "b", d.Text())
	d.Advance(16 * time.Millisecond)
	first := d.Alpha()
	assert.Greater(t, first, 0.0)
	assert.Less(t, first, 1.0)

	for i := 0; i < 120; i++ {
		d.Advance(16 * time.Millisecond)
	}
	assert.Equal(t, 1.0, d.Alpha())
}

func TestModel_MoveBetweenSparseFramesStartsFresh(t *testing.T) {
	m := newTestModel(t)
	start := time.Unix(0, 0)
	m.Update(FrameMsg{Time: start})

	m.Update(MoveMsg{Direction: 1})
	m.Update(FrameMsg{Time: start.Add(499 * time.Millisecond)})

	tr, ok := m.Navigator().Transition()
	require.True(t, ok, "the transition must not finish on its first frame")
	assert.Equal(t, time.Second/DefaultFrameRate, tr.Elapsed)
	assert.Less(t, m.Navigator().Angle(), m.Navigator().Ring().Step()/2)

	// Later frames use the full gap again.
	m.Update(FrameMsg{Time: start.Add(999 * time.Millisecond)})
	assert.True(t, m.CheckCondition("idle"))
	assert.Equal(t, "Water Lilies", m.CurrentTitle())
}
