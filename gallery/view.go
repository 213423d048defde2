package gallery

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/teranos/carousel/render"
)

const (
	minWidth    = 40
	titleBg     = "#3a3836"
	titleFg     = "#f2eee6"
	hiddenAlpha = 0.05
)

var (
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(titleFg))
	counterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8580"))
	arrowStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d9b34a"))
	reflectionStyle = lipgloss.NewStyle().Faint(true)
	hudStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c6864"))
	tripStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e07a3f"))
)

// tile is one slot projected onto the ring band.
type tile struct {
	slot   int
	depth  float64
	center int
	width  int
	height int
}

// projectTiles places every slot facing the camera onto the band, far
// slots first so near ones overwrite them.
func (m *Model) projectTiles(bandWidth, bandHeight int) []tile {
	ring := m.nav.Ring()
	angle := m.nav.Angle()
	frontWidth := bandWidth / 3
	if frontWidth > 24 {
		frontWidth = 24
	}
	half := float64(bandWidth/2 - 2)

	tiles := make([]tile, 0, ring.Count())
	for i := 0; i < ring.Count(); i++ {
		slotAngle, err := ring.AngleOfSlot(i)
		if err != nil {
			continue
		}
		world := angle - slotAngle
		depth := math.Cos(world)
		if depth < 0.2 {
			continue
		}
		t := tile{
			slot:   i,
			depth:  depth,
			center: bandWidth/2 + int(math.Round(-math.Sin(world)*half)),
			width:  max(4, int(math.Round(depth*float64(frontWidth)))),
			height: 3,
		}
		if depth > 0.9 {
			t.height = bandHeight
		}
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(a, b int) bool { return tiles[a].depth < tiles[b].depth })
	return tiles
}

// band draws the tiles into a rune grid, tracking which slot owns each cell.
func (m *Model) band(bandWidth, bandHeight int) ([][]rune, [][]int) {
	cells := make([][]rune, bandHeight)
	owner := make([][]int, bandHeight)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", bandWidth))
		owner[y] = make([]int, bandWidth)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}

	set := func(x, y int, r rune, slot int) {
		if x < 0 || x >= bandWidth || y < 0 || y >= bandHeight {
			return
		}
		cells[y][x] = r
		owner[y][x] = slot
	}

	for _, t := range m.projectTiles(bandWidth, bandHeight) {
		left := t.center - t.width/2
		right := left + t.width - 1
		top := (bandHeight - t.height) / 2
		bottom := top + t.height - 1
		for y := top; y <= bottom; y++ {
			for x := left; x <= right; x++ {
				r := ' '
				switch {
				case y == top && x == left:
					r = '┌'
				case y == top && x == right:
					r = '┐'
				case y == bottom && x == left:
					r = '└'
				case y == bottom && x == right:
					r = '┘'
				case y == top || y == bottom:
					r = '─'
				case x == left || x == right:
					r = '│'
				}
				set(x, y, r, t.slot)
			}
		}
		label := []rune(fmt.Sprintf("%d", t.slot+1))
		mid := top + t.height/2
		start := t.center - len(label)/2
		for k, r := range label {
			if start+k > left && start+k < right {
				set(start+k, mid, r, t.slot)
			}
		}
	}
	return cells, owner
}

// styleRow colors runs of cells by the slot that owns them.
func (m *Model) styleRow(cells []rune, owner []int, reflect bool) string {
	var b strings.Builder
	for x := 0; x < len(cells); {
		end := x + 1
		for end < len(cells) && owner[end] == owner[x] {
			end++
		}
		run := string(cells[x:end])
		slot := owner[x]
		switch {
		case slot < 0:
			b.WriteString(run)
		case reflect:
			b.WriteString(reflectionStyle.Foreground(m.slotColor(slot)).Render(strings.Repeat("░", end-x)))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(m.slotColor(slot)).Render(run))
		}
		x = end
	}
	return b.String()
}

func (m *Model) slotColor(slot int) lipgloss.Color {
	return lipgloss.Color(render.Hex(m.palette[slot%len(m.palette)]))
}

// View renders the header, the ring band with its arrows, the reflection,
// the fading title and the status line.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	layout := m.layout
	bandWidth := layout.BandWidth()
	cells, owner := m.band(bandWidth, layout.RingHeight)

	var lines []string
	header := headerStyle.Render(" Gallery") + counterStyle.Render(
		fmt.Sprintf("  %d/%d", m.nav.CurrentIndex()+1, m.nav.Count()))
	lines = append(lines, header, "")

	gutter := strings.Repeat(" ", layout.ArrowWidth)
	mid := layout.RingHeight / 2
	for y := 0; y < layout.RingHeight; y++ {
		left, right := gutter, gutter
		if y == mid {
			left = arrowStyle.Render(" ◀ ")
			right = arrowStyle.Render(" ▶ ")
		}
		lines = append(lines, left+m.styleRow(cells[y], owner[y], false)+right)
	}

	if m.scene.Reflection {
		last := layout.RingHeight - 1
		lines = append(lines, gutter+m.styleRow(cells[last], owner[last], true)+gutter)
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, "", m.titleLine(layout.Width), m.statusLine())

	if m.showHelp {
		lines = append(lines, "", m.help)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) titleLine(width int) string {
	alpha := m.title.Alpha()
	if alpha < hiddenAlpha {
		return ""
	}
	style := lipgloss.NewStyle().
		Bold(true).
		Width(width).
		Align(lipgloss.Center).
		Foreground(lipgloss.Color(render.BlendHex(titleBg, titleFg, alpha)))
	return style.Render(m.title.Text())
}

func (m *Model) statusLine() string {
	status := hudStyle.Render(" ←/→ move · ? help · q quit")
	if m.trips.HasTrips() || m.trips.HasStumbles() {
		status += "  " + tripStyle.Render(m.trips.Summary())
	}
	return status
}
