package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// TextConfig defines the grid used to rasterize terminal views.
type TextConfig struct {
	Columns    int        // Terminal width in characters
	Rows       int        // Terminal height in characters
	Background color.RGBA // Background color
	Foreground color.RGBA // Text color
	OutputDir  string     // Directory to save frames
}

// DefaultTextConfig is an 80x24 white-on-black terminal.
func DefaultTextConfig() TextConfig {
	return TextConfig{
		Columns:    80,
		Rows:       24,
		Background: color.RGBA{0, 0, 0, 255},
		Foreground: color.RGBA{255, 255, 255, 255},
	}
}

// TextStage rasterizes a terminal view, such as the gallery TUI, into an
// image so it can be captured next to 3D frames.
type TextStage struct {
	config     TextConfig
	buffer     [][]rune
	charWidth  int
	charHeight int
	font       font.Face
	frames     int
}

// NewTextStage allocates the character grid.
func NewTextStage(config TextConfig) (*TextStage, error) {
	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	buffer := make([][]rune, config.Rows)
	for i := range buffer {
		buffer[i] = make([]rune, config.Columns)
	}

	return &TextStage{
		config:     config,
		buffer:     buffer,
		charWidth:  7,
		charHeight: 13,
		font:       basicfont.Face7x13,
	}, nil
}

// Load replaces the grid with the given terminal output, dropping ANSI escapes
// and clipping to the configured size.
func (ts *TextStage) Load(terminalOutput string) {
	for i := range ts.buffer {
		for j := range ts.buffer[i] {
			ts.buffer[i][j] = ' '
		}
	}

	lines := strings.Split(StripANSI(terminalOutput), "\n")
	for row, line := range lines {
		if row >= ts.config.Rows {
			break
		}
		col := 0
		for _, r := range line {
			if col >= ts.config.Columns {
				break
			}
			ts.buffer[row][col] = r
			col++
		}
	}
}

// Line returns row i of the grid with trailing blanks trimmed.
func (ts *TextStage) Line(i int) string {
	if i < 0 || i >= len(ts.buffer) {
		return ""
	}
	return strings.TrimRight(string(ts.buffer[i]), " ")
}

// Image draws the grid.
func (ts *TextStage) Image() *image.RGBA {
	width := ts.config.Columns * ts.charWidth
	height := ts.config.Rows * ts.charHeight

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(ts.config.Background), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ts.config.Foreground),
		Face: ts.font,
	}

	ascent := ts.font.Metrics().Ascent.Ceil()
	for row, line := range ts.buffer {
		for col, char := range line {
			if char == ' ' || char == 0 {
				continue
			}
			drawer.Dot = fixed.P(col*ts.charWidth, row*ts.charHeight+ascent)
			drawer.DrawString(string(char))
		}
	}
	return img
}

// CaptureFrame renders view and writes it as a PNG into the output directory.
func (ts *TextStage) CaptureFrame(label, view string) (string, error) {
	ts.Load(view)
	filename := filepath.Join(ts.config.OutputDir, fmt.Sprintf("view_%03d_%s.png", ts.frames, label))
	if err := writePNG(filename, ts.Image()); err != nil {
		return "", err
	}
	ts.frames++
	return filename, nil
}

// StripANSI removes CSI escape sequences.
func StripANSI(text string) string {
	return ansiSequence.ReplaceAllString(text, "")
}
