package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/teranos/carousel"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Hit regions reported by HitTest.
const (
	RegionNone       = ""
	RegionLeftArrow  = "left-arrow"
	RegionRightArrow = "right-arrow"
)

// Config defines the raster parameters of rendered frames.
type Config struct {
	Width      int        // Frame width in pixels
	Height     int        // Frame height in pixels
	Background color.RGBA // Clear color
	Foreground color.RGBA // Title and arrow color
	FrameColor color.RGBA // Border color around each artwork
	OutputDir  string     // Directory frames are captured into
}

// DefaultConfig renders 640x400 frames on a dark gallery wall.
func DefaultConfig() Config {
	return Config{
		Width:      640,
		Height:     400,
		Background: color.RGBA{0x14, 0x13, 0x12, 0xff},
		Foreground: color.RGBA{0xf2, 0xee, 0xe6, 0xff},
		FrameColor: color.RGBA{0x8a, 0x6d, 0x3b, 0xff},
	}
}

// View is everything a frame depends on.
type View struct {
	Angle      float64 // ring rotation
	Title      string
	TitleAlpha float64 // 0 hidden, 1 fully shown
}

// Stage renders the carousel into RGBA frames.
type Stage struct {
	config  Config
	scene   carousel.SceneConfig
	ring    *carousel.Ring
	palette []color.RGBA
	font    font.Face
	frames  int
}

// NewStage builds a renderer for ring with the scene geometry from cfg.
func NewStage(config Config, cfg carousel.Config, ring *carousel.Ring) (*Stage, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", config.Width, config.Height)
	}
	palette, err := Palette(cfg.Colors, ring.Count())
	if err != nil {
		return nil, err
	}
	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return &Stage{
		config:  config,
		scene:   cfg.Scene,
		ring:    ring,
		palette: palette,
		font:    basicfont.Face7x13,
	}, nil
}

// Resize changes the frame size for subsequent renders.
func (s *Stage) Resize(width, height int) {
	if width > 0 && height > 0 {
		s.config.Width, s.config.Height = width, height
	}
}

// Bounds returns the frame rectangle.
func (s *Stage) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.config.Width, s.config.Height)
}

// quad is one projected polygon waiting to be painted.
type quad struct {
	points [4]mgl32.Vec2
	depth  float32
	fill   color.Color
}

// Render draws one frame: floor reflection, spotlight, framed artworks back to
// front, navigation arrows and the title.
func (s *Stage) Render(v View) *image.RGBA {
	img := image.NewRGBA(s.Bounds())
	draw.Draw(img, img.Bounds(), image.NewUniform(s.config.Background), image.Point{}, draw.Src)

	mvp := s.viewProjection()
	floorY := -(s.scene.FrameHeight/2 + 0.25)

	if s.scene.Spotlight {
		s.drawSpotlight(img, mvp, floorY)
	}

	var quads []quad
	for i := 0; i < s.ring.Count(); i++ {
		model, err := s.ring.SlotTransform(i, v.Angle, s.scene.Radius)
		if err != nil {
			continue
		}
		light := s.lighting(i, v.Angle)

		if s.scene.Reflection {
			mirror := mgl32.Translate3D(0, floorY, 0).
				Mul4(mgl32.Scale3D(1, -1, 1)).
				Mul4(mgl32.Translate3D(0, -floorY, 0)).
				Mul4(model)
			quads = append(quads, s.slotQuads(mvp, mirror, i, light, 0.25)...)
		}
		quads = append(quads, s.slotQuads(mvp, model, i, light, 1)...)
	}

	// painter's algorithm: farthest first, borders before the art they frame
	sort.SliceStable(quads, func(a, b int) bool { return quads[a].depth > quads[b].depth })
	for _, q := range quads {
		fillPolygon(img, q.points[:], q.fill)
	}

	s.drawArrows(img)
	s.drawTitle(img, v.Title, v.TitleAlpha)
	return img
}

// CaptureFrame renders v and writes it as a PNG into the output directory.
func (s *Stage) CaptureFrame(label string, v View) (string, error) {
	img := s.Render(v)
	filename := filepath.Join(s.config.OutputDir, fmt.Sprintf("frame_%03d_%s.png", s.frames, label))

	if err := writePNG(filename, img); err != nil {
		return "", err
	}
	s.frames++
	return filename, nil
}

// HitTest maps a pixel to the arrow region under it.
func (s *Stage) HitTest(x, y int) string {
	left, right := s.arrowRects()
	p := image.Pt(x, y)
	switch {
	case p.In(left):
		return RegionLeftArrow
	case p.In(right):
		return RegionRightArrow
	default:
		return RegionNone
	}
}

func (s *Stage) viewProjection() mgl32.Mat4 {
	cam := s.scene.Camera
	aspect := float32(s.config.Width) / float32(s.config.Height)
	proj := mgl32.Perspective(mgl32.DegToRad(cam.FOV), aspect, cam.Near, cam.Far)
	eye := mgl32.Vec3{0, cam.Height, 0}
	view := mgl32.LookAtV(eye, eye.Add(mgl32.Vec3{0, 0, -1}), mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

// lighting brightens the slot nearest the front and dims the rest.
func (s *Stage) lighting(i int, ringAngle float64) float64 {
	slotAngle, _ := s.ring.AngleOfSlot(i)
	facing := math.Cos(ringAngle - slotAngle) // 1 at the front, -1 behind
	base := 0.45 + 0.35*facing
	if s.scene.Spotlight && facing > 0.95 {
		base += 0.25 * (facing - 0.95) / 0.05
	}
	return base
}

// slotQuads projects the border and the artwork of slot i through model.
func (s *Stage) slotQuads(mvp, model mgl32.Mat4, i int, light, alpha float64) []quad {
	w, h, b := s.scene.FrameWidth/2, s.scene.FrameHeight/2, s.scene.Border
	frame := withAlpha(scale(s.config.FrameColor, light), alpha)
	art := withAlpha(scale(s.palette[i], light), alpha)

	var out []quad
	if b > 0 {
		if q, ok := s.project(mvp, model, w+b, h+b, 0.001); ok {
			q.fill = frame
			out = append(out, q)
		}
	}
	if q, ok := s.project(mvp, model, w, h, 0); ok {
		q.fill = art
		out = append(out, q)
	}
	return out
}

// project maps a centered rectangle of half-extent (hw, hh) to screen space.
// zBias pushes borders slightly behind the art they surround.
func (s *Stage) project(mvp, model mgl32.Mat4, hw, hh, zBias float32) (quad, bool) {
	corners := [4]mgl32.Vec4{
		{-hw, -hh, -zBias, 1},
		{hw, -hh, -zBias, 1},
		{hw, hh, -zBias, 1},
		{-hw, hh, -zBias, 1},
	}
	m := mvp.Mul4(model)

	var q quad
	for k, c := range corners {
		clip := m.Mul4x1(c)
		if clip.W() < s.scene.Camera.Near {
			return quad{}, false // behind the camera
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		q.points[k] = mgl32.Vec2{
			(ndc.X() + 1) / 2 * float32(s.config.Width),
			(1 - ndc.Y()) / 2 * float32(s.config.Height),
		}
		q.depth += clip.W() + zBias
	}
	return q, true
}

// drawSpotlight paints a soft ellipse on the floor in front of the camera.
func (s *Stage) drawSpotlight(img *image.RGBA, mvp mgl32.Mat4, floorY float32) {
	const segments = 32
	center := mgl32.Vec3{0, floorY, -s.scene.Radius}
	radius := s.scene.FrameWidth * 0.7

	points := make([]mgl32.Vec2, 0, segments)
	for k := 0; k < segments; k++ {
		a := 2 * math.Pi * float64(k) / segments
		p := center.Add(mgl32.Vec3{radius * float32(math.Cos(a)), 0, radius * 0.5 * float32(math.Sin(a))})
		clip := mvp.Mul4x1(p.Vec4(1))
		if clip.W() < s.scene.Camera.Near {
			return
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		points = append(points, mgl32.Vec2{
			(ndc.X() + 1) / 2 * float32(s.config.Width),
			(1 - ndc.Y()) / 2 * float32(s.config.Height),
		})
	}
	fillPolygon(img, points, withAlpha(s.config.Foreground, 0.12))
}

// arrowRects returns the clickable regions at the left and right edges.
func (s *Stage) arrowRects() (left, right image.Rectangle) {
	size := s.config.Height / 8
	if size < 12 {
		size = 12
	}
	margin := size / 2
	top := s.config.Height/2 - size/2
	left = image.Rect(margin, top, margin+size, top+size)
	right = image.Rect(s.config.Width-margin-size, top, s.config.Width-margin, top+size)
	return left, right
}

func (s *Stage) drawArrows(img *image.RGBA) {
	left, right := s.arrowRects()
	fg := withAlpha(s.config.Foreground, 0.8)

	fillPolygon(img, []mgl32.Vec2{
		{float32(left.Max.X), float32(left.Min.Y)},
		{float32(left.Max.X), float32(left.Max.Y)},
		{float32(left.Min.X), float32(left.Min.Y+left.Dy()/2)},
	}, fg)
	fillPolygon(img, []mgl32.Vec2{
		{float32(right.Min.X), float32(right.Min.Y)},
		{float32(right.Min.X), float32(right.Max.Y)},
		{float32(right.Max.X), float32(right.Min.Y+right.Dy()/2)},
	}, fg)
}

func (s *Stage) drawTitle(img *image.RGBA, title string, alpha float64) {
	if title == "" || alpha <= 0 {
		return
	}
	width := font.MeasureString(s.font, title).Ceil()
	x := (s.config.Width - width) / 2
	y := s.config.Height - s.font.Metrics().Height.Ceil()

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(withAlpha(s.config.Foreground, alpha)),
		Face: s.font,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(title)
}

func fillPolygon(img *image.RGBA, points []mgl32.Vec2, fill color.Color) {
	if len(points) < 3 {
		return
	}
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(points[0].X(), points[0].Y())
	for _, p := range points[1:] {
		z.LineTo(p.X(), p.Y())
	}
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(fill), image.Point{})
}

func writePNG(filename string, img image.Image) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
