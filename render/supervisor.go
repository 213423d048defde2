package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
)

// Supervisor compares captured frames against baselines so visual changes to
// the carousel are caught.
type Supervisor struct {
	baselineDir string
	currentDir  string
	tolerance   float64 // Fraction of differing pixels tolerated
}

// NewSupervisor creates a frame comparison helper with a 5% tolerance.
func NewSupervisor(baselineDir, currentDir string) *Supervisor {
	return &Supervisor{
		baselineDir: baselineDir,
		currentDir:  currentDir,
		tolerance:   0.05,
	}
}

// WithTolerance overrides the fraction of pixels allowed to differ.
func (ss *Supervisor) WithTolerance(tolerance float64) *Supervisor {
	ss.tolerance = tolerance
	return ss
}

// Validate compares <current>/<name>.png with <baseline>/<name>.png. A diff
// image is written next to the current frame when they diverge.
func (ss *Supervisor) Validate(name string) error {
	baseline, err := loadImage(filepath.Join(ss.baselineDir, name+".png"))
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}

	current, err := loadImage(filepath.Join(ss.currentDir, name+".png"))
	if err != nil {
		return fmt.Errorf("failed to load current: %w", err)
	}

	difference := Difference(baseline, current)
	if difference > ss.tolerance {
		diffPath := filepath.Join(ss.currentDir, name+"_diff.png")
		if err := writePNG(diffPath, DiffImage(baseline, current)); err != nil {
			return fmt.Errorf("visual regression detected: %.2f%% difference (diff image failed: %v)",
				difference*100, err)
		}
		return fmt.Errorf("visual regression detected: %.2f%% difference (tolerance: %.2f%%)",
			difference*100, ss.tolerance*100)
	}

	return nil
}

// SetBaseline stores img as the baseline for name.
func (ss *Supervisor) SetBaseline(name string, img image.Image) error {
	if err := os.MkdirAll(ss.baselineDir, 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}
	return writePNG(filepath.Join(ss.baselineDir, name+".png"), img)
}

// SetCurrent stores img as the current frame for name.
func (ss *Supervisor) SetCurrent(name string, img image.Image) error {
	if err := os.MkdirAll(ss.currentDir, 0755); err != nil {
		return fmt.Errorf("failed to create current directory: %w", err)
	}
	return writePNG(filepath.Join(ss.currentDir, name+".png"), img)
}

// Difference returns the fraction of pixels that differ. Images of different
// size differ entirely.
func Difference(img1, img2 image.Image) float64 {
	bounds1 := img1.Bounds()
	bounds2 := img2.Bounds()

	if bounds1 != bounds2 {
		return 1.0
	}

	totalPixels := bounds1.Dx() * bounds1.Dy()
	if totalPixels == 0 {
		return 0
	}
	differentPixels := 0

	for y := bounds1.Min.Y; y < bounds1.Max.Y; y++ {
		for x := bounds1.Min.X; x < bounds1.Max.X; x++ {
			if !sameColor(img1.At(x, y), img2.At(x, y)) {
				differentPixels++
			}
		}
	}

	return float64(differentPixels) / float64(totalPixels)
}

// DiffImage highlights differing pixels in red over a dimmed baseline.
func DiffImage(baseline, current image.Image) *image.RGBA {
	bounds := baseline.Bounds()
	diff := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			baseColor := baseline.At(x, y)

			if !sameColor(baseColor, current.At(x, y)) {
				diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				continue
			}
			r, g, b, a := baseColor.RGBA()
			diff.Set(x, y, color.RGBA{
				uint8(r >> 9),
				uint8(g >> 9),
				uint8(b >> 9),
				uint8(a >> 8),
			})
		}
	}

	return diff
}

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}
