package carousel

import (
	"fmt"
	"os"
	"time"

	"github.com/teranos/carousel/trip"
	"gopkg.in/yaml.v3"
)

// AnglePolicy decides how a move turns into a target angle.
type AnglePolicy string

const (
	// Accumulate adds one signed step to where the ring is heading. The angle
	// grows without bound, so crossing the seam between the last and first
	// slot keeps turning the same way.
	Accumulate AnglePolicy = "accumulate"

	// Absolute targets AngleOfSlot(newIndex) directly. Crossing the seam
	// sweeps back across the whole ring.
	Absolute AnglePolicy = "absolute"
)

// Config describes a carousel. It is supplied at construction and never
// changes afterwards.
//
// Example gallery.yaml:
//
//	images: [art/starry-night.jpg, art/water-lilies.jpg]
//	titles: [The Starry Night, Water Lilies]
//	duration: 500ms
//	easing: ease-in-out-circ
//	policy: accumulate
type Config struct {
	// Images provides one slot per entry; the slot count is len(Images)
	Images []string `yaml:"images"`
	// Titles is displayed for the slot with the same index
	Titles []string `yaml:"titles"`
	// Colors optionally tints each slot (#rrggbb); empty uses the palette
	Colors []string `yaml:"colors"`
	// Duration of one transition
	Duration time.Duration `yaml:"duration"`
	// Easing name, see EasingNames
	Easing string `yaml:"easing"`
	// Policy for computing target angles
	Policy AnglePolicy `yaml:"policy"`
	// Clockwise flips the rotational direction of increasing index
	Clockwise bool `yaml:"clockwise"`
	// Autoplay advances one slot per interval when positive
	Autoplay time.Duration `yaml:"autoplay"`
	// Scene holds presentation parameters used by renderers
	Scene SceneConfig `yaml:"scene"`
}

// SceneConfig carries the geometry renderers use to draw the ring.
type SceneConfig struct {
	Radius      float32      `yaml:"radius"`       // distance of each artwork from the axis
	FrameWidth  float32      `yaml:"frame_width"`  // artwork width in world units
	FrameHeight float32      `yaml:"frame_height"` // artwork height in world units
	Border      float32      `yaml:"border"`       // frame border thickness in world units
	Reflection  bool         `yaml:"reflection"`   // mirror the ring on the floor
	Spotlight   bool         `yaml:"spotlight"`    // light the front slot
	Camera      CameraConfig `yaml:"camera"`
}

// CameraConfig is a perspective camera looking down -Z at the ring.
type CameraConfig struct {
	FOV    float32 `yaml:"fov"` // vertical field of view in degrees
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
	Height float32 `yaml:"height"` // eye height above the ring center
}

// DefaultConfig returns the six-painting gallery.
func DefaultConfig() Config {
	return Config{
		Images: []string{
			"art/starry-night.jpg",
			"art/water-lilies.jpg",
			"art/great-wave.jpg",
			"art/pearl-earring.jpg",
			"art/the-kiss.jpg",
			"art/impression-sunrise.jpg",
		},
		Titles: []string{
			"The Starry Night",
			"Water Lilies",
			"The Great Wave off Kanagawa",
			"Girl with a Pearl Earring",
			"The Kiss",
			"Impression, Sunrise",
		},
		Duration: 500 * time.Millisecond,
		Easing:   "ease-in-out-circ",
		Policy:   Accumulate,
		Scene: SceneConfig{
			Radius:      4,
			FrameWidth:  3,
			FrameHeight: 2,
			Border:      0.1,
			Reflection:  true,
			Spotlight:   true,
			Camera: CameraConfig{
				FOV:    75,
				Near:   0.1,
				Far:    1000,
				Height: 0,
			},
		},
	}
}

// LoadConfig reads a YAML (or JSON) file over DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read carousel config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML document over DefaultConfig and validates it.
// Lists in the document replace the defaults wholesale.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	var probe struct {
		Images []string `yaml:"images"`
		Titles []string `yaml:"titles"`
		Colors []string `yaml:"colors"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return Config{}, fmt.Errorf("failed to parse carousel config: %w", err)
	}
	if probe.Images != nil {
		cfg.Images, cfg.Titles, cfg.Colors = nil, nil, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse carousel config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlotCount is the number of images.
func (c Config) SlotCount() int {
	return len(c.Images)
}

// Sign returns the rotation sign selected by Clockwise.
func (c Config) Sign() int {
	if c.Clockwise {
		return -1
	}
	return 1
}

// Validate fails fast on anything that would otherwise surface later as an
// out-of-range read or a stalled transition.
func (c Config) Validate() error {
	n := c.SlotCount()
	if n == 0 {
		return configTrip("at least one image is required", trip.Context{"images": 0})
	}
	if len(c.Titles) != n {
		return configTrip(fmt.Sprintf("%d titles for %d images", len(c.Titles), n),
			trip.Context{"images": n, "titles": len(c.Titles)})
	}
	if len(c.Colors) != 0 && len(c.Colors) != n {
		return configTrip(fmt.Sprintf("%d colors for %d images", len(c.Colors), n),
			trip.Context{"images": n, "colors": len(c.Colors)})
	}
	if c.Duration <= 0 {
		return configTrip("duration must be positive", trip.Context{"duration": c.Duration})
	}
	if c.Autoplay < 0 {
		return configTrip("autoplay must not be negative", trip.Context{"autoplay": c.Autoplay})
	}
	switch c.Policy {
	case Accumulate, Absolute, "":
	default:
		return configTrip(fmt.Sprintf("unknown angle policy %q", c.Policy),
			trip.Context{"policy": c.Policy})
	}
	if _, err := EasingByName(c.Easing); err != nil {
		return err
	}
	return nil
}

func configTrip(message string, ctx trip.Context) error {
	return trip.NewFall(trip.Configuration, message, ctx).Wrap(ErrConfiguration)
}
