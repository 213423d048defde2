package carousel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 6, cfg.SlotCount())
	assert.Equal(t, 500*time.Millisecond, cfg.Duration)
	assert.Equal(t, Accumulate, cfg.Policy)
	assert.Equal(t, 1, cfg.Sign())
	assert.Equal(t, float32(4), cfg.Scene.Radius)
	assert.Equal(t, float32(75), cfg.Scene.Camera.FOV)
}

func TestParseConfig_OverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
images: [a.png, b.png, c.png]
titles: [Alpha, Beta, Gamma]
duration: 750ms
easing: linear
policy: absolute
clockwise: true
autoplay: 3s
scene:
  radius: 6
`))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.SlotCount())
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, cfg.Titles)
	assert.Empty(t, cfg.Colors)
	assert.Equal(t, 750*time.Millisecond, cfg.Duration)
	assert.Equal(t, Absolute, cfg.Policy)
	assert.Equal(t, -1, cfg.Sign())
	assert.Equal(t, 3*time.Second, cfg.Autoplay)
	assert.Equal(t, float32(6), cfg.Scene.Radius)
	assert.Equal(t, float32(3), cfg.Scene.FrameWidth, "untouched scene fields keep defaults")
}

func TestParseConfig_JSON(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"images": ["x.png"], "titles": ["X"], "duration": "1s"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.SlotCount())
	assert.Equal(t, time.Second, cfg.Duration)
}

func TestParseConfig_ImagesWithoutTitles(t *testing.T) {
	_, err := ParseConfig([]byte("images: [a.png, b.png]\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "0 titles for 2 images")
}

func TestConfig_ValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"no images":         func(c *Config) { c.Images, c.Titles = nil, nil },
		"title mismatch":    func(c *Config) { c.Titles = append(c.Titles, "extra") },
		"color mismatch":    func(c *Config) { c.Colors = []string{"#ffffff"} },
		"zero duration":     func(c *Config) { c.Duration = 0 },
		"negative autoplay": func(c *Config) { c.Autoplay = -time.Second },
		"unknown policy":    func(c *Config) { c.Policy = "shortest" },
		"unknown easing":    func(c *Config) { c.Easing = "elastic" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gallery.yaml")
	require.NoError(t, os.WriteFile(path, []byte("images: [one.png]\ntitles: [One]\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"One"}, cfg.Titles)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("images: [unterminated\n"), 0o644))
	_, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "failed to parse")
}
