package pinewood

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ResourcesConfig selects where content comes from.
type ResourcesConfig struct {
	Root  string `yaml:"root"`
	Watch bool   `yaml:"watch"`
}

// InputConfig tunes input handling.
type InputConfig struct {
	StickThreshold float64 `yaml:"stick_threshold"`
	// Script replays a recorded input script instead of reading devices.
	Script string `yaml:"script"`
}

// Config is the application configuration, usually read from a YAML file:
//
//	window:
//	  title: Demo
//	  width: 1280
//	  height: 720
//	resources:
//	  root: Content
//	  watch: true
//	input:
//	  stick_threshold: 0.4
//	time_scale: 1
//	debug: false
//	show_metrics: true
//	screenshot_dir: screenshots
type Config struct {
	Window      WindowConfig    `yaml:"window"`
	Resources   ResourcesConfig `yaml:"resources"`
	Input       InputConfig     `yaml:"input"`
	TPS         int             `yaml:"tps"`
	TimeScale   float64         `yaml:"time_scale"`
	Debug       bool            `yaml:"debug"`
	ShowMetrics bool            `yaml:"show_metrics"`
	// ScreenshotDir receives the PNGs queued with Context.Screenshot.
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// DefaultConfig returns the configuration used for missing fields.
func DefaultConfig() Config {
	return Config{
		Window:        DefaultWindowConfig(),
		Resources:     ResourcesConfig{Root: DefaultRootDirectory},
		Input:         InputConfig{StickThreshold: DefaultStickThreshold},
		TPS:           60,
		TimeScale:     1,
		ScreenshotDir: DefaultScreenshotDir,
	}
}

// ParseConfig decodes YAML on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "pinewood: parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "pinewood: read config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// Validate reports values that cannot work.
func (c Config) Validate() error {
	switch {
	case c.Window.Width < 0 || c.Window.Height < 0:
		return errors.Errorf("pinewood: window size %dx%d is negative", c.Window.Width, c.Window.Height)
	case c.TPS < 0:
		return errors.Errorf("pinewood: tps %d is negative", c.TPS)
	case c.TimeScale < 0:
		return errors.Errorf("pinewood: time_scale %v is negative", c.TimeScale)
	case c.Input.StickThreshold < 0 || c.Input.StickThreshold > 1:
		return errors.Errorf("pinewood: stick_threshold %v is outside [0, 1]", c.Input.StickThreshold)
	}
	return nil
}
