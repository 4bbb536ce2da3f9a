package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/jacketglow/internal/colour"
)

// RGB is a color triple as written in config.yaml, e.g. [50, 0, 0].
type RGB [3]uint8

func (c RGB) Colour() colour.Color {
	return colour.Color{R: c[0], G: c[1], B: c[2]}
}

type Server struct {
	URL           string  `yaml:"url"`
	APIKey        string  `yaml:"api_key"`
	PollIntervalS float64 `yaml:"poll_interval_s"`
	TimeoutS      float64 `yaml:"timeout_s"`
}

type Grid struct {
	Strips       int `yaml:"strips"`
	LedsPerStrip int `yaml:"leds_per_strip"`
}

type Timing struct {
	TransitionS       float64 `yaml:"transition_s"`
	TransitionFPS     int     `yaml:"transition_fps"`
	BufferFPS         int     `yaml:"buffer_fps"`
	EffectChangePolls int     `yaml:"effect_change_polls"`
}

// StatusColors are the solid colors shown outside normal animation.
type StatusColors struct {
	Startup      RGB `yaml:"startup"`
	NetworkError RGB `yaml:"network_error"`
	ServerError  RGB `yaml:"server_error"`
}

type SPI struct {
	FreqKHz int `yaml:"freq_khz"`
}

type Config struct {
	Driver string `yaml:"driver"` // "spi" | "term" | "sim"
	Effect string `yaml:"effect"`
	Addr   string `yaml:"addr"` // preview/health listen address, empty disables

	Server Server       `yaml:"server"`
	Grid   Grid         `yaml:"grid"`
	Timing Timing       `yaml:"timing"`
	Status StatusColors `yaml:"status_colors"`
	SPI    SPI          `yaml:"spi,omitempty"`
}

// Default mirrors the values the jacket has always shipped with: a 6x14
// grid polled every five seconds, one-second transitions at 30fps, and
// buffer animation at 10fps.
func Default() *Config {
	return &Config{
		Driver: "term",
		Effect: "fade",
		Addr:   ":8080",
		Server: Server{
			URL:           "http://192.168.1.100:5000",
			PollIntervalS: 5,
			TimeoutS:      10,
		},
		Grid: Grid{Strips: 6, LedsPerStrip: 14},
		Timing: Timing{
			TransitionS:       1.0,
			TransitionFPS:     30,
			BufferFPS:         10,
			EffectChangePolls: 30,
		},
		Status: StatusColors{
			Startup:      RGB{0, 0, 50},
			NetworkError: RGB{50, 0, 0},
			ServerError:  RGB{50, 20, 0},
		},
		SPI: SPI{FreqKHz: 2500},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) validate() error {
	if c.Grid.Strips < 1 || c.Grid.LedsPerStrip < 1 {
		return fmt.Errorf("grid must have at least one strip and one led per strip, got %dx%d",
			c.Grid.Strips, c.Grid.LedsPerStrip)
	}
	if c.Timing.TransitionFPS < 1 || c.Timing.BufferFPS < 1 {
		return fmt.Errorf("frame rates must be positive")
	}
	if c.Timing.TransitionS <= 0 {
		return fmt.Errorf("transition duration must be positive")
	}
	return nil
}
