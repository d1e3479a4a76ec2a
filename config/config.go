// Package config holds the tunables of the lessons. Defaults reproduce the
// original demos; a YAML file may override any subset of them.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const maxConfigSize = 1 << 20

type Config struct {
	Window   Window   `yaml:"window"`
	Motion   Motion   `yaml:"motion"`
	Camera   Camera   `yaml:"camera"`
	Lighting Lighting `yaml:"lighting"`
	Model    Model    `yaml:"model"`
	Seed     int64    `yaml:"seed"`
}

type Window struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Title   string `yaml:"title"`
	VSync   bool   `yaml:"vsync"`
	Samples int    `yaml:"samples"`
}

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

func (r Range) valid() bool { return r.Min <= r.Max }

// Motion configures the shape spawner of the motion-and-color lesson.
// Times are in seconds, distances in pixels.
type Motion struct {
	SpawnerChangeTime float32 `yaml:"spawner_change_time"`
	SpawnInterval     float32 `yaml:"spawn_interval"`
	Lifetime          Range   `yaml:"lifetime"`
	Speed             Range   `yaml:"speed"`
	Force             Range   `yaml:"force"`
	Size              Range   `yaml:"size"`
	MaxShapes         int     `yaml:"max_shapes"`
	CircleSegments    int     `yaml:"circle_segments"`
	// AnchorMargin is the fraction of the surface kept free of spawn
	// anchors on each side.
	AnchorMargin float32 `yaml:"anchor_margin"`
}

// Camera configures the orbiting camera of the 3D lessons. Angles are in
// degrees.
type Camera struct {
	Radius   float32 `yaml:"radius"`
	Height   float32 `yaml:"height"`
	StartDeg float32 `yaml:"start_deg"`
	RateDeg  float32 `yaml:"rate_deg"`
	FOVDeg   float32 `yaml:"fov_deg"`
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
}

type Lighting struct {
	Position      [3]float32 `yaml:"position"`
	Ambient       float32    `yaml:"ambient"`
	SpecularPower float32    `yaml:"specular_power"`
}

// Model optionally adds a glTF mesh to the blinn-phong lesson.
type Model struct {
	Path     string     `yaml:"path"`
	Position [3]float32 `yaml:"position"`
	Scale    float32    `yaml:"scale"`
	Color    [3]float32 `yaml:"color"`
}

func Default() Config {
	return Config{
		Window: Window{
			Width:   800,
			Height:  600,
			Title:   "Render Lessons",
			VSync:   true,
			Samples: 2,
		},
		Motion: Motion{
			SpawnerChangeTime: 5,
			SpawnInterval:     0.08,
			Lifetime:          Range{0.25, 6},
			Speed:             Range{125, 350},
			Force:             Range{150, 750},
			Size:              Range{2, 50},
			MaxShapes:         250,
			CircleSegments:    40,
			AnchorMargin:      0.1,
		},
		Camera: Camera{
			Radius:  3,
			Height:  1,
			RateDeg: 10,
			FOVDeg:  80,
			Near:    0.1,
			Far:     100,
		},
		Lighting: Lighting{
			Position:      [3]float32{2, 3, 2},
			Ambient:       0.25,
			SpecularPower: 32,
		},
		Model: Model{
			Scale: 0.3,
			Color: [3]float32{0.8, 0.8, 0.8},
		},
		Seed: 0,
	}
}

// Load reads a YAML file over the defaults. A missing file is an error;
// callers that treat the file as optional check os.IsNotExist.
func Load(path string) (Config, error) {
	cfg := Default()

	info, err := os.Stat(path)
	if err != nil {
		return cfg, err
	}
	if info.Size() > maxConfigSize {
		return cfg, fmt.Errorf("config %q too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, leaving fields the document omits untouched,
// and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}

	m := c.Motion
	if m.SpawnInterval <= 0 {
		errs = append(errs, fmt.Errorf("motion.spawn_interval must be positive, got %v", m.SpawnInterval))
	}
	if m.SpawnerChangeTime <= 0 {
		errs = append(errs, fmt.Errorf("motion.spawner_change_time must be positive, got %v", m.SpawnerChangeTime))
	}
	ranges := []struct {
		name string
		r    Range
	}{
		{"lifetime", m.Lifetime},
		{"speed", m.Speed},
		{"force", m.Force},
		{"size", m.Size},
	}
	for _, nr := range ranges {
		if !nr.r.valid() {
			errs = append(errs, fmt.Errorf("motion.%s: min %v greater than max %v", nr.name, nr.r.Min, nr.r.Max))
		}
	}
	if m.Lifetime.Min <= 0 {
		errs = append(errs, fmt.Errorf("motion.lifetime.min must be positive, got %v", m.Lifetime.Min))
	}
	if m.Size.Min <= 0 {
		errs = append(errs, fmt.Errorf("motion.size.min must be positive, got %v", m.Size.Min))
	}
	if m.MaxShapes <= 0 {
		errs = append(errs, fmt.Errorf("motion.max_shapes must be positive, got %d", m.MaxShapes))
	}
	if m.CircleSegments < 3 {
		errs = append(errs, fmt.Errorf("motion.circle_segments must be at least 3, got %d", m.CircleSegments))
	}
	if m.AnchorMargin < 0 || m.AnchorMargin >= 0.5 {
		errs = append(errs, fmt.Errorf("motion.anchor_margin must be in [0, 0.5), got %v", m.AnchorMargin))
	}

	cam := c.Camera
	if cam.Radius <= 0 {
		errs = append(errs, fmt.Errorf("camera.radius must be positive, got %v", cam.Radius))
	}
	if cam.FOVDeg <= 0 || cam.FOVDeg >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov_deg must be in (0, 180), got %v", cam.FOVDeg))
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		errs = append(errs, fmt.Errorf("camera near/far must satisfy 0 < near < far, got %v/%v", cam.Near, cam.Far))
	}

	if c.Model.Path != "" && c.Model.Scale <= 0 {
		errs = append(errs, fmt.Errorf("model.scale must be positive, got %v", c.Model.Scale))
	}
	return errors.Join(errs...)
}
