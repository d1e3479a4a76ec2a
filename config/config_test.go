package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, float32(5), cfg.Motion.SpawnerChangeTime)
	assert.Equal(t, float32(0.08), cfg.Motion.SpawnInterval)
	assert.Equal(t, 250, cfg.Motion.MaxShapes)
	assert.Equal(t, float32(3), cfg.Camera.Radius)
}

func TestParseOverridesSubset(t *testing.T) {
	cfg := Default()
	doc := `
window:
  width: 1280
motion:
  spawn_interval: 0.5
  size: {min: 4, max: 8}
camera:
  rate_deg: -20
seed: 99
`
	require.NoError(t, Parse([]byte(doc), &cfg))

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height, "omitted fields keep their defaults")
	assert.Equal(t, float32(0.5), cfg.Motion.SpawnInterval)
	assert.Equal(t, Range{4, 8}, cfg.Motion.Size)
	assert.Equal(t, Default().Motion.Speed, cfg.Motion.Speed)
	assert.Equal(t, float32(-20), cfg.Camera.RateDeg)
	assert.Equal(t, int64(99), cfg.Seed)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"zero interval", "motion: {spawn_interval: 0}", "spawn_interval must be positive"},
		{"inverted range", "motion: {speed: {min: 10, max: 1}}", "motion.speed: min 10 greater than max 1"},
		{"dead on arrival", "motion: {lifetime: {min: 0, max: 1}}", "lifetime.min must be positive"},
		{"mirrored shapes", "motion: {size: {min: -4, max: 8}}", "size.min must be positive"},
		{"few segments", "motion: {circle_segments: 2}", "at least 3"},
		{"margin", "motion: {anchor_margin: 0.5}", "anchor_margin"},
		{"window", "window: {height: 0}", "window size"},
		{"fov", "camera: {fov_deg: 180}", "fov_deg"},
		{"near far", "camera: {near: 10, far: 1}", "0 < near < far"},
		{"model scale", "model: {path: a.glb, scale: 0}", "model.scale"},
		{"syntax", "window: [", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := Parse([]byte(tt.doc), &cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Motion.MaxShapes = 0
	cfg.Camera.Radius = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_shapes")
	assert.Contains(t, err.Error(), "camera.radius")
}

func TestValidateOrderIsStable(t *testing.T) {
	cfg := Default()
	cfg.Motion.Lifetime = Range{3, 1}
	cfg.Motion.Speed = Range{3, 1}
	cfg.Motion.Force = Range{3, 1}
	cfg.Motion.Size = Range{3, 1}

	want := strings.Join([]string{
		"motion.lifetime: min 3 greater than max 1",
		"motion.speed: min 3 greater than max 1",
		"motion.force: min 3 greater than max 1",
		"motion.size: min 3 greater than max 1",
	}, "\n")
	for i := 0; i < 20; i++ {
		assert.EqualError(t, cfg.Validate(), want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lessons.yaml")
	require.NoError(t, os.WriteFile(path, []byte("motion:\n  max_shapes: 12\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Motion.MaxShapes)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejectsLargeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.yaml")
	big := "# " + strings.Repeat("x", maxConfigSize) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(big), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "too large")
}

func TestLoadNamesFileOnInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("motion: {max_shapes: -1}\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "bad.yaml")
	assert.ErrorContains(t, err, "max_shapes")
}
