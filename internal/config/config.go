// Package config handles renderer configuration loading.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-nerf-renderer/pkg/field"
	"github.com/df07/go-nerf-renderer/pkg/model"
)

// Config holds all renderer settings.
type Config struct {
	Scene    model.SceneConfig  `yaml:"scene"`
	Geometry field.GeometrySpec `yaml:"geometry"`
	Texture  field.TextureSpec  `yaml:"texture"`
	Camera   CameraConfig       `yaml:"camera"`
	Render   RenderConfig       `yaml:"render"`
	Export   ExportConfig       `yaml:"export"`
	Logging  LoggingConfig      `yaml:"logging"`
}

// CameraConfig holds camera placement settings.
type CameraConfig struct {
	Center [3]float64 `yaml:"center"`
	LookAt [3]float64 `yaml:"look_at"`
	Up     [3]float64 `yaml:"up"`
	VFov   float64    `yaml:"vfov"`
}

// RenderConfig holds image output settings.
type RenderConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	OutputDir  string     `yaml:"output_dir"`
	Background [3]float64 `yaml:"background"`
	// RefreshSteps simulates this many training steps of occupancy grid
	// refresh before rendering, so pruning has an effect on the demo render
	RefreshSteps int `yaml:"refresh_steps"`
}

// ExportConfig holds mesh export settings.
type ExportConfig struct {
	Enabled     bool   `yaml:"enabled"`
	VertexColor bool   `yaml:"vertex_color"`
	ChunkSize   int    `yaml:"chunk_size"`
	Path        string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Scene: model.SceneConfig{
			Radius:           1.0,
			NumSamplesPerRay: 512,
			GridPrune:        true,
			Randomized:       true,
			RayChunk:         4096,
		},
		Geometry: field.GeometrySpec{
			Kind:       field.GeometrySphere,
			Resolution: 64,
			Radius:     0.6,
			Peak:       40.0,
		},
		Texture: field.TextureSpec{
			Kind:         field.TextureView,
			Color:        [3]float64{0.9, 0.6, 0.3},
			ViewStrength: 0.25,
		},
		Camera: CameraConfig{
			Center: [3]float64{0, 0, 2.5},
			LookAt: [3]float64{0, 0, 0},
			Up:     [3]float64{0, 1, 0},
			VFov:   40.0,
		},
		Render: RenderConfig{
			Width:        400,
			Height:       400,
			OutputDir:    "output",
			Background:   [3]float64{1, 1, 1},
			RefreshSteps: 256,
		},
		Export: ExportConfig{
			Enabled:     false,
			VertexColor: true,
			ChunkSize:   4096,
			Path:        "output/mesh.ply",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration with priority: defaults < file. An empty path
// returns the defaults; a missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
