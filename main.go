package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-nerf-renderer/internal/config"
	"github.com/df07/go-nerf-renderer/internal/logger"
	"github.com/df07/go-nerf-renderer/pkg/core"
	"github.com/df07/go-nerf-renderer/pkg/export"
	"github.com/df07/go-nerf-renderer/pkg/field"
	"github.com/df07/go-nerf-renderer/pkg/model"
	"github.com/df07/go-nerf-renderer/pkg/renderer"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to YAML config file (defaults used when empty)")
	width := flag.Int("width", 0, "Override render width")
	height := flag.Int("height", 0, "Override render height")
	exportMesh := flag.Bool("export", false, "Export the surface mesh to PLY after rendering")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Radiance Field Renderer")
		fmt.Println("Usage: nerf-renderer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Output will be saved to <output_dir>/render_<timestamp>.png")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *width > 0 {
		cfg.Render.Width = *width
	}
	if *height > 0 {
		cfg.Render.Height = *height
	}
	if *exportMesh {
		cfg.Export.Enabled = true
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Sugar.Errorw("render failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	sceneAABB := core.NewCubeAABB(cfg.Scene.Radius)

	geometry, err := field.BuildGeometry(cfg.Geometry, sceneAABB)
	if err != nil {
		return fmt.Errorf("building geometry: %w", err)
	}
	texture, err := field.BuildTexture(cfg.Texture)
	if err != nil {
		return fmt.Errorf("building texture: %w", err)
	}

	background := core.NewVec3(cfg.Render.Background[0], cfg.Render.Background[1], cfg.Render.Background[2])
	m, err := model.NewModel(cfg.Scene, geometry, texture, background)
	if err != nil {
		return fmt.Errorf("building model: %w", err)
	}

	logger.Sugar.Infow("model ready",
		"geometry", cfg.Geometry.Kind,
		"texture", cfg.Texture.Kind,
		"grid_prune", cfg.Scene.GridPrune,
	)

	// Refresh the occupancy grid so pruning actually culls empty space
	// before the demo render
	if cfg.Scene.GridPrune && cfg.Render.RefreshSteps > 0 {
		m.Train(true)
		refreshStart := time.Now()
		for step := 0; step <= cfg.Render.RefreshSteps; step++ {
			m.UpdateStep(0, step)
		}
		logger.Sugar.Infow("occupancy grid refreshed",
			"steps", cfg.Render.RefreshSteps,
			"duration", time.Since(refreshStart),
		)
	}
	m.Eval()

	camera := renderer.NewCamera(renderer.CameraConfig{
		Center:      core.NewVec3(cfg.Camera.Center[0], cfg.Camera.Center[1], cfg.Camera.Center[2]),
		LookAt:      core.NewVec3(cfg.Camera.LookAt[0], cfg.Camera.LookAt[1], cfg.Camera.LookAt[2]),
		Up:          core.NewVec3(cfg.Camera.Up[0], cfg.Camera.Up[1], cfg.Camera.Up[2]),
		Width:       cfg.Render.Width,
		AspectRatio: float64(cfg.Render.Width) / float64(cfg.Render.Height),
		VFov:        cfg.Camera.VFov,
	})

	startTime := time.Now()
	img, err := renderer.RenderImage(m, camera, cfg.Render.Width)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	logger.Sugar.Infow("render completed",
		"width", cfg.Render.Width,
		"height", camera.Height(),
		"duration", time.Since(startTime),
	)

	if err := os.MkdirAll(cfg.Render.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(cfg.Render.OutputDir, fmt.Sprintf("render_%s.png", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	logger.Log.Info("image saved", zap.String("path", filename))

	if cfg.Export.Enabled {
		mesh, err := m.Export(model.ExportConfig{
			ExportVertexColor: cfg.Export.VertexColor,
			ChunkSize:         cfg.Export.ChunkSize,
		})
		if err != nil {
			return fmt.Errorf("exporting mesh: %w", err)
		}
		if err := export.SaveMeshPLY(cfg.Export.Path, mesh); err != nil {
			return err
		}
		logger.Sugar.Infow("mesh saved",
			"path", cfg.Export.Path,
			"vertices", mesh.VertexCount(),
			"faces", mesh.FaceCount(),
		)
	}

	return nil
}
