package main

import (
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-octree-raytracer/pkg/loaders"
	"github.com/df07/go-octree-raytracer/pkg/renderer"
	"github.com/df07/go-octree-raytracer/pkg/scene"
)

// Config holds the parsed command line
type Config struct {
	Scene   string
	Config  string // JSON scene file; overrides Scene
	Width   int    // 0 = scene setting
	Height  int    // 0 = scene setting
	Depth   int    // -1 = scene setting
	Octree  string // "on", "off" or "" for the scene setting
	Threads int
	Output  string // PNG path; "" = output/<scene>/render_<timestamp>.png
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags reads the command line into a Config
func parseFlags(args []string, out io.Writer) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.Scene, "scene", "gallery", "Scene: built-in name ("+strings.Join(scene.BuiltinNames(), ", ")+") or json:<name>")
	fs.StringVar(&cfg.Config, "config", "", "Path to a JSON scene file (overrides -scene)")
	fs.IntVar(&cfg.Width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&cfg.Height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&cfg.Depth, "depth", -1, "Reflection/refraction depth limit (-1 = scene default)")
	fs.StringVar(&cfg.Octree, "octree", "", "Octree acceleration: on or off (empty = scene default)")
	fs.IntVar(&cfg.Threads, "threads", 0, "Number of render workers (0 = CPU count)")
	fs.StringVar(&cfg.Output, "output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if *help {
		fmt.Fprintln(out, "Octree Raytracer")
		fmt.Fprintln(out, "Usage: raytracer [options]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Scene files are read from the scenes/ directory as json:<name>.")
		return cfg, flag.ErrHelp
	}
	if cfg.Octree != "" && cfg.Octree != "on" && cfg.Octree != "off" {
		return cfg, fmt.Errorf("-octree must be on or off, got %q", cfg.Octree)
	}
	return cfg, nil
}

// createScene resolves the scene named by the command line
func createScene(cfg Config) (*scene.Scene, error) {
	if cfg.Config != "" {
		return loaders.LoadSceneJSON(cfg.Config)
	}
	return loaders.ResolveScene(cfg.Scene, scene.FindScenesDir())
}

// renderParams merges command line overrides over the scene's settings
func renderParams(cfg Config, s *scene.Scene) renderer.RenderParams {
	params := renderer.ParamsFromSettings(s.Settings)
	if cfg.Width > 0 {
		params.Width = cfg.Width
	}
	if cfg.Height > 0 {
		params.Height = cfg.Height
	}
	if cfg.Depth >= 0 {
		params.DepthLimit = cfg.Depth
	}
	switch cfg.Octree {
	case "on":
		params.EnableOctree = true
	case "off":
		params.EnableOctree = false
	}
	params.Threads = cfg.Threads
	return params
}

// createOutputDir returns output/<scene base name>
func createOutputDir(sceneName string) string {
	base := strings.TrimPrefix(sceneName, "json:")
	base = strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	if base == "" || base == "." {
		base = "scene"
	}
	return filepath.Join("output", base)
}

func run(args []string, out io.Writer) error {
	cfg, err := parseFlags(args, out)
	if err != nil {
		return err
	}

	logger := renderer.NewDefaultLogger()
	logger.Printf("Starting Octree Raytracer...\n")

	s, err := createScene(cfg)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	s.Logger = logger

	params := renderParams(cfg, s)
	s.SetAspect(params.Width, params.Height)
	if err := params.Validate(); err != nil {
		return err
	}

	pixels := make([]uint32, params.Width*params.Height)
	stats, err := renderer.NewRenderer(s, params, logger).Render(pixels)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	logger.Printf("Rays: %d primary, %d shadow, %d reflection, %d refraction\n",
		stats.PrimaryRays, stats.ShadowRays, stats.ReflectionRays, stats.RefractionRays)

	filename := cfg.Output
	if filename == "" {
		name := cfg.Scene
		if cfg.Config != "" {
			name = cfg.Config
		}
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(createOutputDir(name), fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := savePNG(filename, pixels, params.Width, params.Height); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// savePNG writes a packed pixel buffer as a PNG, creating parent directories
func savePNG(filename string, pixels []uint32, width, height int) error {
	img, err := renderer.ToImage(pixels, width, height)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return nil
}
