// scenetool is a headless CLI for building and simulating procedural scenes.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/scenekit/internal/config"
	"github.com/Faultbox/scenekit/internal/logger"
	"github.com/Faultbox/scenekit/internal/mesh"
	"github.com/Faultbox/scenekit/internal/scene"
	"github.com/Faultbox/scenekit/internal/terrain"
	"github.com/Faultbox/scenekit/pkg/noise"
)

// tickRate is the simulated frame rate of the simulate command.
const tickRate = 60

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "terrain":
		err = cmdTerrain(args)
	case "simulate", "sim":
		err = cmdSimulate(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scenetool - procedural terrain and animation simulator

Usage:
  scenetool <command> [options]

Commands:
  terrain  [-obj out.obj]            Build the terrain and print statistics
  simulate [-ticks N]                Run the scene headless for N ticks
  config   [-save path]              Print the effective configuration

Common options:
  -config path   YAML config file
  -debug         Debug logging
  -samples N     Terrain grid samples per side
  -seed N        Seed for terrain noise and prop scatter

Examples:
  scenetool terrain -samples 200 -obj terrain.obj
  scenetool simulate -ticks 1200 -debug
  scenetool config > scenekit.yaml`)
}

// setup parses args, loads the config and initializes logging.
func setup(fs *flag.FlagSet, args []string) (*config.Config, *config.Flags, error) {
	flags := config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, nil, err
	}
	return cfg, flags, nil
}

func cmdTerrain(args []string) error {
	fs := flag.NewFlagSet("terrain", flag.ExitOnError)
	objPath := fs.String("obj", "", "Write the terrain mesh as Wavefront OBJ (- for stdout)")
	cfg, _, err := setup(fs, args)
	if err != nil {
		return err
	}

	tc := cfg.Terrain
	start := time.Now()
	field, err := terrain.NewField(tc.Lobes, tc.Noise, tc.Length, noise.New(tc.NoiseSeed))
	if err != nil {
		return err
	}
	grid, err := terrain.BuildGrid(tc.Samples, tc.Length, field)
	if err != nil {
		return err
	}
	logger.Info("terrain built",
		zap.Int("samples", tc.Samples),
		zap.Duration("took", time.Since(start)),
	)

	b := grid.Bounds()
	fmt.Fprintf(os.Stderr, "Samples:   %d x %d\n", tc.Samples, tc.Samples)
	fmt.Fprintf(os.Stderr, "Vertices:  %d\n", grid.VertexCount())
	fmt.Fprintf(os.Stderr, "Triangles: %d\n", grid.TriangleCount())
	fmt.Fprintf(os.Stderr, "Height:    %.3f .. %.3f\n", b.Min.Z, b.Max.Z)

	if *objPath == "" {
		return nil
	}
	return writeOBJ(*objPath, grid)
}

func writeOBJ(path string, m *mesh.Mesh) error {
	if path == "-" {
		return emitOBJ(os.Stdout, path, m)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := saveOBJ(f, path, m); err != nil {
		return err
	}
	logger.Info("wrote obj", zap.String("path", path))
	return nil
}

// saveOBJ writes m to wc and closes it, reporting the first error of the two.
func saveOBJ(wc io.WriteCloser, path string, m *mesh.Mesh) error {
	err := emitOBJ(wc, path, m)
	if cerr := wc.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", path, cerr)
	}
	return err
}

func emitOBJ(w io.Writer, path string, m *mesh.Mesh) error {
	if err := mesh.WriteOBJ(w, "terrain", m); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func cmdSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfg, flags, err := setup(fs, args)
	if err != nil {
		return err
	}
	ticks := flags.Ticks
	if ticks <= 0 {
		ticks = 10 * tickRate
	}

	renderer := scene.NewLogRenderer(logger.Log)
	s, err := scene.New(cfg, renderer, logger.Log)
	if err != nil {
		return err
	}

	start := time.Now()
	for i := range ticks {
		t := float32(i) / tickRate
		if err := s.Tick(t); err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
	}

	body, err := s.Graph.Global(scene.NodeBody)
	if err != nil {
		return err
	}
	bird := body.Translation.Array()
	logger.Info("simulation finished",
		zap.Int("ticks", ticks),
		zap.Int("laps", s.Laps()),
		zap.Float32("chainEnergy", s.Chain.Energy()),
		zap.Float32s("bird", bird[:]),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	savePath := fs.String("save", "", "Write the configuration to this path instead of stdout")
	cfg, _, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *savePath != "" {
		return cfg.SaveTo(*savePath)
	}
	return cfg.Write(os.Stdout)
}
