// Command dungeonarch generates one dungeon level from a YAML config and
// exports it as JSON and/or SVG (spec §2, §6; cmd/dungeongen's shape).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/dungeonkeep/pkg/dungeon"
	"github.com/dshills/dungeonkeep/pkg/export"
	"github.com/dshills/dungeonkeep/pkg/validation"
)

const version = "1.0.0"

var (
	configPath = flag.String("config", "", "Path to YAML configuration file (required)")
	outputDir  = flag.String("output", ".", "Output directory for generated files")
	format     = flag.String("format", "json", "Export format: json, svg, or all")
	seedFlag   = flag.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("dungeonarch version %s\n", version)
		os.Exit(0)
	}

	if *help {
		printHelp()
		os.Exit(0)
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"json": true, "svg": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, svg, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	if *verbose {
		fmt.Printf("Loading configuration from %s\n", *configPath)
	}
	cfg, err := dungeon.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *seedFlag != 0 {
		if *verbose {
			fmt.Printf("Overriding seed from %d to %d\n", cfg.Seed, *seedFlag)
		}
		cfg.Seed = *seedFlag
	}

	if *verbose {
		fmt.Printf("Using seed: %d\n", cfg.Seed)
		fmt.Printf("Level: %dx%d, depth %d/%d\n", cfg.Width, cfg.Height, cfg.Depth, cfg.DeepestLevel)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	gen := dungeon.NewGeneratorWithValidator(validation.NewValidator())

	start := time.Now()
	if *verbose {
		fmt.Println("Generating level...")
	}
	artifact, err := gen.Generate(ctx, cfg)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	elapsed := time.Since(start)

	if *verbose {
		fmt.Printf("Generation completed in %v\n", elapsed)
		printStats(artifact)
	}

	baseName := fmt.Sprintf("level_%d_%d", cfg.Depth, cfg.Seed)

	if *format == "json" || *format == "all" {
		if err := exportJSON(artifact, baseName); err != nil {
			return err
		}
	}
	if *format == "svg" || *format == "all" {
		if err := exportSVG(artifact, baseName); err != nil {
			return err
		}
	}

	fmt.Printf("Successfully generated level (seed=%d, depth=%d) in %v\n", cfg.Seed, cfg.Depth, elapsed)
	return nil
}

func exportJSON(artifact *dungeon.Artifact, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".json")
	if *verbose {
		fmt.Printf("Exporting JSON to %s\n", filename)
	}
	if err := export.SaveJSONToFile(artifact, filename); err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func exportSVG(artifact *dungeon.Artifact, baseName string) error {
	filename := filepath.Join(*outputDir, baseName+".svg")
	if *verbose {
		fmt.Printf("Exporting SVG to %s\n", filename)
	}
	opts := export.DefaultSVGOptions()
	opts.Title = fmt.Sprintf("Level %d (seed=%d)", artifact.Depth, artifact.Seed)
	if err := export.SaveSVGToFile(artifact, filename, opts); err != nil {
		return fmt.Errorf("failed to export SVG: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func printStats(artifact *dungeon.Artifact) {
	fmt.Println("\nLevel Statistics:")
	fmt.Printf("  Dimensions: %dx%d\n", artifact.Level.Width, artifact.Level.Height)
	fmt.Printf("  Machines: %d\n", len(artifact.Machines))
	fmt.Printf("  Waypoints: %d\n", len(artifact.Waypoints))
	fmt.Printf("  Up stairs: (%d,%d)\n", artifact.UpStairs.X, artifact.UpStairs.Y)
	fmt.Printf("  Down stairs: (%d,%d)\n", artifact.DownStairs.X, artifact.DownStairs.Y)

	if artifact.Report != nil {
		fmt.Printf("\nValidation: %s\n", validationStatus(artifact.Report.Passed))
		if len(artifact.Report.Errors) > 0 {
			fmt.Printf("  Errors: %d\n", len(artifact.Report.Errors))
			for _, e := range artifact.Report.Errors {
				fmt.Printf("    - %s\n", e)
			}
		}
		if m := artifact.Report.Metrics; m != nil {
			fmt.Println("\nMetrics:")
			fmt.Printf("  MachineCount: %d\n", m.MachineCount)
			fmt.Printf("  LakeCellCount: %d\n", m.LakeCellCount)
			fmt.Printf("  BridgeCellCount: %d\n", m.BridgeCellCount)
			fmt.Printf("  ChokepointCount: %d\n", m.ChokepointCount)
		}
	}
}

func validationStatus(passed bool) string {
	if passed {
		return "PASSED"
	}
	return "FAILED"
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: dungeonarch -config <config.yaml> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'dungeonarch -help' for detailed help")
}

func printHelp() {
	fmt.Printf("dungeonarch version %s\n\n", version)
	fmt.Println("A command-line tool for generating procedural dungeon levels.")
	fmt.Println("\nUsage:")
	fmt.Println("  dungeonarch -config <config.yaml> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML configuration file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for generated files (default: current directory)")
	fmt.Println("  -format string")
	fmt.Println("        Export format: json, svg, or all (default: json)")
	fmt.Println("  -seed uint")
	fmt.Println("        Override the seed from config (0 = use config seed) (default: 0)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Generate a level with default JSON export")
	fmt.Println("  dungeonarch -config level.yaml")
	fmt.Println("\n  # Generate with a custom seed and all export formats")
	fmt.Println("  dungeonarch -config level.yaml -seed 12345 -format all -output ./out")
	fmt.Println("\n  # Generate an SVG visualization with verbose output")
	fmt.Println("  dungeonarch -config level.yaml -format svg -verbose")
	fmt.Println("\nConfiguration File:")
	fmt.Println("  The YAML configuration file specifies level parameters including:")
	fmt.Println("  - seed (for deterministic generation)")
	fmt.Println("  - width, height (grid dimensions)")
	fmt.Println("  - depth, deepestLevel (amulet-level milestone)")
	fmt.Println("  - minimumLavaLevel, minimumBrimstoneLevel (lake liquid thresholds)")
}
