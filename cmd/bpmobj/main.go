// bpmobj converts BlockProject 3D binary meshes (BPM) to Wavefront OBJ.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/bpmobj/internal/config"
	"github.com/Faultbox/bpmobj/internal/convert"
	"github.com/Faultbox/bpmobj/internal/logger"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	inputs := config.Args()
	if len(inputs) == 0 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Sugar.Debugf("Config: %+v", cfg)

	results, err := convert.New(cfg, logger.Log).ConvertAll(inputs)
	for _, res := range results {
		fmt.Printf("%s -> %s (%s layout, %s)\n", res.Input, res.Output, res.Layout, res.Stats)
	}
	if err != nil {
		logger.Log.Debug("exiting with failure", zap.Int("failed", len(inputs)-len(results)))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `bpmobj - BPM to OBJ converter

Usage:
  bpmobj [options] <file.bpm> [more.bpm ...]

Each input is written next to itself as <file.bpm>.obj.

Options:`)
	flag.PrintDefaults()
}
