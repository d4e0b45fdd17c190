// Package main runs the camera along a scripted orbit without a window and
// prints a YAML report of matrix rebuilds and culling results.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-view/internal/config"
	"github.com/Faultbox/midgard-view/internal/logger"
	"github.com/Faultbox/midgard-view/internal/sim"
)

var (
	flagOut         = flag.String("out", "", "Write the report to this file instead of stdout")
	flagWriteConfig = flag.String("write-config", "", "Write the effective config to this path and exit")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if *flagWriteConfig != "" {
		if err := cfg.SaveTo(*flagWriteConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Write config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Keep stdout clean for the report.
	opts := logger.FromConfig(cfg.Logging)
	opts.Console = *flagOut != ""
	logger.Log = logger.New(opts)
	defer logger.Sync()
	log := logger.Named("camsim")

	report, err := sim.Run(cfg, log)
	if err != nil {
		log.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}

	out := os.Stdout
	if *flagOut != "" {
		f, err := os.Create(*flagOut)
		if err != nil {
			log.Error("creating report", zap.Error(err))
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := sim.WriteReport(out, report); err != nil {
		log.Error("writing report", zap.Error(err))
		os.Exit(1)
	}
}
