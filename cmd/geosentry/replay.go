package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"geosentry/internal/config"
	"geosentry/internal/engine"
	"geosentry/internal/logging"
	"geosentry/internal/sim"
	"geosentry/internal/zone"
)

var (
	replayInput      string
	replayConfigPath string
	replaySchemaPath string
	replaySpeed      float64
	replayPrintOnly  bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded location log",
	Long:  "replay feeds recorded location samples back through the engine and re-emits the resulting geofence events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		cfg, err := config.Load(replayConfigPath, replaySchemaPath)
		if err != nil {
			return err
		}

		registry := zone.NewRegistry()
		for _, z := range cfg.Zones {
			if _, err := registry.Upsert(z); err != nil {
				return err
			}
		}
		eng := engine.New(registry, engine.Options{
			HistoryCap:       cfg.HistoryCap,
			EventLogCap:      cfg.EventLogCap,
			ViolationRadiusM: cfg.ViolationRadiusM,
			Thresholds:       cfg.Thresholds,
		})

		_, events, _, cleanup, err := newWriters(replayPrintOnly, false, "")
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logging.New(slog.LevelInfo)))
		defer cancel()
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs
			cancel()
		}()

		return sim.ReplayLogFile(ctx, replayInput, eng, events, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to recorded location sample log (JSONL)")
	replayCmd.Flags().StringVar(&replayConfigPath, "config", "config/geosentry.yaml", "Path to configuration YAML")
	replayCmd.Flags().StringVar(&replaySchemaPath, "schema", "schemas/geosentry.cue", "Path to CUE schema file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier (<= 0 replays instantly)")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print events to STDOUT instead of writing to DB")
	replayCmd.MarkFlagRequired("input")
}
