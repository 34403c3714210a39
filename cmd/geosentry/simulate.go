package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"geosentry/internal/admin"
	"geosentry/internal/config"
	"geosentry/internal/engine"
	"geosentry/internal/feed"
	"geosentry/internal/logging"
	"geosentry/internal/sim"
	"geosentry/internal/zone"
)

var (
	simPrintOnly  bool
	simConfigPath string
	simSchemaPath string
	simTick       time.Duration
	simLogFile    string
	simAdminAddr  string
	simSeed       int64
	simTUI        bool
	simVerbose    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the live monitoring loop over a simulated feed",
	Long:  "simulate drives the geofencing and anomaly engine with simulated travelers and serves the admin API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if simVerbose {
			level = slog.LevelDebug
		}
		log := logging.New(level)
		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

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

		seed := simSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		gen := feed.NewGenerator(cfg.Feed, cfg.Zones[0], seed, nil)

		useTUI := simTUI && term.IsTerminal(int(os.Stdout.Fd()))

		// In TUI mode stdout belongs to the altscreen; newWriters keeps
		// JSON lines off it.
		samples, events, verdicts, cleanup, err := newWriters(simPrintOnly, useTUI, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		var tui *sim.TUIWriter
		var runner *sim.Runner
		if useTUI {
			// Snapshot closure resolves lazily so the TUI can be
			// wired into the writer chain before the runner exists.
			tui = sim.NewTUIWriter(func() []sim.EntityStatus {
				if runner == nil {
					return nil
				}
				return runner.Snapshot()
			})
			ews := []sim.EventWriter{}
			if events != nil {
				ews = append(ews, events)
			}
			vws := []sim.VerdictWriter{}
			if verdicts != nil {
				vws = append(vws, verdicts)
			}
			events = sim.NewMultiWriter(nil, append(ews, tui), nil)
			verdicts = sim.NewMultiWriter(nil, nil, append(vws, tui))
		}
		runner = sim.NewRunner(eng, gen, samples, events, verdicts, tickInterval)

		srv := admin.NewServer(eng, runner.Snapshot)
		go func() {
			if err := srv.Start(ctx, simAdminAddr); err != nil && err != http.ErrServerClosed {
				log.Error("admin server failed", "err", err)
				cancel()
			}
		}()

		go runner.Run(ctx)

		if useTUI {
			// Blocks until the user quits the view.
			err := tui.Start()
			cancel()
			return err
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigs:
		case <-ctx.Done():
		}
		cancel()
		log.Info("simulation stopped")
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print records to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/geosentry.yaml", "Path to configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/geosentry.cue", "Path to CUE schema file")
	simulateCmd.Flags().DurationVar(&simTick, "tick", time.Second, "Feed tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export sample/event/verdict logs (JSONL)")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Admin API listen address")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Feed random seed (0 uses the clock)")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render a live terminal dashboard")
	simulateCmd.Flags().BoolVar(&simVerbose, "verbose", false, "Enable debug logging")
}
