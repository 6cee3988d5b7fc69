package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/lockstep-sim/lockstep/internal/config"
	"github.com/lockstep-sim/lockstep/internal/engine"
	"github.com/lockstep-sim/lockstep/internal/event"
	"github.com/lockstep-sim/lockstep/internal/logging"
	"github.com/lockstep-sim/lockstep/internal/runner"
	"github.com/lockstep-sim/lockstep/internal/sim"
	"github.com/lockstep-sim/lockstep/internal/system"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo simulation for the configured number of ticks",
	Long: `Run builds a demo world of random-walk systems, steps it through the
configured number of ticks, and prints a summary.

The runner, tick count and world size come from the config file, from
LOCKSTEP_* environment variables, or from flags.`,
	RunE: runRun,
}

var (
	runTicks   int64 // Override engine.ticks
	runWorkers int   // Override runner.workers
	runSerial  bool  // Override runner.serial
)

func init() {
	runCmd.Flags().Int64Var(&runTicks, "ticks", 0, "number of ticks to run (0 = from config)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "worker pool size (0 = from config)")
	runCmd.Flags().BoolVar(&runSerial, "serial", false, "use the serial runner")
	rootCmd.AddCommand(runCmd)
}

// buildRunner constructs the runner the config (and flags) ask for.
func buildRunner(cfg *config.Config) system.Runner {
	if runSerial || cfg.Runner.Serial {
		return runner.NewSerial()
	}
	workers := cfg.Runner.Workers
	if runWorkers > 0 {
		workers = runWorkers
	}
	return runner.NewParallel(runner.WithWorkers(workers))
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Close()

	mgr, err := system.NewManager(buildRunner(cfg))
	if err != nil {
		return err
	}

	bus := event.NewBus()
	eng, err := engine.New(mgr, engine.WithBus(bus), engine.WithLogger(log))
	if err != nil {
		return err
	}

	// Report failed ticks as they happen; the summary below only shows
	// the final outcome.
	bus.Subscribe("tick.failed", func(e event.Event) {
		failed := e.(event.TickFailedEvent)
		fmt.Printf("%s tick %d: %v\n", errStyle.Render("FAIL"), failed.Tick, failed.Err)
	})

	walkers := make([]*sim.RandomWalker, cfg.Sim.Systems)
	for i := range walkers {
		walkers[i] = sim.NewRandomWalker(fmt.Sprintf("walker-%d", i), cfg.Sim.Seed+int64(i))
		eng.Register(walkers[i])
	}

	ticks := cfg.Engine.Ticks
	if runTicks > 0 {
		ticks = runTicks
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	runErr := eng.Run(ctx, 0, ticks)
	elapsed := time.Since(start)

	fmt.Println()
	fmt.Println(headerStyle.Render("SIMULATION RUN"))
	fmt.Printf("%s %s\n", labelStyle.Render("Systems:"), valueStyle.Render(fmt.Sprintf("%d", cfg.Sim.Systems)))
	fmt.Printf("%s %s\n", labelStyle.Render("Ticks:"), valueStyle.Render(fmt.Sprintf("%d", ticks)))
	fmt.Printf("%s %s\n", labelStyle.Render("Elapsed:"), valueStyle.Render(elapsed.Round(time.Microsecond).String()))

	if runErr != nil {
		fmt.Printf("%s %s\n", labelStyle.Render("Result:"), errStyle.Render(runErr.Error()))
		return runErr
	}

	fmt.Printf("%s %s\n", labelStyle.Render("Result:"), okStyle.Render("ok"))
	for _, w := range walkers {
		fmt.Printf("  %s %+d\n", labelStyle.Render(w.Name()+":"), w.Position())
	}
	return nil
}
