package cmd

import (
	"fmt"
	"time"

	"github.com/lockstep-sim/lockstep/internal/runner"
	"github.com/lockstep-sim/lockstep/internal/sim"
	"github.com/lockstep-sim/lockstep/internal/system"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure dispatch overhead for a large batch of trivial systems",
	Long: `Bench dispatches one tick across a large batch of trivial systems,
first through the parallel runner and then through the serial runner,
and reports both wall times.

Updates themselves are serialized by the exclusivity gate either way;
the parallel runner only overlaps dispatch work. The comparison shows
what that overlap buys for a given batch size and worker count.`,
	RunE: runBench,
}

var (
	benchSystems int           // Batch size
	benchWorkers int           // Pool size for the parallel pass
	benchCost    time.Duration // Simulated per-update cost
)

func init() {
	benchCmd.Flags().IntVar(&benchSystems, "systems", 10000, "number of systems in the batch")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 8, "worker pool size")
	benchCmd.Flags().DurationVar(&benchCost, "cost", 0, "simulated cost per update (e.g. 10us)")
	rootCmd.AddCommand(benchCmd)
}

func benchBatch(n int) []system.System {
	systems := make([]system.System, n)
	for i := range systems {
		systems[i] = sim.NewSleeper(fmt.Sprintf("sys-%d", i), benchCost)
	}
	return systems
}

func runBench(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	batch := benchBatch(benchSystems)

	par := runner.NewParallel(runner.WithWorkers(benchWorkers))
	start := time.Now()
	if err := par.Run(ctx, batch, 0); err != nil {
		return err
	}
	parElapsed := time.Since(start)

	ser := runner.NewSerial()
	start = time.Now()
	if err := ser.Run(ctx, batch, 1); err != nil {
		return err
	}
	serElapsed := time.Since(start)

	fmt.Println()
	fmt.Println(headerStyle.Render("DISPATCH BENCH"))
	fmt.Printf("%s %s\n", labelStyle.Render("Systems:"), valueStyle.Render(fmt.Sprintf("%d", benchSystems)))
	fmt.Printf("%s %s\n", labelStyle.Render("Workers:"), valueStyle.Render(fmt.Sprintf("%d", benchWorkers)))
	fmt.Printf("%s %s\n", labelStyle.Render("Parallel:"), valueStyle.Render(parElapsed.Round(time.Microsecond).String()))
	fmt.Printf("%s %s\n", labelStyle.Render("Serial:"), valueStyle.Render(serElapsed.Round(time.Microsecond).String()))
	if parElapsed > 0 {
		speedup := float64(serElapsed) / float64(parElapsed)
		fmt.Printf("%s %s\n", labelStyle.Render("Speedup:"), okStyle.Render(fmt.Sprintf("%.2fx", speedup)))
	}
	return nil
}
