package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/plus3/poseninja/game"
	"github.com/plus3/poseninja/scores"
	"github.com/spf13/cobra"
)

var benchFlags struct {
	duration time.Duration
	mode     string
	seed     uint64
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the game headless with an autopilot and report timings",
	Args:  cobra.NoArgs,
	RunE:  runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().DurationVar(&benchFlags.duration, "duration", 2*time.Minute, "simulated play time")
	benchCmd.Flags().StringVar(&benchFlags.mode, "mode", "fruit", "dots, fruit or sword")
	benchCmd.Flags().Uint64Var(&benchFlags.seed, "seed", 1, "random seed")
}

func runBench(cmd *cobra.Command, args []string) error {
	logger, sessionID, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode, ok := game.ParseMode(benchFlags.mode)
	if !ok {
		return fmt.Errorf("unknown mode %q", benchFlags.mode)
	}

	table := &scores.Table{}
	world := game.NewWorld(game.Options{
		Config:     cfg,
		Mode:       mode,
		HighScores: table,
		Seed:       benchFlags.seed,
		SessionID:  sessionID,
		Logger:     logger,
	})

	ticks := int(benchFlags.duration.Seconds() * float64(cfg.Window.TPS))
	report := &Report{
		Mode:      mode.String(),
		Simulated: benchFlags.duration,
		Seed:      benchFlags.seed,
		TPS:       cfg.Window.TPS,
		TickTime:  Stats{Samples: make([]time.Duration, 0, ticks)},
	}

	logger.Info("bench started", "mode", report.Mode, "ticks", ticks)
	runtime.ReadMemStats(&report.MemStatsStart)
	start := time.Now()

	ctx := cmd.Context()
	for i := 0; i < ticks; i++ {
		if i%1024 == 0 && ctx.Err() != nil {
			break
		}
		t := time.Now()
		world.Tick()
		report.TickTime.Samples = append(report.TickTime.Samples, time.Since(t))
	}

	report.WallTime = time.Since(start)
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Ticks = len(report.TickTime.Samples)
	report.TickTime.Finalize()

	session := world.Session()
	report.Games = session.Games
	report.Score = session.Score
	report.HighScores = table.Scores()
	report.Systems = world.Scheduler.GetStats().Systems
	report.Storage = world.Storage.CollectStats()

	logger.Info("bench finished", "ticks", report.Ticks, "wall", report.WallTime)
	return report.Generate(cmd.OutOrStdout())
}
