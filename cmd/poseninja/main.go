// Command poseninja is a webcam arcade game driven by body pose.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/plus3/poseninja/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "poseninja",
	Short:         "Pop dots and slice fruit with your hands in front of a webcam",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+defaultConfigHint()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "poseninja:", err)
		os.Exit(1)
	}
}

func defaultConfigHint() string {
	path, err := config.DefaultPath()
	if err != nil {
		return "none"
	}
	return path
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// newLogger returns a text logger on stderr tagged with a fresh session id.
func newLogger() (*slog.Logger, string, error) {
	level, err := parseLevel(logLevel)
	if err != nil {
		return nil, "", err
	}
	id := uuid.NewString()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("session", id)
	slog.SetDefault(logger)
	return logger, id, nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func scoresPath(cfg *config.Config, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if cfg.ScoresPath != "" {
		return cfg.ScoresPath, nil
	}
	return config.DefaultScoresPath()
}
