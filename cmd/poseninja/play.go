package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/poseninja/config"
	"github.com/plus3/poseninja/game"
	"github.com/plus3/poseninja/pose"
	"github.com/plus3/poseninja/pose/movenet"
	"github.com/plus3/poseninja/scores"
	"github.com/plus3/poseninja/sfx"
	"github.com/spf13/cobra"
)

var playFlags struct {
	mode   string
	mouse  bool
	debug  bool
	scores string
	assets string
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the game window",
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringVar(&playFlags.mode, "mode", "", "start a round straight away: dots, fruit or sword")
	playCmd.Flags().BoolVar(&playFlags.mouse, "mouse", false, "play with the mouse instead of the webcam")
	playCmd.Flags().BoolVar(&playFlags.debug, "debug", false, "show the ImGui debug overlay (F1 toggles)")
	playCmd.Flags().StringVar(&playFlags.scores, "scores", "", "high score file")
	playCmd.Flags().StringVar(&playFlags.assets, "assets", "", "directory with sprite PNGs and sound WAVs")
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger, sessionID, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if playFlags.assets != "" {
		cfg.AssetsDir = playFlags.assets
	}

	mode, menu, err := startMode(playFlags.mode)
	if err != nil {
		return err
	}

	path, err := scoresPath(cfg, playFlags.scores)
	if err != nil {
		return err
	}
	table, err := scores.Load(path)
	if err != nil {
		return err
	}

	source, err := openSource(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer source.Close()

	opts := game.Options{
		Config:     cfg,
		Mode:       mode,
		Menu:       menu,
		Source:     source,
		Player:     openPlayer(cfg, logger),
		HighScores: table,
		ScoresPath: path,
		Seed:       uint64(time.Now().UnixNano()),
		SessionID:  sessionID,
		Logger:     logger,
		AssetsDir:  cfg.AssetsDir,
		Debug:      playFlags.debug,
	}

	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	ebiten.SetTPS(cfg.Window.TPS)

	g, err := game.NewGame(opts)
	if err != nil {
		return err
	}

	logger.Info("starting", "mode", mode.String(), "menu", menu, "mouse", playFlags.mouse, "scores", path)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	logger.Info("bye", "games", g.World.Session().Games, "best", table.Best())
	return nil
}

// startMode maps the --mode flag to the first round. An empty flag opens the
// menu instead.
func startMode(flag string) (mode game.Mode, menu bool, err error) {
	if flag == "" {
		return game.ModeDots, true, nil
	}
	m, ok := game.ParseMode(flag)
	if !ok {
		return 0, false, fmt.Errorf("unknown mode %q", flag)
	}
	return m, false, nil
}

func openSource(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (pose.Source, error) {
	if playFlags.mouse {
		return &game.MouseSource{W: cfg.Window.Width, H: cfg.Window.Height}, nil
	}

	cam := cfg.Camera
	source, err := movenet.Open(cmd.Context(), movenet.Options{
		Device:      cam.Device,
		ModelPath:   cam.Model,
		ConfigPath:  cam.ModelConfig,
		InputSize:   cam.InputSize,
		Layout:      movenet.Layout(cam.Layout),
		InputName:   cam.InputName,
		OutputName:  cam.OutputName,
		InferenceHz: cam.InferenceHz,
		Mirror:      cam.Mirror,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (use --mouse to play without a camera)", err)
	}
	return source, nil
}

// openPlayer falls back to silence when audio is off or cannot start.
func openPlayer(cfg *config.Config, logger *slog.Logger) sfx.Player {
	if !cfg.Audio.Enabled {
		return sfx.Mute{}
	}
	bank, err := sfx.NewBank(sfx.Options{
		SampleRate: cfg.Audio.SampleRate,
		Volume:     cfg.Audio.Volume,
		AssetsDir:  cfg.AssetsDir,
		Logger:     logger,
	})
	if err != nil {
		logger.Warn("audio disabled", "err", err)
		return sfx.Mute{}
	}
	return bank
}
