package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/signalrelay/internal/app"
	"github.com/vovakirdan/signalrelay/internal/config"
	"github.com/vovakirdan/signalrelay/internal/log"
)

type flags struct {
	configPath string
	host       string
	port       int
	logLevel   string
	staticDir  string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "signalrelay",
		Short:         "WebRTC signaling relay over WebSocket",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&f.host, "host", "", "listen host")
	cmd.Flags().IntVar(&f.port, "port", 0, "listen port")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.staticDir, "static-dir", "", "directory with client assets")

	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	// .env is optional
	_ = godotenv.Load()

	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg, path, err := config.Load(&bootLogger, f.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg.UpdateFrom(overrides(cmd, f))

	logger := log.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info().Str("config", path).Str("addr", cfg.Addr()).Msg("starting signalrelay")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(&cfg, logger).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// overrides collects only the flags set on the command line.
func overrides(cmd *cobra.Command, f flags) config.Config {
	var out config.Config
	if cmd.Flags().Changed("host") {
		out.Host = f.host
	}
	if cmd.Flags().Changed("port") {
		out.Port = f.port
	}
	if cmd.Flags().Changed("log-level") {
		out.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("static-dir") {
		out.StaticDir = f.staticDir
	}
	return out
}
