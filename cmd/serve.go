package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnahuy123/liftSim/pkg/config"
	"github.com/gnahuy123/liftSim/pkg/logger"
	"github.com/gnahuy123/liftSim/pkg/server"
	"github.com/gnahuy123/liftSim/pkg/session"
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve interactive simulation sessions",
	Long: `Starts the HTTP and WebSocket API. Clients create sessions, add passengers
and advance them tick by tick. Idle sessions expire after the configured timeout.`,
	RunE: runServer,
}

func init() {
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (defaults are used when empty)")
	serveCmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional .env file applied over the configuration")
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile, envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// An explicit flag wins over the configured level
	if !cmd.Flags().Changed("log-level") {
		logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	}

	log := logger.GetLogger()
	log.Info().
		Str("listen", cfg.ListenAddr).
		Int("min_floor", cfg.MinFloor).
		Int("max_floor", cfg.MaxFloor).
		Str("policy", cfg.DefaultPolicy).
		Dur("session_timeout", cfg.SessionTimeout).
		Msg("Starting lift simulation server")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewRegistry(cfg.SessionTimeout, cfg.MinFloor)
	srv := server.New(cfg, sessions)

	go sessions.Run(ctx, cfg.SweepInterval, srv.Expire)

	return srv.ListenAndServe(ctx)
}
