package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getlbsim/lbsim/internal/storage"
	"github.com/getlbsim/lbsim/pkg/config"
	"github.com/getlbsim/lbsim/pkg/logging"
	"github.com/getlbsim/lbsim/pkg/server"
	"github.com/getlbsim/lbsim/pkg/service"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	configPath string
	host       string
	port       int
	logLevel   string
	logFormat  string
}

var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the load balancer simulator (foreground)",
	Example: `  # Start with defaults on port 8900
  lbsim serve

  # Custom port with JSON logs
  lbsim serve --port 3000 --log-format json

  # Load settings from a config file
  lbsim serve --config lbsim.yaml`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServe(&serveFlagVals)
	},
}

func initServeCmd() {
	rootCmd.AddCommand(serveCmd)

	f := &serveFlagVals
	serveCmd.Flags().StringVarP(&f.configPath, "config", "c", "", "path to YAML config file")
	serveCmd.Flags().StringVar(&f.host, "host", "", "interface to bind (default all interfaces)")
	serveCmd.Flags().IntVarP(&f.port, "port", "p", 0, "HTTP server port")
	serveCmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&f.logFormat, "log-format", "", "log format (text, json)")
}

func runServe(f *serveFlags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	// Flags override the config file.
	if f.host != "" {
		cfg.Host = f.host
	}
	if f.port != 0 {
		cfg.Port = f.port
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
	})

	store := storage.NewInMemoryBalancerStore()
	svc := service.New(store, service.WithLogger(log))
	srv := server.New(cfg, svc, server.WithLogger(log))

	if err := srv.Start(); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
