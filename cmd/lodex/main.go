package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	clientcmd "github.com/rzbill/lodex/internal/cmd/client"
	serverrun "github.com/rzbill/lodex/internal/cmd/server"
	cfgpkg "github.com/rzbill/lodex/internal/config"
	logpkg "github.com/rzbill/lodex/pkg/log"
)

func main() {
	rootCmd := clientcmd.NewRoot()
	rootCmd.Long = "lodex serves a sorted collection through bucketed range queries and browses it from the terminal."

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start lodex server (gRPC and HTTP)",
		Aliases: []string{"run"},
		// the client root validates --transport, which the server ignores
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			grpcAddr, _ := cmd.Flags().GetString("grpc")
			httpAddr, _ := cmd.Flags().GetString("http")
			cfgPath, _ := cmd.Flags().GetString("config")
			backend, _ := cmd.Flags().GetString("backend")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			cfg, err := cfgpkg.Load(cfgPath)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)
			if backend != "" {
				cfg.Backend = backend
			}
			switch fsyncMode {
			case "":
			case "always", "interval", "never":
				cfg.Fsync = fsyncMode
			default:
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}
			if cmd.Flags().Changed("collection") {
				cfg.Collection, _ = cmd.Flags().GetString("collection")
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}

			logger := serverrun.ProcessLogger(cfg.Log)
			// Redirect standard library logs (used by Pebble) to our logger
			logpkg.RedirectStdLog(logger)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:  dataDir,
				GRPCAddr: grpcAddr,
				HTTPAddr: httpAddr,
				Config:   cfg,
				Logger:   logger,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("grpc", ":50051", "gRPC listen address (empty disables)")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address (empty disables)")
	serverStartCmd.Flags().String("config", os.Getenv("LODEX_CONFIG"), "Config file (json or yaml)")
	serverStartCmd.Flags().String("backend", "", "Storage backend: pebble|sqlite|memory")
	serverStartCmd.Flags().String("fsync", "", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().String("log-level", "", "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", "", "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
