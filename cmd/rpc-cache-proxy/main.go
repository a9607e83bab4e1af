package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	endpointFlags []string
	bindFlag      string
	portFlag      int
	configFlag    string
)

var rootCmd = &cobra.Command{
	Use:          "rpc-cache-proxy",
	Short:        "Caching reverse proxy for JSON-RPC chain endpoints",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringArrayVarP(&endpointFlags, "endpoint", "e", nil,
		"chain endpoint as NAME=URL (repeatable)")
	rootCmd.Flags().StringVarP(&bindFlag, "bind", "b", "0.0.0.0", "address to bind")
	rootCmd.Flags().IntVarP(&portFlag, "port", "p", 8124, "port to listen on")
	rootCmd.Flags().StringVar(&configFlag, "config", "",
		"path to cache config YAML (defaults to $CACHE_CONFIG_FILE)")
	_ = rootCmd.MarkFlagRequired("endpoint")
}

func run(_ *cobra.Command, _ []string) error {
	root, err := NewCompositionRoot(endpointFlags, configFlag)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf("%s:%d", bindFlag, portFlag)
	root.Logger.Info("Server listening", zap.String("addr", addr))
	go func() {
		if err := root.HTTPServer.Start(addr); err != nil {
			root.Logger.Error("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	root.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := root.HTTPServer.Stop(ctx); err != nil {
		root.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Server exited")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
