package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// @title Matrícula Admin API
// @version 1.0.0
// @description Enrollment registration, listing and export.
// @BasePath /api/v1
// @schemes http

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "matricula: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matricula",
		Short: "Enrollment administration server and tools",
		Long: `matricula serves the enrollment registration and listing pages, and runs the
listing pipeline headless to export or summarise the stored enrollments.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newServeCmd(),
		newExportCmd(),
		newStatsCmd(),
	)
	return cmd
}
