package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/matricula-admin/internal/presentation"
	"github.com/noah-isme/matricula-admin/internal/service"
)

type filterFlags struct {
	search string
	status string
	course string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "Search names, document number or course key")
	cmd.Flags().StringVar(&f.status, "status", service.FilterAll, "Status filter (active, pending, completed, cancelled or all)")
	cmd.Flags().StringVar(&f.course, "course", service.FilterAll, "Course key filter or all")
}

func (f *filterFlags) criteria() service.FilterCriteria {
	return service.FilterCriteria{Search: f.search, Status: f.status, Course: f.course}
}

func newExportCmd() *cobra.Command {
	var (
		filters filterFlags
		format  string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored enrollments to CSV or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logr, be, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer logr.Sync() //nolint:errcheck
			defer be.close()

			store := newRecordStore(be, logr, nil)
			pipeline := service.NewPipeline(store.Load(ctx, cfg.Store.Collection), cfg.Listing.DefaultPageSize, cfg.Listing.PageSizes)
			records := pipeline.ApplyFilter(filters.criteria())

			exports := service.NewExportService(nil, cfg.Print.SettleDelay, nil, logr, nil, nil)
			var file *service.ExportFile
			switch format {
			case service.FormatCSV:
				file, err = exports.ExportCSV(records, time.Now())
			case service.FormatPDF:
				file, err = exports.ExportPDF(records, time.Now())
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = file.Filename
			} else if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
				path = filepath.Join(path, file.Filename)
			}
			if err := os.WriteFile(path, file.Payload, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d matrículas exportadas a %s\n", len(records), path)
			return nil
		},
	}
	filters.bind(cmd)
	cmd.Flags().StringVar(&format, "format", service.FormatCSV, "Export format: csv or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory (default matriculas_<date>.<format>)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print enrollment statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logr, be, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer logr.Sync() //nolint:errcheck
			defer be.close()

			store := newRecordStore(be, logr, nil)
			pipeline := service.NewPipeline(store.Load(ctx, cfg.Store.Collection), cfg.Listing.DefaultPageSize, cfg.Listing.PageSizes)
			pipeline.ApplyFilter(filters.criteria())
			stats := pipeline.Stats()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total:                %s\n", presentation.FormatCounter(stats.Total, ""))
			fmt.Fprintf(out, "Activas:              %s\n", presentation.FormatCounter(stats.Active, ""))
			fmt.Fprintf(out, "Pendientes:           %s\n", presentation.FormatCounter(stats.Pending, ""))
			fmt.Fprintf(out, "Completadas:          %s\n", presentation.FormatCounter(stats.Completed, ""))
			fmt.Fprintf(out, "Canceladas:           %s\n", presentation.FormatCounter(stats.Cancelled, ""))
			fmt.Fprintf(out, "Tasa de finalización: %s\n", presentation.FormatCounter(stats.CompletionRate, "%"))
			return nil
		},
	}
	filters.bind(cmd)
	return cmd
}
