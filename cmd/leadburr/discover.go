package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/report"
	"github.com/FranksOps/leadburr/internal/storage/backend"
)

var discoverFlags struct {
	req      lead.Request
	format   string
	leadsCSV string
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find new leads for a category and place",
	Example: `  leadburr discover --category gym --city Toronto --country Canada
  leadburr discover --category "yoga studio" --city Pune --country India --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := backend.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return err
		}
		defer store.Close()

		p, err := buildPipeline(cfg, store, logger)
		if err != nil {
			return err
		}

		req := discoverFlags.req.Normalize()
		start := time.Now()
		res, err := p.Run(ctx, req)
		if err != nil {
			return err
		}
		summary := report.Summarize(req, res, time.Since(start))

		if discoverFlags.leadsCSV != "" {
			if err := writeLeadsCSV(discoverFlags.leadsCSV, res.Leads); err != nil {
				return err
			}
		}
		return writeSummary(cmd.OutOrStdout(), discoverFlags.format, summary)
	},
}

func writeSummary(w io.Writer, format string, s report.Summary) error {
	switch format {
	case "json":
		return report.WriteJSON(w, s)
	case "text", "":
		return report.WriteText(w, s)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeLeadsCSV(path string, leads []lead.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	recs := make([]*lead.Record, len(leads))
	for i := range leads {
		recs[i] = &leads[i]
	}
	if err := report.WriteLeadsCSV(f, recs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	f := discoverCmd.Flags()
	f.StringVar(&discoverFlags.req.Category, "category", "", "business category, e.g. gym")
	f.StringVar(&discoverFlags.req.City, "city", "", "target city")
	f.StringVar(&discoverFlags.req.Country, "country", "", "target country")
	f.StringVar(&discoverFlags.req.Client, "client", "", "client the leads are attributed to")
	f.StringVar(&discoverFlags.format, "format", "text", "summary format: text or json")
	f.StringVar(&discoverFlags.leadsCSV, "leads-csv", "", "also write the accepted leads to this CSV file")
	_ = discoverCmd.MarkFlagRequired("category")

	rootCmd.AddCommand(discoverCmd)
}
