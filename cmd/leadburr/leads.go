package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/FranksOps/leadburr/internal/report"
	"github.com/FranksOps/leadburr/internal/storage"
	"github.com/FranksOps/leadburr/internal/storage/backend"
)

var leadsFlags struct {
	filter storage.Filter
	since  time.Duration
	format string
}

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Export stored leads, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := backend.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return err
		}
		defer store.Close()

		filter := leadsFlags.filter
		if leadsFlags.since > 0 {
			t := time.Now().Add(-leadsFlags.since)
			filter.Since = &t
		}
		recs, err := store.List(ctx, filter)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		switch leadsFlags.format {
		case "csv", "":
			return report.WriteLeadsCSV(w, recs)
		case "json":
			return report.WriteLeadsJSON(w, recs)
		}
		return fmt.Errorf("unknown format %q", leadsFlags.format)
	},
}

func init() {
	f := leadsCmd.Flags()
	f.StringVar(&leadsFlags.filter.Client, "client", "", "only leads for this client")
	f.StringVar(&leadsFlags.filter.Category, "category", "", "only leads in this category")
	f.StringVar(&leadsFlags.filter.Country, "country", "", "only leads in this country")
	f.DurationVar(&leadsFlags.since, "since", 0, "only leads created within this window, e.g. 72h")
	f.IntVar(&leadsFlags.filter.Limit, "limit", 0, "maximum number of leads (0 for all)")
	f.StringVar(&leadsFlags.format, "format", "csv", "output format: csv or json")

	rootCmd.AddCommand(leadsCmd)
}
